package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/db"
	"github.com/numera-market/numera/internal/feed"
	"github.com/numera-market/numera/internal/media"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/service"
)

const testJWTSecret = "test-secret"

type fakeUploader struct {
	objects []media.Object
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, obj media.Object) (media.Result, error) {
	if f.err != nil {
		return media.Result{}, f.err
	}
	f.objects = append(f.objects, obj)
	return media.Result{URL: "https://cdn.example.com/" + obj.Category + "/x.jpg", Backend: "fake"}, nil
}

type fakeFeed struct {
	profile string
}

func (f *fakeFeed) Posts(_ context.Context, profile string) (feed.Result, error) {
	f.profile = profile
	return feed.Result{Username: "numera", Source: feed.SourceFallback}, nil
}

type testServer struct {
	*httptest.Server
	accounts *auth.Accounts
	uploader *fakeUploader
	feed     *fakeFeed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := db.NewTestDB(t)
	ts := &testServer{
		accounts: auth.NewAccounts(database),
		uploader: &fakeUploader{},
		feed:     &fakeFeed{},
	}
	router := NewRouter(Deps{
		DB:       database,
		Services: service.New(database),
		Sessions: auth.NewSessions(database, auth.NewSigner(testJWTSecret, time.Hour)),
		Accounts: ts.accounts,
		Uploader: ts.uploader,
		Feed:     ts.feed,
	})
	ts.Server = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

// login creates an account with the given role and returns its token.
func (ts *testServer) login(t *testing.T, username, role string) string {
	t.Helper()
	if _, err := ts.accounts.Create(context.Background(), username, "password", role); err != nil {
		t.Fatalf("creating %s: %v", username, err)
	}

	body, _ := json.Marshal(map[string]string{"username": username, "password": "password"})
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp loginResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func setupTestServer(t *testing.T) (*testServer, string) {
	t.Helper()
	ts := newTestServer(t)
	return ts, ts.login(t, "admin", model.RoleAdmin)
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends the request and decodes the response body into out, if given.
func do(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func createCategory(t *testing.T, ts *testServer, token, name string) model.Category {
	t.Helper()
	var c model.Category
	if code := do(t, "POST", ts.URL+"/api/categories", token, map[string]any{"name": name}, &c); code != http.StatusCreated {
		t.Fatalf("creating category: expected 201, got %d", code)
	}
	return c
}

func TestLoginEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Missing fields are a validation error.
	body, _ = json.Marshal(map[string]string{"username": "admin"})
	resp, _ = http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	ts, token := setupTestServer(t)

	if code := do(t, "GET", ts.URL+"/api/auth/me", token, nil, nil); code != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", code)
	}
	if code := do(t, "POST", ts.URL+"/api/auth/logout", token, nil, nil); code != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", code)
	}
	if code := do(t, "GET", ts.URL+"/api/auth/me", token, nil, nil); code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", code)
	}
}

func TestPhoneNumbersAPIFlow(t *testing.T) {
	ts, token := setupTestServer(t)
	cat := createCategory(t, ts, token, "VIP")

	// Create.
	var p model.PhoneNumber
	code := do(t, "POST", ts.URL+"/api/phone-numbers", token, map[string]any{
		"number":      "98765 43210",
		"price":       15000.5,
		"category_id": cat.ID,
		"is_vip":      true,
	}, &p)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if p.DigitSum != 9 || !p.IsActive || p.IsSold {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if p.Price.String() != "15000.5" {
		t.Errorf("expected price 15000.5, got %s", p.Price)
	}

	// Duplicate number conflicts.
	var e errorBody
	code = do(t, "POST", ts.URL+"/api/phone-numbers", token, map[string]any{
		"number": "98765 43210", "price": 1, "category_id": cat.ID,
	}, &e)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if e.Fields["number"] == "" {
		t.Errorf("expected number field error, got %+v", e)
	}

	// Partial update keeps other fields.
	var updated model.PhoneNumber
	code = do(t, "PUT", ts.URL+"/api/phone-numbers/"+itoa(p.ID), token, map[string]any{"price": 9999}, &updated)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if updated.Number != p.Number || !updated.IsVIP || updated.Price.String() != "9999" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	// Mark sold; the public list hides it.
	code = do(t, "PUT", ts.URL+"/api/phone-numbers/"+itoa(p.ID)+"/sold", token, map[string]any{"value": true}, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var public []model.PhoneNumber
	if code := do(t, "GET", ts.URL+"/api/public/phone-numbers", "", nil, &public); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(public) != 0 {
		t.Errorf("expected sold number hidden, got %d", len(public))
	}

	// The admin list still has it.
	var all []model.PhoneNumber
	do(t, "GET", ts.URL+"/api/phone-numbers", token, nil, &all)
	if len(all) != 1 || !all[0].IsSold {
		t.Errorf("expected 1 sold number in admin list, got %+v", all)
	}

	// Delete, then delete again.
	if code := do(t, "DELETE", ts.URL+"/api/phone-numbers/"+itoa(p.ID), token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if code := do(t, "DELETE", ts.URL+"/api/phone-numbers/"+itoa(p.ID), token, nil, nil); code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", code)
	}
}

func TestValidationErrorFields(t *testing.T) {
	ts, token := setupTestServer(t)

	var e errorBody
	code := do(t, "POST", ts.URL+"/api/vehicle-numbers", token, map[string]any{"price": -1}, &e)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	for _, field := range []string{"plate_number", "category_id", "price"} {
		if e.Fields[field] == "" {
			t.Errorf("expected error for %s, got %+v", field, e.Fields)
		}
	}

	// Unknown category.
	code = do(t, "POST", ts.URL+"/api/vehicle-numbers", token, map[string]any{
		"plate_number": "MH01AB0001", "price": 1, "category_id": 404,
	}, &e)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown category, got %d", code)
	}
}

func TestPublicFilters(t *testing.T) {
	ts, token := setupTestServer(t)
	cat := createCategory(t, ts, token, "Fancy")

	for _, n := range []map[string]any{
		{"currency_code": "INR", "serial_number": "786786", "denomination": 10, "price": 500, "category_id": cat.ID},
		{"currency_code": "USD", "serial_number": "123456", "denomination": 1, "price": 2500, "category_id": cat.ID, "is_premium": true},
	} {
		if code := do(t, "POST", ts.URL+"/api/currency-numbers", token, n, nil); code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}
	}

	tests := []struct {
		query string
		want  int
		code  int
	}{
		{"", 2, http.StatusOK},
		{"?min_price=1000", 1, http.StatusOK},
		{"?currency_code=INR", 1, http.StatusOK},
		{"?is_premium=true", 1, http.StatusOK},
		{"?search=786", 1, http.StatusOK},
		{"?limit=1", 1, http.StatusOK},
		{"?min_price=abc", 0, http.StatusBadRequest},
		{"?is_vip=true", 0, http.StatusBadRequest},
	}
	for _, tt := range tests {
		var rows []model.CurrencyNumber
		code := do(t, "GET", ts.URL+"/api/public/currency-numbers"+tt.query, "", nil, &rows)
		if code != tt.code {
			t.Errorf("%q: expected %d, got %d", tt.query, tt.code, code)
			continue
		}
		if code == http.StatusOK && len(rows) != tt.want {
			t.Errorf("%q: expected %d rows, got %d", tt.query, tt.want, len(rows))
		}
	}
}

func TestCategoryStillReferenced(t *testing.T) {
	ts, token := setupTestServer(t)
	cat := createCategory(t, ts, token, "Mirror")
	do(t, "POST", ts.URL+"/api/phone-numbers", token, map[string]any{
		"number": "9000090000", "price": 1, "category_id": cat.ID,
	}, nil)

	var e errorBody
	code := do(t, "DELETE", ts.URL+"/api/categories/"+itoa(cat.ID), token, nil, &e)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if e.Error == "" {
		t.Error("expected an error message")
	}
}

func TestNumerologyLookup(t *testing.T) {
	ts, token := setupTestServer(t)

	var miss lookupMiss
	code := do(t, "GET", ts.URL+"/api/public/numerology/lookup?value=98765", "", nil, &miss)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 before any entry, got %d", code)
	}
	if miss.Key != "8" {
		t.Errorf("expected key 8 on miss, got %q", miss.Key)
	}

	code = do(t, "POST", ts.URL+"/api/numerology", token, map[string]any{"key": "8", "title": "Saturn"}, nil)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	var m model.NumerologyMatch
	if code := do(t, "GET", ts.URL+"/api/public/numerology/lookup?value=98765", "", nil, &m); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if m.Entry == nil || m.Entry.Title != "Saturn" {
		t.Errorf("unexpected match: %+v", m)
	}

	if code := do(t, "GET", ts.URL+"/api/public/numerology/lookup", "", nil, nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 without value, got %d", code)
	}
}

func TestVisitorCounters(t *testing.T) {
	ts, token := setupTestServer(t)

	for range 3 {
		if code := do(t, "POST", ts.URL+"/api/public/visits/home", "", nil, nil); code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
	}

	var v model.VisitorCounter
	do(t, "GET", ts.URL+"/api/visitors/home", token, nil, &v)
	if v.Count != 3 {
		t.Errorf("expected 3 visits, got %d", v.Count)
	}

	if code := do(t, "POST", ts.URL+"/api/visitors/home/reset", token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	do(t, "GET", ts.URL+"/api/visitors/home", token, nil, &v)
	if v.Count != 0 {
		t.Errorf("expected 0 visits after reset, got %d", v.Count)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, url, token string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("category", "phone-numbers")
	fw, _ := mw.CreateFormFile("image", "number.png")
	fw.Write(data)
	mw.Close()

	req, _ := http.NewRequest("POST", url, &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	ts, token := setupTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/uploads", token, pngBytes(t)))
	if err != nil {
		t.Fatal(err)
	}
	var res uploadResponse
	json.NewDecoder(resp.Body).Decode(&res)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if res.Backend != "fake" || res.Width != 40 {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(ts.uploader.objects) != 1 || ts.uploader.objects[0].MIME != "image/jpeg" {
		t.Errorf("expected one jpeg upload, got %+v", ts.uploader.objects)
	}

	// Not an image.
	resp, _ = http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/uploads", token, []byte("hello")))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-image, got %d", resp.StatusCode)
	}

	// Every backend failing is retryable.
	ts.uploader.err = errors.New("bucket down")
	resp, _ = http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/uploads", token, pngBytes(t)))
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when uploads fail, got %d", resp.StatusCode)
	}
}

func TestPublicFeed(t *testing.T) {
	ts, _ := setupTestServer(t)

	var res feed.Result
	code := do(t, "GET", ts.URL+"/api/public/feed?profile=https://instagram.com/numera", "", nil, &res)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if res.Source != feed.SourceFallback || res.Posts == nil {
		t.Errorf("unexpected feed: %+v", res)
	}
	if ts.feed.profile != "https://instagram.com/numera" {
		t.Errorf("expected profile to be passed through, got %q", ts.feed.profile)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := http.Get(ts.URL + "/api/phone-numbers")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(ts.URL + "/api/public/phone-numbers")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for public list, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	ts, adminToken := setupTestServer(t)
	viewerToken := ts.login(t, "viewer1", model.RoleViewer)
	editorToken := ts.login(t, "editor1", model.RoleEditor)

	// Viewers read but cannot write.
	if code := do(t, "GET", ts.URL+"/api/categories", viewerToken, nil, nil); code != http.StatusOK {
		t.Errorf("expected 200 for viewer listing categories, got %d", code)
	}
	if code := do(t, "POST", ts.URL+"/api/categories", viewerToken, map[string]any{"name": "X"}, nil); code != http.StatusForbidden {
		t.Errorf("expected 403 for viewer creating category, got %d", code)
	}

	// Editors write but cannot manage users.
	if code := do(t, "POST", ts.URL+"/api/categories", editorToken, map[string]any{"name": "X"}, nil); code != http.StatusCreated {
		t.Errorf("expected 201 for editor creating category, got %d", code)
	}
	if code := do(t, "GET", ts.URL+"/api/users", editorToken, nil, nil); code != http.StatusForbidden {
		t.Errorf("expected 403 for editor accessing users, got %d", code)
	}

	var users []model.User
	if code := do(t, "GET", ts.URL+"/api/users", adminToken, nil, &users); code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", code)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}
}

func TestUserManagement(t *testing.T) {
	ts, token := setupTestServer(t)

	var u model.User
	code := do(t, "POST", ts.URL+"/api/users", token, map[string]string{
		"username": "editor2", "password": "password", "role": model.RoleEditor,
	}, &u)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	code = do(t, "POST", ts.URL+"/api/users", token, map[string]string{
		"username": "editor2", "password": "password", "role": model.RoleEditor,
	}, nil)
	if code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", code)
	}

	if code := do(t, "PUT", ts.URL+"/api/users/"+itoa(u.ID), token, map[string]string{"role": "owner"}, nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", code)
	}

	var me map[string]any
	do(t, "GET", ts.URL+"/api/auth/me", token, nil, &me)
	selfID := int64(me["id"].(float64))
	if code := do(t, "DELETE", ts.URL+"/api/users/"+itoa(selfID), token, nil, nil); code == http.StatusOK {
		t.Error("expected self-deletion to be refused")
	}

	if code := do(t, "DELETE", ts.URL+"/api/users/"+itoa(u.ID), token, nil, nil); code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestStats(t *testing.T) {
	ts, token := setupTestServer(t)
	createCategory(t, ts, token, "VIP")

	var stats map[string]any
	if code := do(t, "GET", ts.URL+"/api/stats", token, nil, &stats); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if stats["categories"] != float64(1) {
		t.Errorf("expected 1 category, got %v", stats["categories"])
	}
}
