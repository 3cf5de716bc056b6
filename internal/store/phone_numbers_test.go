package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/numera-market/numera/internal/db"
	"github.com/numera-market/numera/internal/model"
)

func mustCategory(t *testing.T, database *sql.DB, name string) *model.Category {
	t.Helper()
	c := model.NewCategory()
	c.Name, c.Slug = name, name
	got, err := CreateCategory(context.Background(), database, &c)
	if err != nil {
		t.Fatalf("CreateCategory(%q): %v", name, err)
	}
	return got
}

func phone(number string, categoryID int64, price int64) *model.PhoneNumber {
	p := model.NewPhoneNumber()
	p.Number = number
	p.CategoryID = categoryID
	p.Price = decimal.NewFromInt(price)
	return &p
}

func TestCreateAndGetPhoneNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	vip := mustCategory(t, database, "VIP")

	in := phone("9999999999", vip.ID, 50000)
	in.IsPremium = true
	in.DigitSum = 9
	created, err := CreatePhoneNumber(ctx, database, in)
	if err != nil {
		t.Fatalf("CreatePhoneNumber: %v", err)
	}

	got, err := GetPhoneNumber(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetPhoneNumber: %v", err)
	}
	if got.Number != "9999999999" || !got.Price.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("unexpected phone number: %+v", got)
	}
	if !got.IsActive || got.IsSold || !got.IsPremium || got.DigitSum != 9 {
		t.Errorf("unexpected flags: %+v", got.Listing)
	}
	if got.CategoryName != "VIP" {
		t.Errorf("expected joined category name 'VIP', got %q", got.CategoryName)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestPhoneNumberFractionalPrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := mustCategory(t, database, "Fancy")

	in := phone("9876500000", c.ID, 0)
	in.Price = decimal.RequireFromString("1499.50")
	created, err := CreatePhoneNumber(ctx, database, in)
	if err != nil {
		t.Fatalf("CreatePhoneNumber: %v", err)
	}
	if !created.Price.Equal(decimal.RequireFromString("1499.5")) {
		t.Errorf("expected price 1499.5, got %s", created.Price)
	}
}

func TestDuplicatePhoneNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := mustCategory(t, database, "VIP")

	if _, err := CreatePhoneNumber(ctx, database, phone("9000000001", c.ID, 100)); err != nil {
		t.Fatalf("CreatePhoneNumber: %v", err)
	}
	_, err := CreatePhoneNumber(ctx, database, phone("9000000001", c.ID, 200))
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if col := ConstraintColumn(err); col != "number" {
		t.Errorf("expected conflicting column 'number', got %q", col)
	}
}

func TestPhoneNumberUnknownCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreatePhoneNumber(ctx, database, phone("9000000002", 42, 100))
	if !IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestListActivePhoneNumbers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	vip := mustCategory(t, database, "VIP")
	fancy := mustCategory(t, database, "Fancy")

	cheap := phone("9111111111", fancy.ID, 1000)
	premium := phone("9222222222", vip.ID, 50000)
	premium.IsPremium = true
	sold := phone("9333333333", vip.ID, 70000)
	sold.IsSold = true
	hidden := phone("9444444444", vip.ID, 80000)
	hidden.IsActive = false
	for _, p := range []*model.PhoneNumber{cheap, premium, sold, hidden} {
		if _, err := CreatePhoneNumber(ctx, database, p); err != nil {
			t.Fatalf("CreatePhoneNumber(%s): %v", p.Number, err)
		}
	}

	all, _ := ListPhoneNumbers(ctx, database)
	if len(all) != 4 {
		t.Fatalf("expected 4 phone numbers, got %d", len(all))
	}

	active, err := ListActivePhoneNumbers(ctx, database, model.ListFilter{})
	if err != nil {
		t.Fatalf("ListActivePhoneNumbers: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active phone numbers, got %d", len(active))
	}

	min := decimal.NewFromInt(10000)
	byPrice, _ := ListActivePhoneNumbers(ctx, database, model.ListFilter{MinPrice: &min})
	if len(byPrice) != 1 || byPrice[0].Number != "9222222222" {
		t.Errorf("expected only the premium number above 10000, got %+v", byPrice)
	}

	byCategory, _ := ListActivePhoneNumbers(ctx, database, model.ListFilter{CategoryID: fancy.ID})
	if len(byCategory) != 1 || byCategory[0].Number != "9111111111" {
		t.Errorf("expected only the fancy number, got %+v", byCategory)
	}

	byFlag, _ := ListActivePhoneNumbers(ctx, database, model.ListFilter{Flags: map[string]bool{"is_premium": true}})
	if len(byFlag) != 1 || !byFlag[0].IsPremium {
		t.Errorf("expected one premium number, got %+v", byFlag)
	}

	// Search matches the joined category name case-insensitively.
	bySearch, _ := ListActivePhoneNumbers(ctx, database, model.ListFilter{Search: "fAnCy"})
	if len(bySearch) != 1 {
		t.Errorf("expected 1 match for category search, got %d", len(bySearch))
	}

	paged, _ := ListActivePhoneNumbers(ctx, database, model.ListFilter{Sort: "price", Limit: 1, Offset: 1})
	if len(paged) != 1 || paged[0].Number != "9222222222" {
		t.Errorf("expected second cheapest on page 2, got %+v", paged)
	}

	if _, err := ListActivePhoneNumbers(ctx, database, model.ListFilter{Flags: map[string]bool{"password": true}}); err == nil {
		t.Error("expected error for non-whitelisted flag")
	}
}

func TestUpdateAndDeletePhoneNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := mustCategory(t, database, "VIP")

	p, _ := CreatePhoneNumber(ctx, database, phone("9555555555", c.ID, 100))
	p.IsSold = true
	p.Price = decimal.NewFromInt(150)
	if err := UpdatePhoneNumber(ctx, database, p); err != nil {
		t.Fatalf("UpdatePhoneNumber: %v", err)
	}
	got, _ := GetPhoneNumber(ctx, database, p.ID)
	if !got.IsSold || !got.Price.Equal(decimal.NewFromInt(150)) {
		t.Errorf("update not applied: %+v", got)
	}

	if err := DeletePhoneNumber(ctx, database, p.ID); err != nil {
		t.Fatalf("DeletePhoneNumber: %v", err)
	}
	if got, _ := GetPhoneNumber(ctx, database, p.ID); got != nil {
		t.Error("expected phone number to be gone")
	}
	if err := DeletePhoneNumber(ctx, database, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
