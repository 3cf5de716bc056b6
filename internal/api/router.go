package api

import (
	"database/sql"
	"net/http"

	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/imaging"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/service"
)

// Deps are the collaborators of the API handlers.
type Deps struct {
	DB       *sql.DB
	Services *service.Services
	Sessions *auth.Sessions
	Accounts *auth.Accounts
	Uploader Uploader
	Imaging  imaging.Options
	Feed     FeedSource
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Sessions: d.Sessions}
	usersHandler := &UsersHandler{Accounts: d.Accounts}
	numerologyHandler := &NumerologyHandler{Svc: d.Services.Numerology}
	visitorsHandler := &VisitorsHandler{Svc: d.Services.Visitors}
	mediaHandler := &MediaHandler{DB: d.DB}
	statsHandler := &StatsHandler{DB: d.DB}
	uploadsHandler := &UploadsHandler{Uploader: d.Uploader, Options: d.Imaging}
	feedHandler := &FeedHandler{Source: d.Feed}

	authMW := AuthMiddleware(d.Sessions)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireEditor := RequireRole(model.RoleEditor)
	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireEditor(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public: login and storefront reads.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("GET /api/auth/me", read(authHandler.Me))
	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Entities: read (all roles), write (editor+).
	registerResource(mux, "categories", &Resource[model.Category, model.CategoryInput]{
		Name: "category", Svc: d.Services.Categories}, read, write)
	registerListing[model.PhoneNumber, model.PhoneNumberInput](mux, "phone-numbers", "phone number", d.Services.PhoneNumbers, read, write)
	registerListing[model.VehicleNumber, model.VehicleNumberInput](mux, "vehicle-numbers", "vehicle number", d.Services.VehicleNumbers, read, write)
	registerListing[model.CurrencyNumber, model.CurrencyNumberInput](mux, "currency-numbers", "currency number", d.Services.CurrencyNumbers, read, write)

	mux.Handle("GET /api/numerology/lookup", read(numerologyHandler.Lookup))
	mux.HandleFunc("GET /api/public/numerology/lookup", numerologyHandler.Lookup)
	registerResource(mux, "numerology", &Resource[model.NumerologyEntry, model.NumerologyInput]{
		Name: "numerology entry", Svc: d.Services.Numerology}, read, write)

	// Visitors.
	mux.Handle("GET /api/visitors", read(visitorsHandler.List))
	mux.Handle("GET /api/visitors/{page}", read(visitorsHandler.Get))
	mux.Handle("POST /api/visitors/{page}/reset", write(visitorsHandler.Reset))
	mux.Handle("DELETE /api/visitors/{page}", write(visitorsHandler.Delete))
	mux.HandleFunc("POST /api/public/visits/{page}", visitorsHandler.Increment)

	// Media.
	mux.Handle("POST /api/uploads", write(uploadsHandler.Create))
	mux.Handle("GET /api/media", read(mediaHandler.List))
	mux.Handle("DELETE /api/media/{id}", write(mediaHandler.Delete))

	// Feed and dashboard.
	mux.Handle("GET /api/feed", read(feedHandler.Get))
	mux.HandleFunc("GET /api/public/feed", feedHandler.Get)
	mux.Handle("GET /api/stats", read(statsHandler.Get))

	return mux
}

func registerResource[T, In any](mux *http.ServeMux, path string, h *Resource[T, In],
	read, write func(http.HandlerFunc) http.Handler) {
	base := "/api/" + path
	mux.Handle("GET "+base, read(h.List))
	mux.Handle("POST "+base, write(h.Create))
	mux.Handle("GET "+base+"/{id}", read(h.Get))
	mux.Handle("PUT "+base+"/{id}", write(h.Update))
	mux.Handle("DELETE "+base+"/{id}", write(h.Delete))
	mux.HandleFunc("GET /api/public/"+path, h.ListActive)
}

type listingService[T, In any] interface {
	recordService[T, In]
	toggleService[T]
}

func registerListing[T, In any](mux *http.ServeMux, path, name string, svc listingService[T, In],
	read, write func(http.HandlerFunc) http.Handler) {
	registerResource(mux, path, &Resource[T, In]{Name: name, Svc: svc}, read, write)
	t := &Toggles[T]{Name: name, Svc: svc}
	base := "/api/" + path + "/{id}"
	mux.Handle("PUT "+base+"/sold", write(t.Sold))
	mux.Handle("PUT "+base+"/active", write(t.Active))
}
