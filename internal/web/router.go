package web

import (
	"database/sql"
	"net/http"

	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/service"
	webembed "github.com/numera-market/numera/web"
)

// Deps are the collaborators of the page handlers.
type Deps struct {
	DB       *sql.DB
	Services *service.Services
	Sessions *auth.Sessions
	Accounts *auth.Accounts
	Feed     FeedSource
	PageSize int
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(d Deps) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        d.DB,
		Services:  d.Services,
		Sessions:  d.Sessions,
		Accounts:  d.Accounts,
		Feed:      d.Feed,
		Templates: templates,
		PageSize:  d.PageSize,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(d.Sessions)
	authed := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", authed(s.Dashboard))

	s.categoriesScreen().register(mux, authed)
	s.phoneNumbersScreen().register(mux, authed)
	s.vehicleNumbersScreen().register(mux, authed)
	s.currencyNumbersScreen().register(mux, authed)
	s.numerologyScreen().register(mux, authed)

	mux.Handle("GET /visitors", authed(s.VisitorsPage))
	mux.Handle("POST /visitors/{page}/reset", authed(s.VisitorResetSubmit))
	mux.Handle("POST /visitors/{page}/delete", authed(s.VisitorDeleteSubmit))

	mux.Handle("GET /feed", authed(s.FeedPage))

	mux.Handle("GET /users", authed(s.UsersPage))
	mux.Handle("POST /users", authed(s.UserCreateSubmit))
	mux.Handle("POST /users/{id}/password", authed(s.UserResetPasswordSubmit))
	mux.Handle("POST /users/{id}/role", authed(s.UserUpdateRoleSubmit))
	mux.Handle("POST /users/{id}/delete", authed(s.UserDeleteSubmit))

	mux.Handle("GET /settings", authed(s.SettingsPage))
	mux.Handle("POST /settings", authed(s.SettingsSubmit))

	return mux, nil
}
