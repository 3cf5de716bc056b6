package web

import (
	"log/slog"
	"net/http"

	"github.com/numera-market/numera/internal/apperr"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	token, claims, err := s.Sessions.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		msg := "Invalid username or password."
		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			msg = "Enter your username and password."
		case apperr.KindTransient, apperr.KindInternal:
			msg = "Sign in failed, try again."
		}
		s.Templates.RenderStatus(w, apperr.HTTPStatus(err), "login.html", &PageData{Title: "Sign in", Error: msg})
		return
	}

	setAuthCookie(w, token, claims.Expiry())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked, not just forgotten.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		if claims, err := s.Sessions.Authenticate(r.Context(), cookie.Value); err == nil {
			if err := s.Sessions.Logout(r.Context(), claims); err != nil {
				slog.Error("failed to revoke session", "user", claims.Username, "error", err)
			}
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
