package web

import (
	"context"
	"net/http"
	"time"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/model"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const cookieName = "token"

// Authenticator checks a presented session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// CookieAuthMiddleware validates the session cookie, including revocation
// and account state, and adds its claims to the context.
func CookieAuthMiddleware(sessions Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := sessions.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindTransient {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setAuthCookie stores token until expires.
func setAuthCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the session claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// allowed reports whether the session user has at least role, answering
// 403 when not.
func allowed(w http.ResponseWriter, r *http.Request, role string) bool {
	claims := GetWebClaims(r.Context())
	if claims == nil || !model.RoleAtLeast(claims.Role, role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
