package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Sessions *auth.Sessions
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, claims, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			slog.Warn("login rejected", "username", req.Username, "remote", r.RemoteAddr)
		}
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, loginResponse{
		Token:     token,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.Expiry(),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.Sessions.Logout(r.Context(), claims); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"id":         claims.UserID,
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.Expiry(),
	})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Sessions.ChangePassword(r.Context(), claims, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
