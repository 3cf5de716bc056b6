package auth

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/store"
)

// Sessions logs users in and out and checks presented tokens.
type Sessions struct {
	db     *sql.DB
	signer *Signer
}

// NewSessions returns a session manager over db.
func NewSessions(db *sql.DB, signer *Signer) *Sessions {
	return &Sessions{db: db, signer: signer}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login checks credentials and returns a signed token.
func (s *Sessions) Login(ctx context.Context, username, password string) (string, *Claims, error) {
	const op = "auth.login"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, apperr.Validation(op, "username and password required", nil)
	}

	u, err := store.GetUserByUsername(ctx, s.db, username)
	if err != nil {
		slog.Error("storage failure", "op", op, "error", err)
		return "", nil, apperr.Transient(op, err)
	}
	if u == nil || u.DeletedAt != nil || !CheckPassword(u.PasswordHash, password) {
		slog.Warn("login failed", "username", username)
		return "", nil, apperr.Unauthorized(op, "invalid credentials")
	}

	token, claims, err := s.signer.Sign(u)
	if err != nil {
		return "", nil, &apperr.Error{Kind: apperr.KindInternal, Op: op, Err: err}
	}
	slog.Info("user logged in", "user", u.Username, "role", u.Role)
	return token, claims, nil
}

// Authenticate verifies token, rejecting revoked tokens and tokens of
// deactivated accounts.
func (s *Sessions) Authenticate(ctx context.Context, token string) (*Claims, error) {
	const op = "auth.authenticate"
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, apperr.Unauthorized(op, "invalid token")
	}

	revoked, err := store.IsTokenRevoked(ctx, s.db, claims.ID)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return nil, apperr.Transient(op, err)
	}
	if revoked {
		return nil, apperr.Unauthorized(op, "token revoked")
	}

	u, err := store.GetUser(ctx, s.db, claims.UserID)
	if err != nil {
		return nil, apperr.Transient(op, err)
	}
	if u == nil || u.DeletedAt != nil {
		return nil, apperr.Unauthorized(op, "account disabled")
	}
	// Role changes take effect without logging in again.
	claims.Role = u.Role
	return claims, nil
}

// Logout revokes the token described by claims.
func (s *Sessions) Logout(ctx context.Context, claims *Claims) error {
	if err := store.RevokeToken(ctx, s.db, claims.ID, claims.Expiry()); err != nil {
		slog.Error("storage failure", "op", "auth.logout", "error", err)
		return apperr.Transient("auth.logout", err)
	}
	slog.Info("user logged out", "user", claims.Username)
	return nil
}

// ChangePassword replaces the password of the logged-in user after
// checking the current one.
func (s *Sessions) ChangePassword(ctx context.Context, claims *Claims, current, next string) error {
	const op = "auth.change_password"
	if current == "" || next == "" {
		return apperr.Validation(op, "current and new password required", nil)
	}
	if err := model.ValidatePassword(next); err != nil {
		return apperr.Validation(op, err.Error(), map[string]string{"new_password": err.Error()})
	}

	u, err := store.GetUser(ctx, s.db, claims.UserID)
	if err != nil {
		return apperr.Transient(op, err)
	}
	if u == nil || u.DeletedAt != nil {
		return apperr.Unauthorized(op, "account disabled")
	}
	if !CheckPassword(u.PasswordHash, current) {
		return apperr.Unauthorized(op, "current password is incorrect")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindInternal, Op: op, Err: err}
	}
	if err := store.UpdateUserPassword(ctx, s.db, u.ID, hash); err != nil {
		return apperr.Transient(op, err)
	}
	slog.Info("user changed own password", "user", u.Username)
	return nil
}
