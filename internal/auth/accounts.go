package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/store"
)

// Accounts manages back-office users.
type Accounts struct {
	db *sql.DB
}

// NewAccounts returns an account manager over db.
func NewAccounts(db *sql.DB) *Accounts {
	return &Accounts{db: db}
}

func storageErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(op, "user not found")
	}
	if store.IsUniqueViolation(err) {
		e := apperr.Conflict(op, "username already taken", err)
		e.Fields = map[string]string{"username": "already taken"}
		return e
	}
	slog.Error("storage failure", "op", op, "error", err)
	return apperr.Transient(op, err)
}

// List returns live accounts.
func (a *Accounts) List(ctx context.Context) ([]model.User, error) {
	users, err := store.ListUsers(ctx, a.db)
	if err != nil {
		return nil, storageErr("users.list", err)
	}
	return users, nil
}

// Get returns a live account.
func (a *Accounts) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := store.GetUser(ctx, a.db, id)
	if err != nil {
		return nil, storageErr("users.get", err)
	}
	if u == nil || u.DeletedAt != nil {
		return nil, apperr.NotFound("users.get", "user not found")
	}
	return u, nil
}

// Create adds an account.
func (a *Accounts) Create(ctx context.Context, username, password, role string) (*model.User, error) {
	const op = "users.create"
	username = strings.TrimSpace(username)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if err := model.ValidatePassword(password); err != nil {
		fields["password"] = err.Error()
	}
	if !model.ValidRole(role) {
		fields["role"] = "must be admin, editor or viewer"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(op, "invalid input", fields)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindInternal, Op: op, Err: err}
	}
	u, err := store.CreateUser(ctx, a.db, username, hash, role)
	if err != nil {
		return nil, storageErr(op, err)
	}
	slog.Info("user created", "user", u.Username, "role", u.Role)
	return u, nil
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (a *Accounts) SetRole(ctx context.Context, id int64, role string) (*model.User, error) {
	const op = "users.set_role"
	if !model.ValidRole(role) {
		return nil, apperr.Validation(op, "invalid role", map[string]string{"role": "must be admin, editor or viewer"})
	}
	u, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleAdmin && role != model.RoleAdmin {
		if err := a.keepAnAdmin(ctx, op); err != nil {
			return nil, err
		}
	}
	if err := store.UpdateUserRole(ctx, a.db, id, role); err != nil {
		return nil, storageErr(op, err)
	}
	return a.Get(ctx, id)
}

// ResetPassword sets a new password for a user.
func (a *Accounts) ResetPassword(ctx context.Context, id int64, password string) error {
	const op = "users.reset_password"
	if err := model.ValidatePassword(password); err != nil {
		return apperr.Validation(op, err.Error(), map[string]string{"password": err.Error()})
	}
	if _, err := a.Get(ctx, id); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindInternal, Op: op, Err: err}
	}
	if err := store.UpdateUserPassword(ctx, a.db, id, hash); err != nil {
		return storageErr(op, err)
	}
	return nil
}

// Delete deactivates a user. Users cannot delete themselves and the last
// admin cannot be deleted.
func (a *Accounts) Delete(ctx context.Context, actorID, id int64) error {
	const op = "users.delete"
	if actorID == id {
		return apperr.Validation(op, "cannot delete your own account", nil)
	}
	u, err := a.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == model.RoleAdmin {
		if err := a.keepAnAdmin(ctx, op); err != nil {
			return err
		}
	}
	if err := store.DeleteUser(ctx, a.db, id); err != nil {
		return storageErr(op, err)
	}
	slog.Info("user deleted", "user", u.Username)
	return nil
}

// EnsureAdmin creates an admin account when no admin exists. It reports
// whether the account was created.
func (a *Accounts) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := store.CountAdmins(ctx, a.db)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := a.Create(ctx, username, password, model.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Accounts) keepAnAdmin(ctx context.Context, op string) error {
	n, err := store.CountAdmins(ctx, a.db)
	if err != nil {
		return storageErr(op, err)
	}
	if n <= 1 {
		return apperr.Validation(op, "at least one admin must remain", nil)
	}
	return nil
}
