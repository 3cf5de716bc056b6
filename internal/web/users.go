package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

type usersData struct {
	PageData
	Users       []model.User
	Roles       []string
	FieldErrors map[string]string
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, success string, err error) {
	users, lerr := s.Accounts.List(r.Context())
	if lerr != nil {
		slog.Error("failed to list users", "error", lerr)
	}
	data := &usersData{
		PageData: s.page(r, "Users"),
		Users:    users,
		Roles:    []string{model.RoleAdmin, model.RoleEditor, model.RoleViewer},
	}
	data.Path = "/users"
	data.Success = success
	if err != nil {
		data.Error = apperr.Message(err)
		data.FieldErrors = apperr.FieldsOf(err)
	}
	s.Templates.RenderStatus(w, status, "users.html", data)
}

// userResult re-renders the users page after a write.
func (s *Server) userResult(w http.ResponseWriter, r *http.Request, success string, err error) {
	if err != nil {
		s.renderUsers(w, r, apperr.HTTPStatus(err), "", err)
		return
	}
	s.renderUsers(w, r, http.StatusOK, success, nil)
}

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleAdmin) {
		return
	}
	s.renderUsers(w, r, http.StatusOK, "", nil)
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleAdmin) {
		return
	}

	u, err := s.Accounts.Create(r.Context(), r.FormValue("username"), r.FormValue("password"), r.FormValue("role"))
	if err == nil {
		slog.Info("user created", "user", GetWebClaims(r.Context()).Username, "new_user", u.Username, "role", u.Role)
	}
	s.userResult(w, r, "User created.", err)
}

// UserUpdateRoleSubmit handles POST /users/{id}/role (admin only).
func (s *Server) UserUpdateRoleSubmit(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleAdmin) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	u, err := s.Accounts.SetRole(r.Context(), id, r.FormValue("role"))
	if err == nil {
		slog.Info("user role updated", "user", GetWebClaims(r.Context()).Username, "target_user", u.Username, "new_role", u.Role)
	}
	s.userResult(w, r, "Role updated.", err)
}

// UserResetPasswordSubmit handles POST /users/{id}/password (admin only).
func (s *Server) UserResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleAdmin) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	err = s.Accounts.ResetPassword(r.Context(), id, r.FormValue("new_password"))
	if err == nil {
		slog.Info("user password reset", "user", GetWebClaims(r.Context()).Username, "target_id", id)
	}
	s.userResult(w, r, "Password reset.", err)
}

// UserDeleteSubmit handles POST /users/{id}/delete (admin only).
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleAdmin) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	err = s.Accounts.Delete(r.Context(), claims.UserID, id)
	if err == nil {
		slog.Info("user deleted", "user", claims.Username, "deleted_id", id)
	}
	s.userResult(w, r, "User deleted.", err)
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "settings.html", s.page(r, "Settings"))
}

// SettingsSubmit handles POST /settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Settings")
	err := s.Sessions.ChangePassword(r.Context(), GetWebClaims(r.Context()),
		r.FormValue("current_password"), r.FormValue("new_password"))
	if err != nil {
		data.Error = apperr.Message(err)
		s.Templates.RenderStatus(w, apperr.HTTPStatus(err), "settings.html", data)
		return
	}
	data.Success = "Password changed."
	s.Templates.Render(w, "settings.html", data)
}
