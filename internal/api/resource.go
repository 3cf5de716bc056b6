package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/numera-market/numera/internal/model"
)

// recordService is implemented by every entity service.
type recordService[T, In any] interface {
	ListAll(ctx context.Context) ([]T, error)
	ListActive(ctx context.Context, f model.ListFilter) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id int64, in In) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// toggleService is implemented by the sellable listing services.
type toggleService[T any] interface {
	SetSold(ctx context.Context, id int64, sold bool) (*T, error)
	SetActive(ctx context.Context, id int64, active bool) (*T, error)
}

// Resource serves the CRUD endpoints of one entity.
type Resource[T, In any] struct {
	// Name is used in log records, e.g. "phone number".
	Name string
	Svc  recordService[T, In]
}

// List handles GET /api/<entities>. Admin lists are unfiltered.
func (h *Resource[T, In]) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(rows))
}

// ListActive handles the public storefront list.
func (h *Resource[T, In]) ListActive(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.Svc.ListActive(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(rows))
}

// Get handles GET /api/<entities>/{id}.
func (h *Resource[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, v)
}

// Create handles POST /api/<entities>.
func (h *Resource[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info(h.Name+" created", "user", username(r))
	jsonResponse(w, http.StatusCreated, v)
}

// Update handles PUT /api/<entities>/{id}. Omitted fields keep their
// stored values.
func (h *Resource[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in In
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info(h.Name+" updated", "user", username(r), "id", id)
	jsonResponse(w, http.StatusOK, v)
}

// Delete handles DELETE /api/<entities>/{id}.
func (h *Resource[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	slog.Info(h.Name+" deleted", "user", username(r), "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type toggleRequest struct {
	Value *bool `json:"value"`
}

// Toggles serves the quick sold/active switches of a listing.
type Toggles[T any] struct {
	Name string
	Svc  toggleService[T]
}

// Sold handles PUT /api/<entities>/{id}/sold.
func (h *Toggles[T]) Sold(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "sold", h.Svc.SetSold)
}

// Active handles PUT /api/<entities>/{id}/active.
func (h *Toggles[T]) Active(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "active", h.Svc.SetActive)
}

func (h *Toggles[T]) toggle(w http.ResponseWriter, r *http.Request, flag string,
	set func(context.Context, int64, bool) (*T, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Value == nil {
		jsonResponse(w, http.StatusBadRequest, errorBody{Error: "value required",
			Fields: map[string]string{"value": "is required"}})
		return
	}
	v, err := set(r.Context(), id, *req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info(h.Name+" "+flag+" toggled", "user", username(r), "id", id, "value", *req.Value)
	jsonResponse(w, http.StatusOK, v)
}

func username(r *http.Request) string {
	if c := GetClaims(r.Context()); c != nil {
		return c.Username
	}
	return ""
}
