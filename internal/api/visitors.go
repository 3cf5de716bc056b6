package api

import (
	"net/http"

	"github.com/numera-market/numera/internal/service"
)

// VisitorsHandler serves visitor counters.
type VisitorsHandler struct {
	Svc *service.Visitors
}

// List handles GET /api/visitors.
func (h *VisitorsHandler) List(w http.ResponseWriter, r *http.Request) {
	counters, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(counters))
}

// Get handles GET /api/visitors/{page}.
func (h *VisitorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Get(r.Context(), r.PathValue("page"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, v)
}

// Increment handles POST /api/public/visits/{page}.
func (h *VisitorsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Increment(r.Context(), r.PathValue("page"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, v)
}

// Reset handles POST /api/visitors/{page}/reset.
func (h *VisitorsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Reset(r.Context(), r.PathValue("page")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/visitors/{page}.
func (h *VisitorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("page")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
