package api

import (
	"net/http"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/service"
)

// NumerologyHandler serves key lookups.
type NumerologyHandler struct {
	Svc *service.Numerology
}

type lookupMiss struct {
	Error string `json:"error"`
	Value string `json:"value"`
	Key   string `json:"key"`
}

// Lookup handles GET /api/numerology/lookup?value=...
// A value without an entry answers 404 but still reports its key.
func (h *NumerologyHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		writeError(w, apperr.Validation("numerology.lookup", "value required",
			map[string]string{"value": "is required"}))
		return
	}

	m, err := h.Svc.Lookup(r.Context(), value)
	if apperr.KindOf(err) == apperr.KindNotFound {
		jsonResponse(w, http.StatusNotFound, lookupMiss{Error: apperr.Message(err), Value: m.Value, Key: m.Key})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}
