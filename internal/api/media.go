package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/numera-market/numera/internal/store"
)

// MediaHandler serves images kept in the media table.
type MediaHandler struct {
	DB *sql.DB
}

// Serve handles GET /media/{id}.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, mime, err := store.GetMedia(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get media", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}

// List handles GET /api/media.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListMedia(r.Context(), h.DB, r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list media", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}

// Delete handles DELETE /api/media/{id}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := store.DeleteMedia(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "media not found")
			return
		}
		slog.Error("failed to delete media", "id", id, "error", err)
		jsonError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	slog.Info("media deleted", "user", username(r), "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves dashboard counts.
type StatsHandler struct {
	DB *sql.DB
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get stats", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
