package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/imaging"
	"github.com/numera-market/numera/internal/media"
)

// Uploader stores a processed image somewhere fetchable.
type Uploader interface {
	Upload(ctx context.Context, obj media.Object) (media.Result, error)
}

// UploadsHandler accepts listing and banner images.
type UploadsHandler struct {
	Uploader Uploader
	Options  imaging.Options
}

type uploadResponse struct {
	media.Result
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Create handles POST /api/uploads with a multipart "image" file and an
// optional "category" field.
func (h *UploadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	limit := h.Options.MaxBytes
	if limit <= 0 {
		limit = imaging.DefaultMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, apperr.Validation("uploads.create", "image too large",
				map[string]string{"image": "is too large"}))
			return
		}
		writeError(w, apperr.Validation("uploads.create", "invalid multipart form", nil))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.Validation("uploads.create", "image required",
			map[string]string{"image": "is required"}))
		return
	}
	defer file.Close()

	img, err := imaging.Process(file, h.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Uploader.Upload(r.Context(), media.Object{
		Category: r.FormValue("category"),
		Data:     img.Data,
		MIME:     img.MIME,
	})
	if err != nil {
		slog.Error("image upload failed", "user", username(r), "error", err)
		writeError(w, apperr.Transient("uploads.create", err))
		return
	}

	slog.Info("image uploaded", "user", username(r), "backend", res.Backend, "bytes", len(img.Data))
	jsonResponse(w, http.StatusCreated, uploadResponse{Result: res, Width: img.Width, Height: img.Height})
}
