package api

import (
	"context"
	"net/http"

	"github.com/numera-market/numera/internal/feed"
)

// FeedSource returns the social feed for a profile.
type FeedSource interface {
	Posts(ctx context.Context, profile string) (feed.Result, error)
}

// FeedHandler serves the social feed for the storefront and the admin
// preview.
type FeedHandler struct {
	Source FeedSource
}

// Get handles GET /api/feed and /api/public/feed. The optional "profile"
// query parameter is a profile URL or handle.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.Source.Posts(r.Context(), r.URL.Query().Get("profile"))
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Posts == nil {
		res.Posts = []feed.Post{}
	}
	jsonResponse(w, http.StatusOK, res)
}
