package web

import (
	"net/http"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/feed"
)

// FeedPage handles GET /feed, a preview of what the storefront shows.
func (s *Server) FeedPage(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")
	data := &struct {
		PageData
		Profile string
		Result  feed.Result
	}{
		PageData: s.page(r, "Social feed"),
		Profile:  profile,
	}

	res, err := s.Feed.Posts(r.Context(), profile)
	if err != nil {
		data.Error = apperr.Message(err)
	}
	data.Result = res
	s.Templates.Render(w, "feed.html", data)
}
