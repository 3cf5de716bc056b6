package web

import (
	"log/slog"
	"net/http"

	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to get stats for dashboard", "error", err)
		stats = &store.Stats{}
	}
	visitors, err := s.Services.Visitors.List(r.Context())
	if err != nil {
		slog.Error("failed to list visitors for dashboard", "error", err)
	}

	// Limit top pages to 10.
	if len(visitors) > 10 {
		visitors = visitors[:10]
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats    *store.Stats
		Visitors []model.VisitorCounter
	}{
		PageData: s.page(r, "Dashboard"),
		Stats:    stats,
		Visitors: visitors,
	})
}
