package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

// VisitorsPage handles GET /visitors.
func (s *Server) VisitorsPage(w http.ResponseWriter, r *http.Request) {
	s.renderVisitors(w, r, http.StatusOK, StateFromQuery(r.URL.Query(), s.PageSize))
}

func (s *Server) renderVisitors(w http.ResponseWriter, r *http.Request, status int, state ViewState) {
	counters, err := s.Services.Visitors.List(r.Context())
	if err != nil && state.Error == "" {
		state.Error = apperr.Message(err)
	}
	counters = Filter(counters, state.Query, func(v model.VisitorCounter) []string { return []string{v.Page} })
	visible, pager := Paginate(counters, state)

	var total int64
	for _, c := range counters {
		total += c.Count
	}

	data := s.page(r, "Visitors")
	data.Path = "/visitors"
	s.Templates.RenderStatus(w, status, "visitors.html", &struct {
		PageData
		View     ViewState
		Counters []model.VisitorCounter
		Pager    Pager
		Total    int64
	}{
		PageData: data,
		View:     state,
		Counters: visible,
		Pager:    pager,
		Total:    total,
	})
}

// VisitorResetSubmit handles POST /visitors/{page}/reset.
func (s *Server) VisitorResetSubmit(w http.ResponseWriter, r *http.Request) {
	s.visitorAction(w, r, "reset", s.Services.Visitors.Reset)
}

// VisitorDeleteSubmit handles POST /visitors/{page}/delete.
func (s *Server) VisitorDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	s.visitorAction(w, r, "deleted", s.Services.Visitors.Delete)
}

func (s *Server) visitorAction(w http.ResponseWriter, r *http.Request, verb string,
	act func(ctx context.Context, page string) error) {
	if !allowed(w, r, model.RoleEditor) {
		return
	}
	page := r.PathValue("page")
	state := Reduce(StateFromQuery(url.Values{"q": {r.FormValue("q")}}, s.PageSize), Submit{})
	if err := act(r.Context(), page); err != nil {
		state = Reduce(Reduce(state, Failed{Err: err}), CancelEdit{})
		state.Error = apperr.Message(err)
		s.renderVisitors(w, r, apperr.HTTPStatus(err), state)
		return
	}
	slog.Info("visitor counter "+verb, "user", GetWebClaims(r.Context()).Username, "page", page)
	state = Reduce(state, Succeeded{Notice: "Counter for " + page + " " + verb + "."})
	http.Redirect(w, r, "/visitors"+state.QueryString("notice", state.Notice), http.StatusSeeOther)
}
