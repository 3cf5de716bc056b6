package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

type recordService[T, In any] interface {
	ListAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id int64, in In) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type toggleService[T any] interface {
	SetSold(ctx context.Context, id int64, sold bool) (*T, error)
	SetActive(ctx context.Context, id int64, active bool) (*T, error)
}

// screen is the list/search/paginate/edit page of one entity.
type screen[T, In any] struct {
	s        *Server
	title    string
	template string
	path     string
	svc      recordService[T, In]
	toggles  toggleService[T]
	parse    func(*http.Request) (In, error)
	apply    func(In, *T)
	blank    func() T
	id       func(T) int64
	label    func(T) string
	// text returns the fields matched by in-page search.
	text func(T) []string
	// extra adds screen-specific data, may be nil.
	extra func(*http.Request) any
}

type screenData[T any] struct {
	PageData
	View  ViewState
	Rows  []T
	Pager Pager
	// Draft fills the edit form.
	Draft      T
	Categories []model.Category
	Extra      any
}

func (sc *screen[T, In]) register(mux *http.ServeMux, authed func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET "+sc.path, authed(sc.list))
	mux.Handle("POST "+sc.path, authed(sc.create))
	mux.Handle("POST "+sc.path+"/{id}", authed(sc.update))
	mux.Handle("POST "+sc.path+"/{id}/delete", authed(sc.delete))
	if sc.toggles != nil {
		mux.Handle("POST "+sc.path+"/{id}/sold", authed(sc.toggle("sold", sc.toggles.SetSold)))
		mux.Handle("POST "+sc.path+"/{id}/active", authed(sc.toggle("active", sc.toggles.SetActive)))
	}
}

func (sc *screen[T, In]) list(w http.ResponseWriter, r *http.Request) {
	state := StateFromQuery(r.URL.Query(), sc.s.PageSize)
	draft := sc.blank()
	if state.Mode == ModeEditing && state.EditingID > 0 {
		v, err := sc.svc.Get(r.Context(), state.EditingID)
		if err != nil {
			state = Reduce(state, CancelEdit{})
			state.Error = apperr.Message(err)
		} else {
			draft = *v
		}
	}
	sc.render(w, r, http.StatusOK, state, draft)
}

func (sc *screen[T, In]) render(w http.ResponseWriter, r *http.Request, status int, state ViewState, draft T) {
	rows, err := sc.svc.ListAll(r.Context())
	if err != nil && state.Error == "" {
		state.Error = apperr.Message(err)
	}
	rows = Filter(rows, state.Query, sc.text)
	visible, pager := Paginate(rows, state)

	data := &screenData[T]{
		PageData: sc.s.page(r, sc.title),
		View:     state,
		Rows:     visible,
		Pager:    pager,
		Draft:    draft,
	}
	// Failed posts render under the list path, not the record path.
	data.Path = sc.path
	if cats, err := sc.s.Services.Categories.ListAll(r.Context()); err == nil {
		data.Categories = cats
	}
	if sc.extra != nil {
		data.Extra = sc.extra(r)
	}
	sc.s.Templates.RenderStatus(w, status, sc.template, data)
}

// submit runs a write and either redirects back with a notice or
// re-renders the form with the errors.
func (sc *screen[T, In]) submit(w http.ResponseWriter, r *http.Request, id int64, in In, save func() (*T, error)) {
	state := Reduce(sc.postState(r), StartEdit{ID: id})
	state = Reduce(state, Submit{})

	v, err := save()
	if err != nil {
		state = Reduce(state, Failed{Err: err})
		draft := sc.blank()
		if id > 0 {
			if cur, gerr := sc.svc.Get(r.Context(), id); gerr == nil {
				draft = *cur
			}
		}
		sc.apply(in, &draft)
		sc.render(w, r, apperr.HTTPStatus(err), state, draft)
		return
	}

	verb := "saved"
	if id == 0 {
		verb = "created"
	}
	state = Reduce(state, Succeeded{Notice: fmt.Sprintf("%s %s.", sc.label(*v), verb)})
	slog.Info(sc.title+" "+verb, "user", GetWebClaims(r.Context()).Username, "id", sc.id(*v))
	http.Redirect(w, r, sc.path+state.QueryString("notice", state.Notice), http.StatusSeeOther)
}

// postState restores the list position a form was posted from.
func (sc *screen[T, In]) postState(r *http.Request) ViewState {
	q := url.Values{"q": {r.FormValue("q")}, "page": {r.FormValue("page")}}
	return StateFromQuery(q, sc.s.PageSize)
}

func (sc *screen[T, In]) create(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleEditor) {
		return
	}
	in, err := sc.parse(r)
	sc.submit(w, r, 0, in, func() (*T, error) {
		if err != nil {
			return nil, err
		}
		return sc.svc.Create(r.Context(), in)
	})
}

func (sc *screen[T, In]) update(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleEditor) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	in, err := sc.parse(r)
	sc.submit(w, r, id, in, func() (*T, error) {
		if err != nil {
			return nil, err
		}
		return sc.svc.Update(r.Context(), id, in)
	})
}

func (sc *screen[T, In]) delete(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, model.RoleEditor) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	state := Reduce(sc.postState(r), Submit{})
	if err := sc.svc.Delete(r.Context(), id); err != nil {
		state = Reduce(state, Failed{Err: err})
		state = Reduce(state, CancelEdit{})
		state.Error = apperr.Message(err)
		sc.render(w, r, apperr.HTTPStatus(err), state, sc.blank())
		return
	}
	slog.Info(sc.title+" deleted", "user", GetWebClaims(r.Context()).Username, "id", id)
	state = Reduce(state, Succeeded{Notice: "Deleted."})
	http.Redirect(w, r, sc.path+state.QueryString("notice", state.Notice), http.StatusSeeOther)
}

func (sc *screen[T, In]) toggle(flag string, set func(context.Context, int64, bool) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r, model.RoleEditor) {
			return
		}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		value := r.FormValue("value") == "true"
		state := Reduce(sc.postState(r), Submit{})
		v, err := set(r.Context(), id, value)
		if err != nil {
			state = Reduce(Reduce(state, Failed{Err: err}), CancelEdit{})
			state.Error = apperr.Message(err)
			sc.render(w, r, apperr.HTTPStatus(err), state, sc.blank())
			return
		}
		slog.Info(sc.title+" "+flag+" toggled", "user", GetWebClaims(r.Context()).Username, "id", id, "value", value)
		state = Reduce(state, Succeeded{Notice: fmt.Sprintf("%s updated.", sc.label(*v))})
		http.Redirect(w, r, sc.path+state.QueryString("notice", state.Notice), http.StatusSeeOther)
	}
}
