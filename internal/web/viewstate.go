package web

import (
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/numera-market/numera/internal/apperr"
)

// Mode is what a screen is doing.
type Mode string

// Screen modes.
const (
	ModeIdle    Mode = "idle"
	ModeEditing Mode = "editing"
	ModeSaving  Mode = "saving"
)

// DefaultPageSize is used when a screen is built without a page size.
const DefaultPageSize = 25

// ViewState is the whole state of one admin screen. It is only changed
// through Reduce.
type ViewState struct {
	Mode Mode
	// EditingID is the record in the edit form, 0 for a new record.
	EditingID   int64
	Query       string
	Page        int
	PageSize    int
	Error       string
	Notice      string
	FieldErrors map[string]string
}

// Action is a screen event.
type Action interface {
	apply(s ViewState) ViewState
}

// Search sets the in-page search query and returns to the first page.
type Search struct{ Query string }

// GoToPage moves to a page. Pages start at 1.
type GoToPage struct{ Page int }

// StartEdit opens the form for a record, or for a new one when ID is 0.
type StartEdit struct{ ID int64 }

// CancelEdit closes the form.
type CancelEdit struct{}

// Submit marks the form as in flight. A second Submit while saving is
// ignored.
type Submit struct{}

// Succeeded ends a submission that was stored.
type Succeeded struct{ Notice string }

// Failed ends a submission that was rejected. The form stays open.
type Failed struct{ Err error }

// Reduce returns the state after a. s is not modified.
func Reduce(s ViewState, a Action) ViewState {
	s.FieldErrors = maps.Clone(s.FieldErrors)
	return a.apply(s)
}

func (a Search) apply(s ViewState) ViewState {
	s.Query = strings.TrimSpace(a.Query)
	s.Page = 1
	return s
}

func (a GoToPage) apply(s ViewState) ViewState {
	s.Page = max(a.Page, 1)
	return s
}

func (a StartEdit) apply(s ViewState) ViewState {
	if s.Mode == ModeSaving {
		return s
	}
	s.Mode = ModeEditing
	s.EditingID = max(a.ID, 0)
	s.Error, s.FieldErrors = "", nil
	return s
}

func (CancelEdit) apply(s ViewState) ViewState {
	if s.Mode == ModeSaving {
		return s
	}
	s.Mode = ModeIdle
	s.EditingID = 0
	s.Error, s.FieldErrors = "", nil
	return s
}

func (Submit) apply(s ViewState) ViewState {
	if s.Mode == ModeSaving {
		return s
	}
	s.Mode = ModeSaving
	s.Error, s.Notice, s.FieldErrors = "", "", nil
	return s
}

func (a Succeeded) apply(s ViewState) ViewState {
	if s.Mode != ModeSaving {
		return s
	}
	s.Mode = ModeIdle
	s.EditingID = 0
	s.Notice = a.Notice
	return s
}

func (a Failed) apply(s ViewState) ViewState {
	if s.Mode != ModeSaving {
		return s
	}
	s.Mode = ModeEditing
	s.Error = apperr.Message(a.Err)
	s.FieldErrors = apperr.FieldsOf(a.Err)
	return s
}

// StateFromQuery rebuilds a screen state from its URL query: q, page,
// edit and notice.
func StateFromQuery(q url.Values, pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := ViewState{Mode: ModeIdle, Page: 1, PageSize: pageSize}
	s = Reduce(s, Search{Query: q.Get("q")})
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		s = Reduce(s, GoToPage{Page: page})
	}
	if v := q.Get("edit"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			s = Reduce(s, StartEdit{ID: id})
		}
	}
	s.Notice = q.Get("notice")
	return s
}

// QueryString encodes the search and page of s, plus extra pairs.
func (s ViewState) QueryString(extra ...string) string {
	q := url.Values{}
	if s.Query != "" {
		q.Set("q", s.Query)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Saving reports whether a submission is in flight.
func (s ViewState) Saving() bool { return s.Mode == ModeSaving }

// Editing reports whether the form for id is open.
func (s ViewState) Editing(id int64) bool {
	return s.Mode != ModeIdle && s.EditingID == id
}

// Pager describes the visible page of a list.
type Pager struct {
	Page  int
	Pages int
	Total int
	Prev  int
	Next  int
}

// Paginate returns the rows on the state's page. A page past the end is
// clamped to the last page.
func Paginate[T any](rows []T, s ViewState) ([]T, Pager) {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Pager{Total: len(rows), Pages: max((len(rows)+size-1)/size, 1)}
	p.Page = min(max(s.Page, 1), p.Pages)
	if p.Page > 1 {
		p.Prev = p.Page - 1
	}
	if p.Page < p.Pages {
		p.Next = p.Page + 1
	}
	start := (p.Page - 1) * size
	end := min(start+size, len(rows))
	return rows[start:end], p
}

// Filter keeps the rows where any text field contains query, ignoring
// case. An empty query keeps every row.
func Filter[T any](rows []T, query string, text func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	var out []T
	for _, row := range rows {
		for _, field := range text(row) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
