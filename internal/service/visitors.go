package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/store"
)

// maxPageName bounds visitor counter keys.
const maxPageName = 200

// Visitors manages per-page view counters.
type Visitors struct {
	db *sql.DB
}

// NewVisitors returns a visitor counter service backed by db.
func NewVisitors(db *sql.DB) *Visitors {
	return &Visitors{db: db}
}

// List returns every counter, busiest first.
func (s *Visitors) List(ctx context.Context) ([]model.VisitorCounter, error) {
	counters, err := store.ListVisitorCounters(ctx, s.db)
	if err != nil {
		return nil, classify("visitors.list", "visitor counter", err)
	}
	return counters, nil
}

// Get returns the counter for page.
func (s *Visitors) Get(ctx context.Context, page string) (*model.VisitorCounter, error) {
	const op = "visitors.get"
	page, err := pageName(op, page)
	if err != nil {
		return nil, err
	}
	v, err := store.GetVisitorCounter(ctx, s.db, page)
	if err != nil {
		return nil, classify(op, "visitor counter", err)
	}
	if v == nil {
		return nil, apperr.NotFound(op, "visitor counter not found")
	}
	return v, nil
}

// Increment records one view of page, creating its counter if needed.
func (s *Visitors) Increment(ctx context.Context, page string) (*model.VisitorCounter, error) {
	const op = "visitors.increment"
	page, err := pageName(op, page)
	if err != nil {
		return nil, err
	}
	v, err := store.IncrementVisitorCounter(ctx, s.db, page)
	if err != nil {
		return nil, classify(op, "visitor counter", err)
	}
	return v, nil
}

// Reset sets the count of page back to zero.
func (s *Visitors) Reset(ctx context.Context, page string) error {
	const op = "visitors.reset"
	page, err := pageName(op, page)
	if err != nil {
		return err
	}
	return classify(op, "visitor counter", store.ResetVisitorCounter(ctx, s.db, page))
}

// Delete removes the counter of page.
func (s *Visitors) Delete(ctx context.Context, page string) error {
	const op = "visitors.delete"
	page, err := pageName(op, page)
	if err != nil {
		return err
	}
	return classify(op, "visitor counter", store.DeleteVisitorCounter(ctx, s.db, page))
}

func pageName(op, page string) (string, error) {
	page = strings.TrimSpace(page)
	switch {
	case page == "":
		return "", apperr.Validation(op, "page is required", map[string]string{"page": "is required"})
	case len(page) > maxPageName:
		return "", apperr.Validation(op, "page name too long", map[string]string{"page": "must be at most 200 characters"})
	}
	return page, nil
}
