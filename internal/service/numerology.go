package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/numerology"
	"github.com/numera-market/numera/internal/store"
)

// Numerology manages numerology entries and key lookups.
type Numerology struct {
	records[model.NumerologyEntry]
}

// NewNumerology returns a numerology service backed by db.
func NewNumerology(db *sql.DB) *Numerology {
	return &Numerology{records[model.NumerologyEntry]{db: db, t: table[model.NumerologyEntry]{
		entity:     "numerology entry",
		prefix:     "numerology",
		create:     store.CreateNumerologyEntry,
		get:        store.GetNumerologyEntry,
		list:       store.ListNumerologyEntries,
		listActive: store.ListActiveNumerologyEntries,
		update:     store.UpdateNumerologyEntry,
		delete:     store.DeleteNumerologyEntry,
	}}}
}

// Create stores a new entry for a single-digit key.
func (s *Numerology) Create(ctx context.Context, in model.NumerologyInput) (*model.NumerologyEntry, error) {
	e := model.NewNumerologyEntry()
	in.Apply(&e)
	trimEntry(&e)
	if err := checkKey("numerology.create", e.Key); err != nil {
		return nil, err
	}
	return s.insert(ctx, &e)
}

// Update merges in over the stored entry.
func (s *Numerology) Update(ctx context.Context, id int64, in model.NumerologyInput) (*model.NumerologyEntry, error) {
	if in.Key != nil {
		if err := checkKey("numerology.update", strings.TrimSpace(*in.Key)); err != nil {
			return nil, err
		}
	}
	return s.modify(ctx, id, func(e *model.NumerologyEntry) {
		in.Apply(e)
		trimEntry(e)
	})
}

// Lookup reduces value to its key and returns the active entry for it.
// The key is always filled in; a missing entry is a NotFound error.
func (s *Numerology) Lookup(ctx context.Context, value string) (model.NumerologyMatch, error) {
	const op = "numerology.lookup"
	m := model.NumerologyMatch{Value: value, Key: numerology.Key(value)}

	e, err := store.GetActiveNumerologyEntryByKey(ctx, s.db, m.Key)
	if err != nil {
		return m, classify(op, "numerology entry", err)
	}
	if e == nil {
		return m, apperr.NotFound(op, "no numerology entry for key "+m.Key)
	}
	m.Entry = e
	return m, nil
}

func checkKey(op, key string) error {
	if key != "" && !numerology.ValidKey(key) {
		return apperr.Validation(op, "invalid key", map[string]string{"key": "must be a single digit 0-9"})
	}
	return nil
}

func trimEntry(e *model.NumerologyEntry) {
	e.Key = strings.TrimSpace(e.Key)
	e.Title = strings.TrimSpace(e.Title)
	e.RulingPlanet = strings.TrimSpace(e.RulingPlanet)
	e.LuckyColor = strings.TrimSpace(e.LuckyColor)
}
