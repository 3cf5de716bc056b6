package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

var numerologyFilters = tableFilters{
	alias:      "e",
	searchCols: []string{"e.key", "e.title", "e.description", "e.ruling_planet"},
	equalCols:  []string{"key"},
	sorts: map[string]string{
		"key":    "e.key",
		"title":  "e.title",
		"newest": "e.created_at DESC, e.id DESC",
	},
	defaultOrder: "e.key",
}

const numerologyColumns = `e.id, e.key, e.title, e.description, e.ruling_planet, e.lucky_color, e.is_active, e.created_at, e.updated_at`

func scanNumerologyEntry(row interface{ Scan(...any) error }, e *model.NumerologyEntry) error {
	return row.Scan(&e.ID, &e.Key, &e.Title, &e.Description, &e.RulingPlanet, &e.LuckyColor, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
}

// CreateNumerologyEntry inserts an entry and returns the stored row.
func CreateNumerologyEntry(ctx context.Context, db *sql.DB, e *model.NumerologyEntry) (*model.NumerologyEntry, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO numerology_entries (key, title, description, ruling_planet, lucky_color, is_active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Key, e.Title, e.Description, e.RulingPlanet, e.LuckyColor, e.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("creating numerology entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting numerology entry id: %w", err)
	}

	return GetNumerologyEntry(ctx, db, id)
}

// GetNumerologyEntry returns an entry by ID, or nil if it does not exist.
func GetNumerologyEntry(ctx context.Context, db *sql.DB, id int64) (*model.NumerologyEntry, error) {
	e := &model.NumerologyEntry{}
	err := scanNumerologyEntry(db.QueryRowContext(ctx,
		`SELECT `+numerologyColumns+` FROM numerology_entries e WHERE e.id = ?`, id,
	), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting numerology entry: %w", err)
	}
	return e, nil
}

// GetActiveNumerologyEntryByKey returns the active entry whose key equals
// key exactly, or nil if there is none.
func GetActiveNumerologyEntryByKey(ctx context.Context, db *sql.DB, key string) (*model.NumerologyEntry, error) {
	e := &model.NumerologyEntry{}
	err := scanNumerologyEntry(db.QueryRowContext(ctx,
		`SELECT `+numerologyColumns+` FROM numerology_entries e WHERE e.key = ? AND e.is_active = 1`, key,
	), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting numerology entry by key: %w", err)
	}
	return e, nil
}

// ListNumerologyEntries returns every entry ordered by key.
func ListNumerologyEntries(ctx context.Context, db *sql.DB) ([]model.NumerologyEntry, error) {
	return queryNumerologyEntries(ctx, db, model.ListFilter{}, false)
}

// ListActiveNumerologyEntries returns active entries matching f.
func ListActiveNumerologyEntries(ctx context.Context, db *sql.DB, f model.ListFilter) ([]model.NumerologyEntry, error) {
	return queryNumerologyEntries(ctx, db, f, true)
}

func queryNumerologyEntries(ctx context.Context, db *sql.DB, f model.ListFilter, active bool) ([]model.NumerologyEntry, error) {
	query, args, err := numerologyFilters.build(`SELECT `+numerologyColumns+` FROM numerology_entries e`, f, active)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing numerology entries: %w", err)
	}
	defer rows.Close()

	var entries []model.NumerologyEntry
	for rows.Next() {
		var e model.NumerologyEntry
		if err := scanNumerologyEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scanning numerology entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateNumerologyEntry replaces every editable field of an entry.
func UpdateNumerologyEntry(ctx context.Context, db *sql.DB, e *model.NumerologyEntry) error {
	result, err := db.ExecContext(ctx,
		`UPDATE numerology_entries
		 SET key = ?, title = ?, description = ?, ruling_planet = ?, lucky_color = ?, is_active = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.Key, e.Title, e.Description, e.RulingPlanet, e.LuckyColor, e.IsActive, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating numerology entry: %w", err)
	}
	return expectRow(result, "updating numerology entry")
}

// DeleteNumerologyEntry removes an entry.
func DeleteNumerologyEntry(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM numerology_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting numerology entry: %w", err)
	}
	return expectRow(result, "deleting numerology entry")
}
