package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

// IncrementVisitorCounter adds one view to page, creating the counter on
// first use, and returns the new state.
func IncrementVisitorCounter(ctx context.Context, db *sql.DB, page string) (*model.VisitorCounter, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO visitor_counters (page, count) VALUES (?, 1)
		 ON CONFLICT (page) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP`,
		page,
	)
	if err != nil {
		return nil, fmt.Errorf("incrementing visitor counter: %w", err)
	}
	return GetVisitorCounter(ctx, db, page)
}

// GetVisitorCounter returns the counter for page, or nil if it was never hit.
func GetVisitorCounter(ctx context.Context, db *sql.DB, page string) (*model.VisitorCounter, error) {
	v := &model.VisitorCounter{}
	err := db.QueryRowContext(ctx,
		`SELECT id, page, count, updated_at FROM visitor_counters WHERE page = ?`, page,
	).Scan(&v.ID, &v.Page, &v.Count, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting visitor counter: %w", err)
	}
	return v, nil
}

// ListVisitorCounters returns all counters, busiest first.
func ListVisitorCounters(ctx context.Context, db *sql.DB) ([]model.VisitorCounter, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, page, count, updated_at FROM visitor_counters ORDER BY count DESC, page`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visitor counters: %w", err)
	}
	defer rows.Close()

	var counters []model.VisitorCounter
	for rows.Next() {
		var v model.VisitorCounter
		if err := rows.Scan(&v.ID, &v.Page, &v.Count, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning visitor counter: %w", err)
		}
		counters = append(counters, v)
	}
	return counters, rows.Err()
}

// ResetVisitorCounter sets a page's count back to zero.
func ResetVisitorCounter(ctx context.Context, db *sql.DB, page string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE visitor_counters SET count = 0, updated_at = CURRENT_TIMESTAMP WHERE page = ?`, page,
	)
	if err != nil {
		return fmt.Errorf("resetting visitor counter: %w", err)
	}
	return expectRow(result, "resetting visitor counter")
}

// DeleteVisitorCounter removes a page's counter.
func DeleteVisitorCounter(ctx context.Context, db *sql.DB, page string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM visitor_counters WHERE page = ?`, page)
	if err != nil {
		return fmt.Errorf("deleting visitor counter: %w", err)
	}
	return expectRow(result, "deleting visitor counter")
}
