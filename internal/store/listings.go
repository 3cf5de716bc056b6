package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

// listingColumns selects the shared Listing fields of alias t joined with
// categories as c.
func listingColumns(t string) string {
	return t + `.price, ` + t + `.category_id, ` + t + `.description, ` + t + `.digit_sum, ` +
		t + `.is_active, ` + t + `.is_sold, ` + t + `.is_premium, ` + t + `.created_at, ` + t + `.updated_at, ` +
		`COALESCE(c.name, '')`
}

func listingDest(l *model.Listing) []any {
	return []any{&l.Price, &l.CategoryID, &l.Description, &l.DigitSum,
		&l.IsActive, &l.IsSold, &l.IsPremium, &l.CreatedAt, &l.UpdatedAt, &l.CategoryName}
}

func listingArgs(l *model.Listing) []any {
	return []any{l.Price, l.CategoryID, l.Description, l.DigitSum, l.IsActive, l.IsSold, l.IsPremium}
}

// ListingStats summarizes one listing table for the dashboard.
type ListingStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Sold   int `json:"sold"`
}

// Stats holds per-table listing counts.
type Stats struct {
	Categories      int          `json:"categories"`
	PhoneNumbers    ListingStats `json:"phone_numbers"`
	VehicleNumbers  ListingStats `json:"vehicle_numbers"`
	CurrencyNumbers ListingStats `json:"currency_numbers"`
	Visits          int64        `json:"visits"`
}

// GetStats returns dashboard counts.
func GetStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	s := &Stats{}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&s.Categories); err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}

	tables := []struct {
		name string
		dst  *ListingStats
	}{
		{"phone_numbers", &s.PhoneNumbers},
		{"vehicle_numbers", &s.VehicleNumbers},
		{"currency_numbers", &s.CurrencyNumbers},
	}
	for _, t := range tables {
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*),
			        COALESCE(SUM(CASE WHEN is_active = 1 AND is_sold = 0 THEN 1 ELSE 0 END), 0),
			        COALESCE(SUM(CASE WHEN is_sold = 1 THEN 1 ELSE 0 END), 0)
			 FROM `+t.name,
		).Scan(&t.dst.Total, &t.dst.Active, &t.dst.Sold)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", t.name, err)
		}
	}

	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM visitor_counters`,
	).Scan(&s.Visits); err != nil {
		return nil, fmt.Errorf("summing visits: %w", err)
	}
	return s, nil
}
