package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

var currencyNumberFilters = tableFilters{
	alias:      "n",
	searchCols: []string{"n.serial_number", "n.description", "c.name"},
	flagCols:   []string{"is_premium"},
	equalCols:  []string{"currency_code", "denomination"},
	sorts: map[string]string{
		"price":        "n.price, n.id",
		"price_desc":   "n.price DESC, n.id",
		"serial":       "n.serial_number",
		"denomination": "n.denomination, n.serial_number",
		"newest":       "n.created_at DESC, n.id DESC",
	},
	defaultOrder: "n.created_at DESC, n.id DESC",
	listing:      true,
}

var currencyNumberSelect = `SELECT n.id, n.serial_number, n.denomination, n.currency_code, ` + listingColumns("n") + `
	FROM currency_numbers n LEFT JOIN categories c ON c.id = n.category_id`

func scanCurrencyNumber(row interface{ Scan(...any) error }, n *model.CurrencyNumber) error {
	dest := append([]any{&n.ID, &n.SerialNumber, &n.Denomination, &n.CurrencyCode}, listingDest(&n.Listing)...)
	return row.Scan(dest...)
}

// CreateCurrencyNumber inserts a currency note and returns the stored row.
func CreateCurrencyNumber(ctx context.Context, db *sql.DB, n *model.CurrencyNumber) (*model.CurrencyNumber, error) {
	args := append([]any{n.SerialNumber, n.Denomination, n.CurrencyCode}, listingArgs(&n.Listing)...)
	result, err := db.ExecContext(ctx,
		`INSERT INTO currency_numbers (serial_number, denomination, currency_code, price, category_id,
		                               description, digit_sum, is_active, is_sold, is_premium)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("creating currency number: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting currency number id: %w", err)
	}

	return GetCurrencyNumber(ctx, db, id)
}

// GetCurrencyNumber returns a currency note by ID, or nil if it does not exist.
func GetCurrencyNumber(ctx context.Context, db *sql.DB, id int64) (*model.CurrencyNumber, error) {
	n := &model.CurrencyNumber{}
	err := scanCurrencyNumber(db.QueryRowContext(ctx, currencyNumberSelect+` WHERE n.id = ?`, id), n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting currency number: %w", err)
	}
	return n, nil
}

// ListCurrencyNumbers returns every currency note, newest first.
func ListCurrencyNumbers(ctx context.Context, db *sql.DB) ([]model.CurrencyNumber, error) {
	return queryCurrencyNumbers(ctx, db, model.ListFilter{}, false)
}

// ListActiveCurrencyNumbers returns unsold, active currency notes matching f.
func ListActiveCurrencyNumbers(ctx context.Context, db *sql.DB, f model.ListFilter) ([]model.CurrencyNumber, error) {
	return queryCurrencyNumbers(ctx, db, f, true)
}

func queryCurrencyNumbers(ctx context.Context, db *sql.DB, f model.ListFilter, active bool) ([]model.CurrencyNumber, error) {
	query, args, err := currencyNumberFilters.build(currencyNumberSelect, f, active)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing currency numbers: %w", err)
	}
	defer rows.Close()

	var notes []model.CurrencyNumber
	for rows.Next() {
		var n model.CurrencyNumber
		if err := scanCurrencyNumber(rows, &n); err != nil {
			return nil, fmt.Errorf("scanning currency number: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateCurrencyNumber replaces every editable field of a currency note.
func UpdateCurrencyNumber(ctx context.Context, db *sql.DB, n *model.CurrencyNumber) error {
	args := append([]any{n.SerialNumber, n.Denomination, n.CurrencyCode}, listingArgs(&n.Listing)...)
	args = append(args, n.ID)
	result, err := db.ExecContext(ctx,
		`UPDATE currency_numbers
		 SET serial_number = ?, denomination = ?, currency_code = ?, price = ?, category_id = ?,
		     description = ?, digit_sum = ?, is_active = ?, is_sold = ?, is_premium = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating currency number: %w", err)
	}
	return expectRow(result, "updating currency number")
}

// DeleteCurrencyNumber removes a currency note.
func DeleteCurrencyNumber(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM currency_numbers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting currency number: %w", err)
	}
	return expectRow(result, "deleting currency number")
}
