package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

var phoneNumberFilters = tableFilters{
	alias:      "p",
	searchCols: []string{"p.number", "p.description", "c.name"},
	flagCols:   []string{"is_premium", "is_vip", "is_todays_offer"},
	sorts: map[string]string{
		"price":      "p.price, p.id",
		"price_desc": "p.price DESC, p.id",
		"number":     "p.number",
		"newest":     "p.created_at DESC, p.id DESC",
	},
	defaultOrder: "p.created_at DESC, p.id DESC",
	listing:      true,
}

var phoneNumberSelect = `SELECT p.id, p.number, ` + listingColumns("p") + `, p.is_vip, p.is_todays_offer
	FROM phone_numbers p LEFT JOIN categories c ON c.id = p.category_id`

func scanPhoneNumber(row interface{ Scan(...any) error }, p *model.PhoneNumber) error {
	dest := append([]any{&p.ID, &p.Number}, listingDest(&p.Listing)...)
	dest = append(dest, &p.IsVIP, &p.IsTodaysOffer)
	return row.Scan(dest...)
}

// CreatePhoneNumber inserts a phone number and returns the stored row.
func CreatePhoneNumber(ctx context.Context, db *sql.DB, p *model.PhoneNumber) (*model.PhoneNumber, error) {
	args := append([]any{p.Number}, listingArgs(&p.Listing)...)
	args = append(args, p.IsVIP, p.IsTodaysOffer)
	result, err := db.ExecContext(ctx,
		`INSERT INTO phone_numbers (number, price, category_id, description, digit_sum,
		                            is_active, is_sold, is_premium, is_vip, is_todays_offer)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("creating phone number: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting phone number id: %w", err)
	}

	return GetPhoneNumber(ctx, db, id)
}

// GetPhoneNumber returns a phone number by ID, or nil if it does not exist.
func GetPhoneNumber(ctx context.Context, db *sql.DB, id int64) (*model.PhoneNumber, error) {
	p := &model.PhoneNumber{}
	err := scanPhoneNumber(db.QueryRowContext(ctx, phoneNumberSelect+` WHERE p.id = ?`, id), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting phone number: %w", err)
	}
	return p, nil
}

// ListPhoneNumbers returns every phone number, newest first.
func ListPhoneNumbers(ctx context.Context, db *sql.DB) ([]model.PhoneNumber, error) {
	return queryPhoneNumbers(ctx, db, model.ListFilter{}, false)
}

// ListActivePhoneNumbers returns unsold, active phone numbers matching f.
func ListActivePhoneNumbers(ctx context.Context, db *sql.DB, f model.ListFilter) ([]model.PhoneNumber, error) {
	return queryPhoneNumbers(ctx, db, f, true)
}

func queryPhoneNumbers(ctx context.Context, db *sql.DB, f model.ListFilter, active bool) ([]model.PhoneNumber, error) {
	query, args, err := phoneNumberFilters.build(phoneNumberSelect, f, active)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing phone numbers: %w", err)
	}
	defer rows.Close()

	var numbers []model.PhoneNumber
	for rows.Next() {
		var p model.PhoneNumber
		if err := scanPhoneNumber(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning phone number: %w", err)
		}
		numbers = append(numbers, p)
	}
	return numbers, rows.Err()
}

// UpdatePhoneNumber replaces every editable field of a phone number.
func UpdatePhoneNumber(ctx context.Context, db *sql.DB, p *model.PhoneNumber) error {
	args := append([]any{p.Number}, listingArgs(&p.Listing)...)
	args = append(args, p.IsVIP, p.IsTodaysOffer, p.ID)
	result, err := db.ExecContext(ctx,
		`UPDATE phone_numbers
		 SET number = ?, price = ?, category_id = ?, description = ?, digit_sum = ?,
		     is_active = ?, is_sold = ?, is_premium = ?, is_vip = ?, is_todays_offer = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating phone number: %w", err)
	}
	return expectRow(result, "updating phone number")
}

// DeletePhoneNumber removes a phone number.
func DeletePhoneNumber(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM phone_numbers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phone number: %w", err)
	}
	return expectRow(result, "deleting phone number")
}
