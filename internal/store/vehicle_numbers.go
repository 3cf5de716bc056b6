package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

var vehicleNumberFilters = tableFilters{
	alias:      "v",
	searchCols: []string{"v.plate_number", "v.state_code", "v.description", "c.name"},
	flagCols:   []string{"is_premium", "is_vip"},
	equalCols:  []string{"state_code"},
	sorts: map[string]string{
		"price":      "v.price, v.id",
		"price_desc": "v.price DESC, v.id",
		"plate":      "v.plate_number",
		"newest":     "v.created_at DESC, v.id DESC",
	},
	defaultOrder: "v.created_at DESC, v.id DESC",
	listing:      true,
}

var vehicleNumberSelect = `SELECT v.id, v.plate_number, v.state_code, ` + listingColumns("v") + `, v.is_vip
	FROM vehicle_numbers v LEFT JOIN categories c ON c.id = v.category_id`

func scanVehicleNumber(row interface{ Scan(...any) error }, v *model.VehicleNumber) error {
	dest := append([]any{&v.ID, &v.PlateNumber, &v.StateCode}, listingDest(&v.Listing)...)
	dest = append(dest, &v.IsVIP)
	return row.Scan(dest...)
}

// CreateVehicleNumber inserts a vehicle number and returns the stored row.
func CreateVehicleNumber(ctx context.Context, db *sql.DB, v *model.VehicleNumber) (*model.VehicleNumber, error) {
	args := append([]any{v.PlateNumber, v.StateCode}, listingArgs(&v.Listing)...)
	args = append(args, v.IsVIP)
	result, err := db.ExecContext(ctx,
		`INSERT INTO vehicle_numbers (plate_number, state_code, price, category_id, description, digit_sum,
		                              is_active, is_sold, is_premium, is_vip)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("creating vehicle number: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting vehicle number id: %w", err)
	}

	return GetVehicleNumber(ctx, db, id)
}

// GetVehicleNumber returns a vehicle number by ID, or nil if it does not exist.
func GetVehicleNumber(ctx context.Context, db *sql.DB, id int64) (*model.VehicleNumber, error) {
	v := &model.VehicleNumber{}
	err := scanVehicleNumber(db.QueryRowContext(ctx, vehicleNumberSelect+` WHERE v.id = ?`, id), v)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vehicle number: %w", err)
	}
	return v, nil
}

// ListVehicleNumbers returns every vehicle number, newest first.
func ListVehicleNumbers(ctx context.Context, db *sql.DB) ([]model.VehicleNumber, error) {
	return queryVehicleNumbers(ctx, db, model.ListFilter{}, false)
}

// ListActiveVehicleNumbers returns unsold, active vehicle numbers matching f.
func ListActiveVehicleNumbers(ctx context.Context, db *sql.DB, f model.ListFilter) ([]model.VehicleNumber, error) {
	return queryVehicleNumbers(ctx, db, f, true)
}

func queryVehicleNumbers(ctx context.Context, db *sql.DB, f model.ListFilter, active bool) ([]model.VehicleNumber, error) {
	query, args, err := vehicleNumberFilters.build(vehicleNumberSelect, f, active)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vehicle numbers: %w", err)
	}
	defer rows.Close()

	var numbers []model.VehicleNumber
	for rows.Next() {
		var v model.VehicleNumber
		if err := scanVehicleNumber(rows, &v); err != nil {
			return nil, fmt.Errorf("scanning vehicle number: %w", err)
		}
		numbers = append(numbers, v)
	}
	return numbers, rows.Err()
}

// UpdateVehicleNumber replaces every editable field of a vehicle number.
func UpdateVehicleNumber(ctx context.Context, db *sql.DB, v *model.VehicleNumber) error {
	args := append([]any{v.PlateNumber, v.StateCode}, listingArgs(&v.Listing)...)
	args = append(args, v.IsVIP, v.ID)
	result, err := db.ExecContext(ctx,
		`UPDATE vehicle_numbers
		 SET plate_number = ?, state_code = ?, price = ?, category_id = ?, description = ?, digit_sum = ?,
		     is_active = ?, is_sold = ?, is_premium = ?, is_vip = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating vehicle number: %w", err)
	}
	return expectRow(result, "updating vehicle number")
}

// DeleteVehicleNumber removes a vehicle number.
func DeleteVehicleNumber(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM vehicle_numbers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting vehicle number: %w", err)
	}
	return expectRow(result, "deleting vehicle number")
}
