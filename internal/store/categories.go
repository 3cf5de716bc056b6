package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

var categoryFilters = tableFilters{
	alias:      "c",
	searchCols: []string{"c.name", "c.slug", "c.description"},
	sorts: map[string]string{
		"name":   "c.name",
		"order":  "c.sort_order, c.name",
		"newest": "c.created_at DESC, c.id DESC",
	},
	defaultOrder: "c.sort_order, c.name",
}

const categoryColumns = `c.id, c.name, c.slug, c.description, c.sort_order, c.is_active, c.created_at, c.updated_at`

func scanCategory(row interface{ Scan(...any) error }, c *model.Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// CreateCategory inserts a category and returns the stored row.
func CreateCategory(ctx context.Context, db *sql.DB, c *model.Category) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, slug, description, sort_order, is_active) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Description, c.SortOrder, c.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := scanCategory(db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns every category in display order.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	return queryCategories(ctx, db, model.ListFilter{}, false)
}

// ListActiveCategories returns active categories matching f.
func ListActiveCategories(ctx context.Context, db *sql.DB, f model.ListFilter) ([]model.Category, error) {
	return queryCategories(ctx, db, f, true)
}

func queryCategories(ctx context.Context, db *sql.DB, f model.ListFilter, active bool) ([]model.Category, error) {
	query, args, err := categoryFilters.build(`SELECT `+categoryColumns+` FROM categories c`, f, active)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory replaces every editable field of a category.
func UpdateCategory(ctx context.Context, db *sql.DB, c *model.Category) error {
	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, slug = ?, description = ?, sort_order = ?, is_active = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, c.Slug, c.Description, c.SortOrder, c.IsActive, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return expectRow(result, "updating category")
}

// DeleteCategory removes a category. Categories still referenced by a
// listing fail with a foreign key violation.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return expectRow(result, "deleting category")
}

// CountCategoryListings returns how many listings of all kinds reference a category.
func CountCategoryListings(ctx context.Context, db *sql.DB, id int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM phone_numbers WHERE category_id = ?)
		      + (SELECT COUNT(*) FROM vehicle_numbers WHERE category_id = ?)
		      + (SELECT COUNT(*) FROM currency_numbers WHERE category_id = ?)`,
		id, id, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting category listings: %w", err)
	}
	return n, nil
}

// expectRow returns ErrNotFound when result affected no rows.
func expectRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
