package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/numera-market/numera/internal/model"
)

// CreateMedia stores an uploaded image and returns its ID.
func CreateMedia(ctx context.Context, db *sql.DB, category, mime string, data []byte) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO media (category, mime, data) VALUES (?, ?, ?)`,
		category, mime, data,
	)
	if err != nil {
		return 0, fmt.Errorf("storing media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting media id: %w", err)
	}
	return id, nil
}

// GetMedia returns a stored image's bytes and MIME type. data is nil when
// the ID is unknown.
func GetMedia(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM media WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting media: %w", err)
	}
	return data, mime, nil
}

// ListMedia returns metadata of stored images, newest first.
func ListMedia(ctx context.Context, db *sql.DB, category string) ([]model.Media, error) {
	query := `SELECT id, category, mime, length(data), created_at FROM media WHERE 1=1`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Category, &m.MIME, &m.Size, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// DeleteMedia removes a stored image.
func DeleteMedia(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return expectRow(result, "deleting media")
}
