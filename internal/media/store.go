package media

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/numera-market/numera/internal/store"
)

// StoreUploader keeps objects in the media table. They are served by the
// application at "<prefix>/<id>".
type StoreUploader struct {
	db     *sql.DB
	prefix string
}

// NewStoreUploader returns an uploader writing to db. prefix defaults to
// "/media".
func NewStoreUploader(db *sql.DB, prefix string) *StoreUploader {
	if prefix == "" {
		prefix = "/media"
	}
	return &StoreUploader{db: db, prefix: strings.TrimSuffix(prefix, "/")}
}

// Name implements Uploader.
func (u *StoreUploader) Name() string { return "store" }

// Upload implements Uploader.
func (u *StoreUploader) Upload(ctx context.Context, obj Object) (string, error) {
	id, err := store.CreateMedia(ctx, u.db, obj.Category, obj.MIME, obj.Data)
	if err != nil {
		return "", err
	}
	return u.prefix + "/" + strconv.FormatInt(id, 10), nil
}
