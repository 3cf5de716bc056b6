package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB returns a fresh database file under the test's temp dir with
// the schema applied. A file, unlike :memory:, gives the test the same WAL
// journal and connection pool as production.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "numera.sqlite3"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}
	return db
}
