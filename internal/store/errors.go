package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = errors.New("not found")

// FilterError reports a filter or sort key outside an entity's whitelist.
type FilterError struct {
	Field string
}

func (e *FilterError) Error() string {
	return "unsupported filter: " + e.Field
}

func sqliteCode(err error) int {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func IsUniqueViolation(err error) bool {
	switch sqliteCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure.
func IsForeignKeyViolation(err error) bool {
	return sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// IsCheckViolation reports whether err is a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	return sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_CHECK
}

// ConstraintColumn returns the column named in a UNIQUE constraint failure
// ("phone_numbers.number" yields "number"), or "" when unknown. The driver
// prefixes its own "constraint failed: " to SQLite's message, so the last
// occurrence is the one naming the column.
func ConstraintColumn(err error) string {
	if err == nil {
		return ""
	}
	const marker = "constraint failed: "
	msg := err.Error()
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, ",) "); j >= 0 {
		rest = rest[:j]
	}
	// Expression indexes are reported as "index 'name'".
	if rest == "index" {
		return ""
	}
	if k := strings.LastIndexByte(rest, '.'); k >= 0 {
		rest = rest[k+1:]
	}
	return rest
}
