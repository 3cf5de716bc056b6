package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('admin', 'editor', 'viewer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE COLLATE NOCASE,
    slug        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    sort_order  INTEGER NOT NULL DEFAULT 0,
    is_active   BOOLEAN NOT NULL DEFAULT 1,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS phone_numbers (
    id              INTEGER PRIMARY KEY,
    number          TEXT NOT NULL UNIQUE,
    price           NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
    category_id     INTEGER NOT NULL REFERENCES categories(id),
    description     TEXT NOT NULL DEFAULT '',
    digit_sum       INTEGER NOT NULL DEFAULT 0 CHECK (digit_sum BETWEEN 0 AND 9),
    is_active       BOOLEAN NOT NULL DEFAULT 1,
    is_sold         BOOLEAN NOT NULL DEFAULT 0,
    is_premium      BOOLEAN NOT NULL DEFAULT 0,
    is_vip          BOOLEAN NOT NULL DEFAULT 0,
    is_todays_offer BOOLEAN NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_phone_numbers_category ON phone_numbers(category_id);

CREATE TABLE IF NOT EXISTS vehicle_numbers (
    id           INTEGER PRIMARY KEY,
    plate_number TEXT NOT NULL UNIQUE,
    state_code   TEXT NOT NULL DEFAULT '',
    price        NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
    category_id  INTEGER NOT NULL REFERENCES categories(id),
    description  TEXT NOT NULL DEFAULT '',
    digit_sum    INTEGER NOT NULL DEFAULT 0 CHECK (digit_sum BETWEEN 0 AND 9),
    is_active    BOOLEAN NOT NULL DEFAULT 1,
    is_sold      BOOLEAN NOT NULL DEFAULT 0,
    is_premium   BOOLEAN NOT NULL DEFAULT 0,
    is_vip       BOOLEAN NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vehicle_numbers_category ON vehicle_numbers(category_id);

CREATE TABLE IF NOT EXISTS currency_numbers (
    id            INTEGER PRIMARY KEY,
    serial_number TEXT NOT NULL UNIQUE,
    denomination  INTEGER NOT NULL DEFAULT 0,
    currency_code TEXT NOT NULL DEFAULT 'INR',
    price         NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
    category_id   INTEGER NOT NULL REFERENCES categories(id),
    description   TEXT NOT NULL DEFAULT '',
    digit_sum     INTEGER NOT NULL DEFAULT 0 CHECK (digit_sum BETWEEN 0 AND 9),
    is_active     BOOLEAN NOT NULL DEFAULT 1,
    is_sold       BOOLEAN NOT NULL DEFAULT 0,
    is_premium    BOOLEAN NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_currency_numbers_category ON currency_numbers(category_id);

CREATE TABLE IF NOT EXISTS numerology_entries (
    id            INTEGER PRIMARY KEY,
    key           TEXT NOT NULL UNIQUE CHECK (length(key) = 1 AND key BETWEEN '0' AND '9'),
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    ruling_planet TEXT NOT NULL DEFAULT '',
    lucky_color   TEXT NOT NULL DEFAULT '',
    is_active     BOOLEAN NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS visitor_counters (
    id         INTEGER PRIMARY KEY,
    page       TEXT NOT NULL UNIQUE,
    count      INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS media (
    id         INTEGER PRIMARY KEY,
    category   TEXT NOT NULL,
    mime       TEXT NOT NULL,
    data       BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: numerology filters on the storefront query by digit sum.
	`CREATE INDEX IF NOT EXISTS idx_phone_numbers_digit_sum ON phone_numbers(digit_sum)`,
	`CREATE INDEX IF NOT EXISTS idx_vehicle_numbers_digit_sum ON vehicle_numbers(digit_sum)`,
	`CREATE INDEX IF NOT EXISTS idx_currency_numbers_digit_sum ON currency_numbers(digit_sum)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
