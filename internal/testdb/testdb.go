// Package testdb opens an in-memory SQLite database with the jobly schema for
// tests. The DDL mirrors migrations/ in SQLite's dialect.
package testdb

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Skryldev/jobly/db"
)

const schema = `
CREATE TABLE companies (
    handle        TEXT PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    num_employees INTEGER CHECK (num_employees >= 0),
    description   TEXT,
    logo_url      TEXT
);

CREATE TABLE jobs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    title          TEXT NOT NULL,
    salary         REAL NOT NULL,
    equity         REAL NOT NULL CHECK (equity >= 0 AND equity <= 1),
    company_handle TEXT NOT NULL REFERENCES companies (handle) ON DELETE CASCADE,
    date_posted    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE users (
    username   TEXT PRIMARY KEY,
    password   TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,
    photo_url  TEXT,
    is_admin   BOOLEAN NOT NULL DEFAULT FALSE
);`

// Open returns a fresh database with the schema applied. It is closed when
// the test ends.
//
// The pool is capped at one connection because every ":memory:" connection
// is a separate database.
func Open(t testing.TB, hooks ...db.Hook) *db.DB {
	t.Helper()

	d, err := db.Open(db.Config{
		DSN:          ":memory:?_foreign_keys=on",
		DriverName:   "sqlite3",
		MaxOpenConns: 1,
		Hooks:        hooks,
	})
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec(context.Background(), schema); err != nil {
		t.Fatalf("testdb: schema: %v", err)
	}
	return d
}
