// Package dbtest opens migrated in-memory SQLite handles for tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"attendance-backend/internal/platform/db"
)

// Open returns an in-memory SQLite handle with the production schema applied.
// The handle is closed when the test finishes.
func Open(t *testing.T) *db.DB {
	t.Helper()

	// shared-cache URI keeps the database alive while the pool holds the connection
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		name,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("dbtest.Open: sql.Open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("dbtest.Open: ping: %v", err)
	}

	h := &db.DB{DB: conn, Dialect: db.SQLite}
	if err := h.Migrate(context.Background()); err != nil {
		conn.Close()
		t.Fatalf("dbtest.Open: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return h
}
