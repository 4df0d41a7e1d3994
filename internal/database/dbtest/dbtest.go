// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"meal-planner/internal/database"
)

// New returns a connection to a fresh, fully migrated SQLite database living
// in the test's temp dir. It is closed when the test ends.
func New(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db.SQL
}
