package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/db"
)

// NewTestDB opens a migrated in-memory database that lives until the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn db.DBTX, table string) int {
	t.Helper()
	var n int
	if err := conn.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
