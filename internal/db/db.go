package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// pragmas are applied to the single pooled connection. SQLite scopes them
// per connection, and one connection also means one writer at a time.
var pragmas = []struct{ name, stmt string }{
	{"foreign keys", "PRAGMA foreign_keys = ON"},
	{"busy timeout", "PRAGMA busy_timeout = 5000"},
}

// OpenDB opens the devserver database at path, creating its directory, and
// migrates it. File databases use WAL so an editor or sqlite3 shell can read
// them while the server runs.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database, and the
	// pragmas below only hold on the connection that ran them.
	db.SetMaxOpenConns(1)

	steps := pragmas
	if path != MemoryPath {
		steps = append(steps, struct{ name, stmt string }{"WAL mode", "PRAGMA journal_mode = WAL"})
	}
	for _, p := range steps {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %s: %w", p.name, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
