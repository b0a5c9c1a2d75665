package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "backlog_items", "sprints"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_backlog_items_project",
		"idx_backlog_items_parent",
		"idx_backlog_items_position",
		"idx_sprints_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite keeps its "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	db, err := OpenDB(t.TempDir() + "/nested/dev.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_EstimatedHoursCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (name, created_at, updated_at) VALUES ('p', 'now', 'now')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO backlog_items (project_id, title, estimated_hours, created_at, updated_at)
		VALUES (1, 'x', -2, 'now', 'now')`)
	assert.Error(t, err, "negative hours should violate the check constraint")
}

func TestMigrate_ParentDeleteSetsNull(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (name, created_at, updated_at) VALUES ('p', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO backlog_items (id, project_id, title, created_at, updated_at) VALUES (1, 1, 'epic', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO backlog_items (id, project_id, parent_id, title, created_at, updated_at) VALUES (2, 1, 1, 'story', 'now', 'now')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM backlog_items WHERE id = 1`)
	require.NoError(t, err)

	var parent sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT parent_id FROM backlog_items WHERE id = 2`).Scan(&parent))
	assert.False(t, parent.Valid, "orphaned child should become a root")
}

func TestMigrate_ProjectDeleteCascades(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES (1, 'p', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO backlog_items (project_id, title, created_at, updated_at) VALUES (1, 'a', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sprints (id, project_id, name, start_date, end_date) VALUES ('s1', 1, 'Sprint 1', '2025-01-01', '2025-01-14')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 1`)
	require.NoError(t, err)

	var items, sprints int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM backlog_items`).Scan(&items))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sprints`).Scan(&sprints))
	assert.Zero(t, items)
	assert.Zero(t, sprints)
}

func TestMigrate_SprintNameUniquePerProject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES (1, 'p', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sprints (id, project_id, name, start_date, end_date) VALUES ('a', 1, 'Sprint 1', 'd', 'd')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sprints (id, project_id, name, start_date, end_date) VALUES ('b', 1, 'Sprint 1', 'd', 'd')`)
	assert.Error(t, err)
}
