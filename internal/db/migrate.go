package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPositions(db); err != nil {
		return fmt.Errorf("backfilling backlog item positions: %w", err)
	}
	return nil
}

// migrateBackfillPositions numbers items created before the position column
// existed, in insertion order within each project.
func migrateBackfillPositions(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM backlog_items WHERE position IS NULL`).Scan(&count); err != nil {
		return fmt.Errorf("checking backlog_items position: %w", err)
	}
	if count == 0 {
		return nil
	}

	_, err := db.ExecContext(ctx, `UPDATE backlog_items
		SET position = (
			SELECT COUNT(*) FROM backlog_items b2
			WHERE b2.project_id = backlog_items.project_id AND b2.id < backlog_items.id
		)
		WHERE position IS NULL`)
	if err != nil {
		return fmt.Errorf("updating positions: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		name                TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT '',
		assignments_json    TEXT NOT NULL DEFAULT '{}',
		execution_plan_json TEXT NOT NULL DEFAULT '{}',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS backlog_items (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id            INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id             INTEGER REFERENCES backlog_items(id) ON DELETE SET NULL,
		task_type             TEXT NOT NULL DEFAULT '',
		priority              TEXT NOT NULL DEFAULT '',
		title                 TEXT NOT NULL DEFAULT '',
		description           TEXT NOT NULL DEFAULT '',
		status                TEXT NOT NULL DEFAULT 'todo',
		assigned_agent        TEXT NOT NULL DEFAULT '',
		estimated_hours       REAL CHECK(estimated_hours IS NULL OR estimated_hours >= 0),
		suggested_sprint_name TEXT NOT NULL DEFAULT '',
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_backlog_items_project ON backlog_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_backlog_items_parent ON backlog_items(parent_id)`,
	`CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'planned',
		UNIQUE(project_id, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,
	// The backlog's own "project" title, which may differ from the name.
	`ALTER TABLE projects ADD COLUMN project_title TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE backlog_items ADD COLUMN position INTEGER`,
	`CREATE INDEX IF NOT EXISTS idx_backlog_items_position ON backlog_items(project_id, position)`,
}
