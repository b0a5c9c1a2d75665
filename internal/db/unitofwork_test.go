package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertProject = `INSERT INTO projects (name, created_at, updated_at) VALUES (?, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func projectNames(t *testing.T, database *sql.DB) []string {
	t.Helper()
	rows, err := database.Query(`SELECT name FROM projects ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestWithinTx_CommitsProjectAndItems(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, insertProject, "Storefront")
		if err != nil {
			return err
		}
		pid, _ := res.LastInsertId()
		_, err = tx.ExecContext(ctx, `INSERT INTO backlog_items (project_id, title, created_at, updated_at)
			VALUES (?, 'Catalog', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, pid)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Storefront"}, projectNames(t, database))
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM backlog_items`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, uow := openUoW(t)
	failure := errors.New("analysis rejected")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertProject, "Draft"); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Empty(t, projectNames(t, database))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertProject, "Doomed")
			panic("boom")
		})
	})
	assert.Empty(t, projectNames(t, database))
}

func TestWithinTx_CancelledContextDoesNotCommit(t *testing.T) {
	database, uow := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertProject, "Abandoned"); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, projectNames(t, database))
}
