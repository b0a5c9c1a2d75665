package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

// SQLiteSprintRepo implements SprintRepo using a SQLite database.
type SQLiteSprintRepo struct {
	db db.DBTX
}

// NewSQLiteSprintRepo creates a new SQLiteSprintRepo.
func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

// ListByProject returns the project's sprints by start date.
func (r *SQLiteSprintRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	query := `SELECT id, name, start_date, end_date, status FROM sprints
		WHERE project_id = ? ORDER BY start_date, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	sprints := []domain.Sprint{}
	for rows.Next() {
		var s domain.Sprint
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.Status); err != nil {
			return nil, fmt.Errorf("scanning sprint: %w", err)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

// ReplaceForProject swaps the project's sprints for the given set.
func (r *SQLiteSprintRepo) ReplaceForProject(ctx context.Context, projectID string, sprints []domain.Sprint) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing sprints: %w", err)
	}
	query := `INSERT INTO sprints (id, project_id, name, start_date, end_date, status) VALUES (?, ?, ?, ?, ?, ?)`
	for _, s := range sprints {
		if _, err := r.db.ExecContext(ctx, query, s.ID, projectID, s.Name, s.StartDate, s.EndDate, s.Status); err != nil {
			return fmt.Errorf("inserting sprint %q: %w", s.Name, err)
		}
	}
	return nil
}
