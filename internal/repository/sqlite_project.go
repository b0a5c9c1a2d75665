package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

const projectColumns = `id, name, description, status, project_title,
		assignments_json, execution_plan_json, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

// Create inserts p and sets its ID and timestamps.
func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	assignments, plan, err := encodePlan(p)
	if err != nil {
		return err
	}
	now := nowUTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO projects (name, description, status, project_title,
		assignments_json, execution_plan_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Status,
		p.Backlog.Project,
		assignments,
		plan,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = strconv.FormatInt(id, 10)
	return nil
}

// GetByID returns the project without its items.
func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Update overwrites the project metadata and bumps updated_at.
func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	assignments, plan, err := encodePlan(p)
	if err != nil {
		return err
	}
	p.UpdatedAt = nowUTC()

	query := `UPDATE projects SET name = ?, description = ?, status = ?, project_title = ?,
		assignments_json = ?, execution_plan_json = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Status,
		p.Backlog.Project,
		assignments,
		plan,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireRow(res, "project", p.ID)
}

// Touch bumps updated_at after an item change.
func (r *SQLiteProjectRepo) Touch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return requireRow(res, "project", id)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireRow(res, "project", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var assignments, plan, createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.Backlog.Project,
		&assignments, &plan,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	if err := unmarshalJSONColumn(assignments, &p.Backlog.Assignments); err != nil {
		return nil, fmt.Errorf("decoding assignments of project %s: %w", p.ID, err)
	}
	if err := unmarshalJSONColumn(plan, &p.Backlog.ExecutionPlan); err != nil {
		return nil, fmt.Errorf("decoding execution plan of project %s: %w", p.ID, err)
	}
	p.Backlog.Normalize()

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}

func encodePlan(p *domain.Project) (string, string, error) {
	b := p.Backlog
	b.Normalize()
	assignments, err := marshalJSONColumn(b.Assignments)
	if err != nil {
		return "", "", fmt.Errorf("encoding assignments: %w", err)
	}
	plan, err := marshalJSONColumn(b.ExecutionPlan)
	if err != nil {
		return "", "", fmt.Errorf("encoding execution plan: %w", err)
	}
	return assignments, plan, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
