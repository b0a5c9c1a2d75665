package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

// backlogItemColumns is the canonical SELECT column list for backlog_items.
const backlogItemColumns = `id, parent_id, task_type, priority, title, description,
		status, assigned_agent, estimated_hours, suggested_sprint_name`

// SQLiteBacklogItemRepo implements BacklogItemRepo using a SQLite database.
type SQLiteBacklogItemRepo struct {
	db db.DBTX
}

// NewSQLiteBacklogItemRepo creates a new SQLiteBacklogItemRepo.
func NewSQLiteBacklogItemRepo(conn db.DBTX) *SQLiteBacklogItemRepo {
	return &SQLiteBacklogItemRepo{db: conn}
}

// ReplaceForProject stores items in two passes: rows first, then parent
// links through the id translation. Self and dangling parents are stored
// as roots. Callers wrap it in a unit of work.
func (r *SQLiteBacklogItemRepo) ReplaceForProject(ctx context.Context, projectID string, items []domain.BacklogItem) ([]domain.BacklogItem, map[domain.ItemID]domain.ItemID, error) {
	if err := r.requireProject(ctx, projectID); err != nil {
		return nil, nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM backlog_items WHERE project_id = ?`, projectID); err != nil {
		return nil, nil, fmt.Errorf("clearing backlog items: %w", err)
	}

	idMap := make(map[domain.ItemID]domain.ItemID, len(items))
	stored := make([]domain.ItemID, len(items))
	for i, it := range items {
		it.ParentID = nil
		id, err := r.insert(ctx, projectID, it, i)
		if err != nil {
			return nil, nil, err
		}
		stored[i] = id
		if _, seen := idMap[it.ID]; !seen && !it.ID.IsZero() {
			idMap[it.ID] = id
		}
	}

	for i, it := range items {
		if !it.HasParent() {
			continue
		}
		parent, ok := idMap[*it.ParentID]
		if !ok || parent == stored[i] {
			continue
		}
		if _, err := r.db.ExecContext(ctx, `UPDATE backlog_items SET parent_id = ? WHERE id = ?`,
			itemIDToValue(&parent), itemIDToValue(&stored[i])); err != nil {
			return nil, nil, fmt.Errorf("linking backlog item %s: %w", stored[i], err)
		}
	}

	out, err := r.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return out, idMap, nil
}

// Create appends item to the project and returns it with its stored id.
func (r *SQLiteBacklogItemRepo) Create(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error) {
	if err := r.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := r.checkParent(ctx, projectID, "", item.ParentID); err != nil {
		return nil, err
	}

	var next int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM backlog_items WHERE project_id = ?`, projectID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("allocating position: %w", err)
	}

	id, err := r.insert(ctx, projectID, item, next)
	if err != nil {
		return nil, err
	}
	created, _, err := r.GetByID(ctx, id)
	return created, err
}

// GetByID returns the item and the id of the project it belongs to.
func (r *SQLiteBacklogItemRepo) GetByID(ctx context.Context, id domain.ItemID) (*domain.BacklogItem, string, error) {
	query := `SELECT ` + backlogItemColumns + `, project_id FROM backlog_items WHERE id = ?`
	var projectID string
	item, err := scanBacklogItem(r.db.QueryRowContext(ctx, query, itemIDToValue(&id)), &projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("backlog item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", err
	}
	return item, projectID, nil
}

func (r *SQLiteBacklogItemRepo) ListByProject(ctx context.Context, projectID string) ([]domain.BacklogItem, error) {
	query := `SELECT ` + backlogItemColumns + ` FROM backlog_items
		WHERE project_id = ? ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing backlog items: %w", err)
	}
	defer rows.Close()

	items := []domain.BacklogItem{}
	for rows.Next() {
		it, err := scanBacklogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlog items: %w", err)
	}
	return items, nil
}

// Update overwrites every field of the stored item. The item keeps its
// project and position.
func (r *SQLiteBacklogItemRepo) Update(ctx context.Context, item domain.BacklogItem) error {
	_, projectID, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if err := r.checkParent(ctx, projectID, item.ID, item.ParentID); err != nil {
		return err
	}

	query := `UPDATE backlog_items SET parent_id = ?, task_type = ?, priority = ?, title = ?,
		description = ?, status = ?, assigned_agent = ?, estimated_hours = ?,
		suggested_sprint_name = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		parentValue(item.ParentID),
		string(item.TaskType),
		string(item.Priority),
		item.Title,
		item.Description,
		string(item.Status),
		item.AssignedAgent,
		nullableFloatToValue(item.EstimatedHours),
		item.SuggestedSprintName,
		formatTime(nowUTC()),
		itemIDToValue(&item.ID),
	)
	if err != nil {
		return fmt.Errorf("updating backlog item: %w", err)
	}
	return requireRow(res, "backlog item", item.ID.String())
}

// Delete removes the item. Its children become roots.
func (r *SQLiteBacklogItemRepo) Delete(ctx context.Context, id domain.ItemID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backlog_items WHERE id = ?`, itemIDToValue(&id))
	if err != nil {
		return fmt.Errorf("deleting backlog item: %w", err)
	}
	return requireRow(res, "backlog item", id.String())
}

func (r *SQLiteBacklogItemRepo) insert(ctx context.Context, projectID string, it domain.BacklogItem, position int) (domain.ItemID, error) {
	now := formatTime(nowUTC())
	query := `INSERT INTO backlog_items (project_id, parent_id, task_type, priority, title, description,
		status, assigned_agent, estimated_hours, suggested_sprint_name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		projectID,
		parentValue(it.ParentID),
		string(it.TaskType),
		string(it.Priority),
		it.Title,
		it.Description,
		string(domain.ParseItemStatus(domain.CoalesceStr(string(it.Status), string(domain.StatusTodo)))),
		it.AssignedAgent,
		nullableFloatToValue(it.EstimatedHours),
		it.SuggestedSprintName,
		position,
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("inserting backlog item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading backlog item id: %w", err)
	}
	return domain.ItemID(strconv.FormatInt(id, 10)), nil
}

func (r *SQLiteBacklogItemRepo) requireProject(ctx context.Context, projectID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking project %s: %w", projectID, err)
	}
	return nil
}

// checkParent verifies parent names another item of the same project.
func (r *SQLiteBacklogItemRepo) checkParent(ctx context.Context, projectID string, self domain.ItemID, parent *domain.ItemID) error {
	if parent == nil || parent.IsZero() {
		return nil
	}
	if *parent == self {
		return fmt.Errorf("item %s: %w", self, ErrInvalidParent)
	}
	if _, ok := parent.Int(); !ok {
		return fmt.Errorf("parent %s: %w", *parent, ErrInvalidParent)
	}
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT project_id FROM backlog_items WHERE id = ?`, itemIDToValue(parent)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != projectID) {
		return fmt.Errorf("parent %s: %w", *parent, ErrInvalidParent)
	}
	if err != nil {
		return fmt.Errorf("checking parent %s: %w", *parent, err)
	}
	return nil
}

func parentValue(parent *domain.ItemID) any {
	if parent == nil || parent.IsZero() {
		return nil
	}
	return itemIDToValue(parent)
}

func scanBacklogItem(row rowScanner, extra ...any) (*domain.BacklogItem, error) {
	var it domain.BacklogItem
	var id int64
	var parent sql.NullInt64
	var hours sql.NullFloat64
	var taskType, priority, status string

	dest := []any{
		&id, &parent, &taskType, &priority, &it.Title, &it.Description,
		&status, &it.AssignedAgent, &hours, &it.SuggestedSprintName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning backlog item: %w", err)
	}

	it.ID = domain.ItemID(strconv.FormatInt(id, 10))
	it.ParentID = itemIDFromNull(parent)
	it.TaskType = domain.TaskType(taskType)
	it.Priority = domain.Priority(priority)
	it.Status = domain.ItemStatus(status)
	it.EstimatedHours = floatPtr(hours)
	return &it, nil
}
