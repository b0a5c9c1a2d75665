package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ErrInvalidParent is returned when an item's parent is not an item of the
// same project.
var ErrInvalidParent = errors.New("parent is not an item of this project")

// ProjectRepo stores project metadata. The backlog's assignments and
// execution plan live on the project row; items are in BacklogItemRepo.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type BacklogItemRepo interface {
	// ReplaceForProject deletes the project's items and stores items in
	// order. Stored ids are assigned by the database; the returned map
	// translates each incoming id to its stored id.
	ReplaceForProject(ctx context.Context, projectID string, items []domain.BacklogItem) ([]domain.BacklogItem, map[domain.ItemID]domain.ItemID, error)
	Create(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error)
	GetByID(ctx context.Context, id domain.ItemID) (*domain.BacklogItem, string, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.BacklogItem, error)
	Update(ctx context.Context, item domain.BacklogItem) error
	Delete(ctx context.Context, id domain.ItemID) error
}

type SprintRepo interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Sprint, error)
	ReplaceForProject(ctx context.Context, projectID string, sprints []domain.Sprint) error
}
