package service

import (
	"context"
	"io"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/importer"
)

// Backend is the remote API the services drive. *api.Client implements it.
type Backend interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	AnalyzePDF(ctx context.Context, filename string, r io.Reader) (*domain.ProjectBacklog, error)
	SaveProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error)
	CreateItem(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error)
	UpdateItem(ctx context.Context, item domain.BacklogItem) (*domain.BacklogItem, error)
	DeleteItem(ctx context.Context, id domain.ItemID) error
}

type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Open(ctx context.Context, id string) (*domain.Project, error)
	ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error)
}

type GenerateService interface {
	// GenerateFromPDF analyzes the PDF at path and saves the result. An
	// empty projectID creates a new project; otherwise that project's
	// backlog is replaced.
	GenerateFromPDF(ctx context.Context, path string, projectID string) (*domain.Project, error)
}

// ImportResult summarizes a backlog file import.
type ImportResult struct {
	Project   *domain.Project
	ItemCount int
	Warnings  []importer.Warning
}

type ImportService interface {
	ImportProject(ctx context.Context, path string) (*ImportResult, error)
	ImportBacklog(ctx context.Context, b *domain.ProjectBacklog, sourcePath string) (*ImportResult, error)
}

type ItemService interface {
	Create(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error)
	Update(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error)
	Delete(ctx context.Context, id domain.ItemID) error
}

// BoardView is everything the kanban screen shows for a project.
type BoardView struct {
	Project *domain.Project
	Sprints []domain.Sprint
	Board   board.Board
}

type BoardService interface {
	Load(ctx context.Context, projectID string) (*BoardView, error)
	// MoveCard applies a board move and persists the card's new status
	// when it changed columns. On failure the original board is returned.
	MoveCard(ctx context.Context, b board.Board, id domain.ItemID, to board.Column, index int) (board.Board, *board.Change, error)
}
