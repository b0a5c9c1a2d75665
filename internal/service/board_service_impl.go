package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"golang.org/x/sync/errgroup"
)

type boardService struct {
	backend  Backend
	observer UseCaseObserver
}

func NewBoardService(backend Backend, observers ...UseCaseObserver) BoardService {
	return &boardService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

// Load fetches the project and its sprints concurrently. A backend without
// a sprints endpoint yields an empty sprint list.
func (s *boardService) Load(ctx context.Context, projectID string) (view *BoardView, err error) {
	fields := map[string]any{"project_id": projectID}
	defer track(ctx, s.observer, "load-board", fields)(&err)

	var (
		project *domain.Project
		sprints []domain.Sprint
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := s.backend.GetProject(egCtx, projectID)
		project = p
		return err
	})
	eg.Go(func() error {
		sp, err := s.backend.ListSprints(egCtx, projectID)
		if errors.Is(err, api.ErrNotFound) {
			return nil
		}
		sprints = sp
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if sprints == nil {
		sprints = []domain.Sprint{}
	}
	fields["card_count"] = len(project.Backlog.Backlog)
	fields["sprint_count"] = len(sprints)
	return &BoardView{
		Project: project,
		Sprints: sprints,
		Board:   board.New(project.Backlog.Backlog),
	}, nil
}

func (s *boardService) MoveCard(ctx context.Context, b board.Board, id domain.ItemID, to board.Column, index int) (next board.Board, change *board.Change, err error) {
	fields := map[string]any{"item_id": id.String(), "to": to.String()}
	defer track(ctx, s.observer, "move-card", fields)(&err)

	next, change, err = b.Move(id, to, index)
	if err != nil {
		return b, nil, err
	}
	if change == nil {
		return next, nil, nil
	}
	fields["from"] = change.From.String()
	if _, err := s.backend.UpdateItem(ctx, change.Item); err != nil {
		return b, nil, err
	}
	return next, change, nil
}
