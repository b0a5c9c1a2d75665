package service

import (
	"context"
	"sort"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

type projectService struct {
	backend  Backend
	observer UseCaseObserver
}

func NewProjectService(backend Backend, observers ...UseCaseObserver) ProjectService {
	return &projectService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) List(ctx context.Context) (projects []domain.Project, err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "list-projects", fields)(&err)

	projects, err = s.backend.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	// Most recently updated first; the backend does not promise an order.
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	fields["count"] = len(projects)
	return projects, nil
}

func (s *projectService) Open(ctx context.Context, id string) (p *domain.Project, err error) {
	fields := map[string]any{"project_id": id}
	defer track(ctx, s.observer, "open-project", fields)(&err)

	p, err = s.backend.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["item_count"] = len(p.Backlog.Backlog)
	return p, nil
}

func (s *projectService) ListSprints(ctx context.Context, projectID string) (sprints []domain.Sprint, err error) {
	defer track(ctx, s.observer, "list-sprints", map[string]any{"project_id": projectID})(&err)
	return s.backend.ListSprints(ctx, projectID)
}
