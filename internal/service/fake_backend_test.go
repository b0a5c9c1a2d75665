package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

// fakeBackend is an in-memory Backend. Setting an *Err field makes the
// matching call fail.
type fakeBackend struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	sprints  map[string][]domain.Sprint
	nextID   int

	analyzed     *domain.ProjectBacklog
	analyzedName string
	analyzedBody []byte
	saved        []*domain.Project
	updated      []domain.BacklogItem
	deleted      []domain.ItemID

	// summaryOnlySave drops the backlog from SaveProject responses.
	summaryOnlySave bool

	AnalyzeErr error
	SaveErr    error
	GetErr     error
	SprintsErr error
	UpdateErr  error
}

func newFakeBackend(projects ...*domain.Project) *fakeBackend {
	f := &fakeBackend{
		projects: map[string]*domain.Project{},
		sprints:  map[string][]domain.Sprint{},
		nextID:   100,
	}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeBackend) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, api.ErrNotFound
	}
	cp := *p
	cp.Backlog.Backlog = append([]domain.BacklogItem(nil), p.Backlog.Backlog...)
	return &cp, nil
}

func (f *fakeBackend) AnalyzePDF(ctx context.Context, filename string, r io.Reader) (*domain.ProjectBacklog, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzedName = filename
	f.analyzedBody = body
	if f.AnalyzeErr != nil {
		return nil, f.AnalyzeErr
	}
	cp := *f.analyzed
	return &cp, nil
}

func (f *fakeBackend) SaveProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	cp := *p
	if cp.ID == "" {
		f.nextID++
		cp.ID = fmt.Sprintf("%d", f.nextID)
	}
	f.projects[cp.ID] = &cp
	f.saved = append(f.saved, &cp)

	resp := cp
	if f.summaryOnlySave {
		resp.Backlog = domain.ProjectBacklog{}
	}
	return &resp, nil
}

func (f *fakeBackend) ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SprintsErr != nil {
		return nil, f.SprintsErr
	}
	return f.sprints[projectID], nil
}

func (f *fakeBackend) CreateItem(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return nil, api.ErrNotFound
	}
	f.nextID++
	item.ID = domain.ItemID(fmt.Sprintf("%d", f.nextID))
	p.Backlog.Backlog = append(p.Backlog.Backlog, item)
	return &item, nil
}

func (f *fakeBackend) UpdateItem(ctx context.Context, item domain.BacklogItem) (*domain.BacklogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	for _, p := range f.projects {
		for i := range p.Backlog.Backlog {
			if p.Backlog.Backlog[i].ID == item.ID {
				p.Backlog.Backlog[i] = item
				f.updated = append(f.updated, item)
				return &item, nil
			}
		}
	}
	return nil, api.ErrNotFound
}

func (f *fakeBackend) DeleteItem(ctx context.Context, id domain.ItemID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		for i := range p.Backlog.Backlog {
			if p.Backlog.Backlog[i].ID == id {
				p.Backlog.Backlog = append(p.Backlog.Backlog[:i], p.Backlog.Backlog[i+1:]...)
				f.deleted = append(f.deleted, id)
				return nil
			}
		}
	}
	return api.ErrNotFound
}

// recordingObserver collects use-case events for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func hours(h float64) *float64 { return &h }

func sampleProject() *domain.Project {
	epic := domain.ItemID("1")
	story := domain.ItemID("2")
	return &domain.Project{
		ID:   "p1",
		Name: "Checkout",
		Backlog: domain.ProjectBacklog{
			Project: "Checkout",
			Backlog: []domain.BacklogItem{
				{ID: "1", Title: "Payments", TaskType: domain.TaskEpic, Priority: domain.PriorityHigh, Status: domain.StatusTodo, EstimatedHours: hours(10)},
				{ID: "2", ParentID: &epic, Title: "Card form", TaskType: domain.TaskUserStory, Priority: domain.PriorityMedium, Status: domain.StatusInProgress, EstimatedHours: hours(6)},
				{ID: "3", ParentID: &story, Title: "Validate CVC", TaskType: domain.TaskTask, Priority: domain.PriorityLow, Status: domain.StatusDone, EstimatedHours: hours(4)},
			},
		},
	}
}
