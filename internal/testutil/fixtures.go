package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

var testItemCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func WithProjectStatus(s string) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithItems(items ...domain.BacklogItem) ProjectOption {
	return func(p *domain.Project) {
		p.Backlog.Backlog = append(p.Backlog.Backlog, items...)
	}
}

func WithAssignment(agent string, items ...domain.BacklogItem) ProjectOption {
	return func(p *domain.Project) {
		if p.Backlog.Assignments == nil {
			p.Backlog.Assignments = map[string][]domain.BacklogItem{}
		}
		p.Backlog.Assignments[agent] = append(p.Backlog.Assignments[agent], items...)
	}
}

// NewTestProject returns an unsaved project named name with an empty backlog.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		Name:    name,
		Status:  "generated",
		Backlog: domain.ProjectBacklog{Project: name},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Backlog.Normalize()
	return p
}

// Item options
type ItemOption func(*domain.BacklogItem)

func WithParent(id domain.ItemID) ItemOption {
	return func(it *domain.BacklogItem) {
		it.ParentID = &id
	}
}

func WithTaskType(t domain.TaskType) ItemOption {
	return func(it *domain.BacklogItem) {
		it.TaskType = t
	}
}

func WithPriority(p domain.Priority) ItemOption {
	return func(it *domain.BacklogItem) {
		it.Priority = p
	}
}

func WithStatus(s domain.ItemStatus) ItemOption {
	return func(it *domain.BacklogItem) {
		it.Status = s
	}
}

func WithAgent(agent string) ItemOption {
	return func(it *domain.BacklogItem) {
		it.AssignedAgent = agent
	}
}

func WithHours(h float64) ItemOption {
	return func(it *domain.BacklogItem) {
		it.EstimatedHours = &h
	}
}

func WithSprint(name string) ItemOption {
	return func(it *domain.BacklogItem) {
		it.SuggestedSprintName = name
	}
}

// NewTestItem returns a todo user story. An empty id gets a unique one.
func NewTestItem(id domain.ItemID, title string, opts ...ItemOption) domain.BacklogItem {
	if id.IsZero() {
		id = domain.ItemID(fmt.Sprintf("%d", testItemCounter.Add(1)))
	}
	it := domain.BacklogItem{
		ID:       id,
		Title:    title,
		TaskType: domain.TaskUserStory,
		Priority: domain.PriorityMedium,
		Status:   domain.StatusTodo,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}
