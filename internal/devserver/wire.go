package devserver

import (
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// projectJSON is the project representation the backend API returns.
// Summaries omit the backlog fields.
type projectJSON struct {
	ID            domain.ItemID                   `json:"id"`
	ProjectName   string                          `json:"projectName"`
	Description   string                          `json:"description"`
	Status        string                          `json:"status"`
	CreatedAt     string                          `json:"createdAt"`
	UpdatedAt     string                          `json:"updatedAt"`
	BacklogItems  []domain.BacklogItem            `json:"backlogItems,omitempty"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments,omitempty"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan,omitempty"`
}

func projectSummary(p *domain.Project) projectJSON {
	return projectJSON{
		ID:          domain.ItemID(p.ID),
		ProjectName: p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func projectDetail(p *domain.Project) projectJSON {
	out := projectSummary(p)
	b := p.Backlog
	b.Normalize()
	out.BacklogItems = b.Backlog
	out.Assignments = b.Assignments
	out.ExecutionPlan = b.ExecutionPlan
	return out
}

// saveProjectJSON is the body of POST and PUT /api/projects.
type saveProjectJSON struct {
	ProjectName   string                          `json:"projectName"`
	Name          string                          `json:"name"`
	Description   string                          `json:"description"`
	Status        string                          `json:"status"`
	BacklogItems  []domain.BacklogItem            `json:"backlogItems"`
	Backlog       []domain.BacklogItem            `json:"backlog"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan"`
}

func (s saveProjectJSON) toDomain() *domain.Project {
	items := s.BacklogItems
	if items == nil {
		items = s.Backlog
	}
	name := domain.CoalesceStr(s.ProjectName, s.Name)
	p := &domain.Project{
		Name:        name,
		Description: s.Description,
		Status:      s.Status,
		Backlog: domain.ProjectBacklog{
			Project:       name,
			Backlog:       items,
			Assignments:   s.Assignments,
			ExecutionPlan: s.ExecutionPlan,
		},
	}
	p.Backlog.Normalize()
	return p
}

// analysisJSON mirrors the analysis service's response.
type analysisJSON struct {
	Project       string                          `json:"project"`
	Backlog       []domain.BacklogItem            `json:"backlog"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"execution_plan"`
}

func analysisFrom(b *domain.ProjectBacklog) analysisJSON {
	cp := *b
	cp.Normalize()
	return analysisJSON{
		Project:       cp.Project,
		Backlog:       cp.Backlog,
		Assignments:   cp.Assignments,
		ExecutionPlan: cp.ExecutionPlan,
	}
}

type errorJSON struct {
	Message string `json:"message"`
}

// remapPlan rewrites the item ids inside assignments and the execution
// plan to their stored ids. References to unknown ids are kept as sent.
func remapPlan(b *domain.ProjectBacklog, idMap map[domain.ItemID]domain.ItemID) {
	remap := func(items []domain.BacklogItem) []domain.BacklogItem {
		out := make([]domain.BacklogItem, len(items))
		for i, it := range items {
			if id, ok := idMap[it.ID]; ok {
				it.ID = id
			}
			if it.HasParent() {
				if id, ok := idMap[*it.ParentID]; ok {
					it.ParentID = id.Ptr()
				}
			}
			out[i] = it
		}
		return out
	}
	for agent, items := range b.Assignments {
		b.Assignments[agent] = remap(items)
	}
	for agent, plan := range b.ExecutionPlan {
		plan.Tasks = remap(plan.Tasks)
		b.ExecutionPlan[agent] = plan
	}
}
