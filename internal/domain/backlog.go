package domain

import "time"

// Placeholder option values shown when an item has no agent or sprint.
const (
	UnassignedAgent = "Unassigned"
	UnplannedSprint = "Unplanned"
)

// BacklogItem is a unit of work produced by the backend's analysis step.
type BacklogItem struct {
	ID                  ItemID     `json:"id" yaml:"id"`
	ParentID            *ItemID    `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	TaskType            TaskType   `json:"taskType,omitempty" yaml:"taskType,omitempty"`
	Priority            Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Title               string     `json:"title,omitempty" yaml:"title,omitempty"`
	Description         string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status              ItemStatus `json:"status,omitempty" yaml:"status,omitempty"`
	AssignedAgent       string     `json:"assignedAgent,omitempty" yaml:"assignedAgent,omitempty"`
	EstimatedHours      *float64   `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	SuggestedSprintName string     `json:"suggestedSprintName,omitempty" yaml:"suggestedSprintName,omitempty"`
}

// HasParent reports whether the item carries a non-empty parent reference.
func (b *BacklogItem) HasParent() bool {
	return b.ParentID != nil && !b.ParentID.IsZero()
}

// Hours returns the estimated hours, or 0 when unknown.
func (b *BacklogItem) Hours() float64 {
	return Float64FromPtrWithDefault(0, b.EstimatedHours)
}

// Artifact is a deliverable an agent is expected to produce.
type Artifact struct {
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Files       []string `json:"files" yaml:"files"`
}

// AgentPlan is the backend's schedule for a single agent.
type AgentPlan struct {
	TotalHours float64       `json:"total_hours" yaml:"total_hours"`
	Tasks      []BacklogItem `json:"tasks" yaml:"tasks"`
	Artifacts  []Artifact    `json:"artifacts" yaml:"artifacts"`
}

// ProjectBacklog is the structured result of analyzing a requirements document.
type ProjectBacklog struct {
	Project       string                   `json:"project" yaml:"project"`
	Backlog       []BacklogItem            `json:"backlog" yaml:"backlog"`
	Assignments   map[string][]BacklogItem `json:"assignments" yaml:"assignments"`
	ExecutionPlan map[string]AgentPlan     `json:"execution_plan" yaml:"execution_plan"`
}

// Normalize replaces nil collections with empty ones so callers can range
// and count without nil checks.
func (p *ProjectBacklog) Normalize() {
	if p.Backlog == nil {
		p.Backlog = []BacklogItem{}
	}
	if p.Assignments == nil {
		p.Assignments = map[string][]BacklogItem{}
	}
	if p.ExecutionPlan == nil {
		p.ExecutionPlan = map[string]AgentPlan{}
	}
}

// ItemByID returns the backlog item with the given id.
func (p *ProjectBacklog) ItemByID(id ItemID) (BacklogItem, bool) {
	for _, it := range p.Backlog {
		if it.ID == id {
			return it, true
		}
	}
	return BacklogItem{}, false
}

// Project is a backend project together with its generated backlog.
type Project struct {
	ID          string
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Backlog     ProjectBacklog
}

// DisplayName returns the project name, falling back to the backlog's
// project title and then the id.
func (p *Project) DisplayName() string {
	return CoalesceStr(p.Name, p.Backlog.Project, "#"+p.ID)
}

// Sprint is a time-boxed iteration of a project.
type Sprint struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
	Status    string `json:"status" yaml:"status"`
}

// AgentOptions returns the distinct assigned agents in first-seen order,
// with UnassignedAgent always first.
func AgentOptions(items []BacklogItem) []string {
	return distinctWithPlaceholder(items, UnassignedAgent, func(b BacklogItem) string { return b.AssignedAgent })
}

// SprintOptions returns the distinct suggested sprint names in first-seen
// order, with UnplannedSprint always first.
func SprintOptions(items []BacklogItem) []string {
	return distinctWithPlaceholder(items, UnplannedSprint, func(b BacklogItem) string { return b.SuggestedSprintName })
}

func distinctWithPlaceholder(items []BacklogItem, placeholder string, field func(BacklogItem) string) []string {
	out := []string{placeholder}
	seen := map[string]bool{placeholder: true}
	for _, it := range items {
		v := field(it)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
