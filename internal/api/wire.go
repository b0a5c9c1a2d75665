package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// snakeAliases maps field names some backend versions emit to the
// camelCase names the client decodes. The camelCase key wins when both
// are present.
var snakeAliases = map[string]string{
	"parent_id":             "parentId",
	"task_type":             "taskType",
	"assigned_agent":        "assignedAgent",
	"estimated_hours":       "estimatedHours",
	"suggested_sprint_name": "suggestedSprintName",
	"execution_plan":        "executionPlan",
	"backlog_items":         "backlogItems",
	"project_name":          "projectName",
	"created_at":            "createdAt",
	"updated_at":            "updatedAt",
	"start_date":            "startDate",
	"end_date":              "endDate",
}

// decodeJSON unmarshals data into out after renaming snake_case aliases.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	normalized, err := json.Marshal(canonicalKeys(raw))
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, out)
}

func canonicalKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = canonicalKeys(val)
		}
		for snake, camel := range snakeAliases {
			val, ok := out[snake]
			if !ok {
				continue
			}
			delete(out, snake)
			if _, exists := out[camel]; !exists {
				out[camel] = val
			}
		}
		return out
	case []any:
		for i := range t {
			t[i] = canonicalKeys(t[i])
		}
		return t
	default:
		return v
	}
}

// projectDTO is the backend's project representation. List responses carry
// only the summary fields.
type projectDTO struct {
	ID            domain.ItemID                   `json:"id,omitempty"`
	ProjectName   string                          `json:"projectName,omitempty"`
	Name          string                          `json:"name,omitempty"`
	Project       string                          `json:"project,omitempty"`
	Description   string                          `json:"description,omitempty"`
	Status        string                          `json:"status,omitempty"`
	CreatedAt     string                          `json:"createdAt,omitempty"`
	UpdatedAt     string                          `json:"updatedAt,omitempty"`
	LastModified  string                          `json:"lastModified,omitempty"`
	BacklogItems  []domain.BacklogItem            `json:"backlogItems,omitempty"`
	Backlog       []domain.BacklogItem            `json:"backlog,omitempty"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments,omitempty"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan,omitempty"`
}

func (d projectDTO) toDomain() domain.Project {
	name := domain.CoalesceStr(d.ProjectName, d.Name, d.Project)
	p := domain.Project{
		ID:          d.ID.String(),
		Name:        name,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   parseTime(d.CreatedAt),
		UpdatedAt:   parseTime(domain.CoalesceStr(d.UpdatedAt, d.LastModified)),
		Backlog: domain.ProjectBacklog{
			Project:     name,
			Backlog:     d.BacklogItems,
			Assignments: d.Assignments,
		},
	}
	if p.Backlog.Backlog == nil {
		p.Backlog.Backlog = d.Backlog
	}
	p.Backlog.ExecutionPlan = d.ExecutionPlan
	p.Backlog.Normalize()
	return p
}

// saveProjectRequest is the body of POST/PUT /api/projects.
type saveProjectRequest struct {
	ID            domain.ItemID                   `json:"id,omitempty"`
	ProjectName   string                          `json:"projectName"`
	Description   string                          `json:"description"`
	Status        string                          `json:"status"`
	BacklogItems  []domain.BacklogItem            `json:"backlogItems"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan"`
}

func newSaveProjectRequest(p *domain.Project) saveProjectRequest {
	b := p.Backlog
	b.Normalize()
	return saveProjectRequest{
		ID:            domain.ItemID(p.ID),
		ProjectName:   domain.CoalesceStr(p.Name, b.Project),
		Description:   p.Description,
		Status:        p.Status,
		BacklogItems:  b.Backlog,
		Assignments:   b.Assignments,
		ExecutionPlan: b.ExecutionPlan,
	}
}

// analysisDTO is the body returned by the PDF upload endpoint.
type analysisDTO struct {
	Project       string                          `json:"project"`
	ProjectName   string                          `json:"projectName,omitempty"`
	Backlog       []domain.BacklogItem            `json:"backlog"`
	BacklogItems  []domain.BacklogItem            `json:"backlogItems,omitempty"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan"`
}

func (d analysisDTO) toDomain() domain.ProjectBacklog {
	b := domain.ProjectBacklog{
		Project:       domain.CoalesceStr(d.Project, d.ProjectName),
		Backlog:       d.Backlog,
		Assignments:   d.Assignments,
		ExecutionPlan: d.ExecutionPlan,
	}
	if b.Backlog == nil {
		b.Backlog = d.BacklogItems
	}
	b.Normalize()
	return b
}

type sprintDTO struct {
	ID        domain.ItemID `json:"id"`
	Name      string        `json:"name"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Status    string        `json:"status"`
}

func (d sprintDTO) toDomain() domain.Sprint {
	return domain.Sprint{ID: d.ID.String(), Name: d.Name, StartDate: d.StartDate, EndDate: d.EndDate, Status: d.Status}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage extracts a human-readable message from an error response body.
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := domain.CoalesceStr(eb.Message, eb.Error); msg != "" {
			return msg
		}
	}
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "<") {
		return ""
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp spellings the backend is known to emit.
// Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
