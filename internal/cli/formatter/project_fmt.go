package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/alexanderramin/autobacklog/internal/service"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleGreen.Render(p.ID),
			Bold(p.DisplayName()),
			ProjectStatusPill(p.Status),
			strconv.Itoa(len(p.Backlog.Backlog)),
			Dim(HumanDate(p.UpdatedAt)),
		})
	}
	table := Table{
		Headers:    []string{"ID", "NAME", "STATUS", "ITEMS", "UPDATED"},
		Rows:       rows,
		RightAlign: []int{3},
	}
	return RenderBox("Projects", table.Render())
}

// ProjectShowData is everything `project show` prints.
type ProjectShowData struct {
	Project *domain.Project
	Sprints []domain.Sprint
}

// FormatProjectShow renders project metadata, the progress summary, the
// backlog tree, agent assignments, the execution plan and sprints.
func FormatProjectShow(data ProjectShowData) string {
	p := data.Project
	var b strings.Builder

	b.WriteString(Bold(p.DisplayName()) + "  " + ProjectStatusPill(p.Status) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID     "), StyleGreen.Render(p.ID)))
	if p.Description != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ABOUT  "), p.Description))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("CREATED"), HumanDate(p.CreatedAt)))
	b.WriteString("\n" + FormatSummary(service.Summarize(p.Backlog)) + "\n")

	b.WriteString("\n" + Header("Backlog") + "\n")
	rows := hierarchy.Flatten(hierarchy.Build(p.Backlog.Backlog), nil)
	if len(rows) == 0 {
		b.WriteString(Dim("No backlog items.") + "\n")
	} else {
		b.WriteString(RenderTree(rows, TreeOptions{Cursor: -1}))
	}

	if len(p.Backlog.Assignments) > 0 {
		b.WriteString("\n" + Header("Assignments") + "\n")
		b.WriteString(FormatAssignments(p.Backlog.Assignments))
	}
	if len(p.Backlog.ExecutionPlan) > 0 {
		b.WriteString("\n" + Header("Execution plan") + "\n")
		b.WriteString(FormatExecutionPlan(p.Backlog.ExecutionPlan))
	}
	if len(data.Sprints) > 0 {
		b.WriteString("\n" + Header("Sprints") + "\n")
		b.WriteString(FormatSprints(data.Sprints))
	}
	return b.String()
}

// FormatSummary renders item counts per board column and overall progress.
func FormatSummary(s service.BacklogSummary) string {
	var parts []string
	for _, c := range board.Columns {
		parts = append(parts, fmt.Sprintf("%s %d", Dim(c.Title()), s.ByColumn[c]))
	}
	line := fmt.Sprintf("%s %d   %s", Dim("Items"), s.ItemCount, strings.Join(parts, "  "))
	if s.TotalHours > 0 {
		line += fmt.Sprintf("   %s %s/%s", Dim("Hours"), FormatHours(s.DoneHours), FormatHours(s.TotalHours))
	}
	return line + "\n" + RenderProgress(s.ProgressPct, 30)
}

// FormatAssignments lists each agent's tasks, agents sorted by name.
func FormatAssignments(assignments map[string][]domain.BacklogItem) string {
	var b strings.Builder
	for _, agent := range sortedKeys(assignments) {
		tasks := assignments[agent]
		total := 0.0
		for _, t := range tasks {
			total += t.Hours()
		}
		b.WriteString(fmt.Sprintf("%s %s\n", StylePurple.Render(agent),
			Dim(fmt.Sprintf("(%d tasks, %s)", len(tasks), FormatHours(total)))))
		for _, t := range tasks {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim("•"), Dim("#"+t.ID.String()), domain.CoalesceStr(t.Title, "(untitled)")))
		}
	}
	return b.String()
}

// FormatExecutionPlan renders each agent's planned hours, tasks and artifacts.
func FormatExecutionPlan(plan map[string]domain.AgentPlan) string {
	var b strings.Builder
	for _, agent := range sortedKeys(plan) {
		ap := plan[agent]
		b.WriteString(fmt.Sprintf("%s %s\n", StylePurple.Render(agent),
			Dim(fmt.Sprintf("(%s, %d tasks)", FormatHours(ap.TotalHours), len(ap.Tasks)))))
		for _, t := range ap.Tasks {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim("•"), Dim("#"+t.ID.String()), domain.CoalesceStr(t.Title, "(untitled)")))
		}
		for _, a := range ap.Artifacts {
			line := fmt.Sprintf("  %s %s", StyleBlue.Render("◆ "+a.Type), a.Description)
			if len(a.Files) > 0 {
				line += " " + Dim(strings.Join(a.Files, ", "))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// FormatSprints renders sprints as a table.
func FormatSprints(sprints []domain.Sprint) string {
	rows := make([][]string, 0, len(sprints))
	for _, s := range sprints {
		rows = append(rows, []string{Bold(s.Name), s.StartDate, s.EndDate, Dim(s.Status)})
	}
	return RenderTable([]string{"SPRINT", "START", "END", "STATUS"}, rows)
}

// FormatBacklogFlat renders items as a table in hierarchy order.
func FormatBacklogFlat(items []domain.BacklogItem) string {
	rows := make([][]string, 0, len(items))
	hierarchy.Walk(hierarchy.Build(items), func(n *hierarchy.Node, _ int) bool {
		it := n.Item
		parent := Dim("--")
		if it.HasParent() {
			parent = it.ParentID.String()
		}
		hours := Dim("--")
		if it.EstimatedHours != nil {
			hours = FormatHours(*it.EstimatedHours)
		}
		rows = append(rows, []string{
			it.ID.String(),
			parent,
			TypeBadge(it.TaskType),
			PriorityIndicator(it.Priority),
			StatusPill(it.Status),
			Truncate(it.Title, 48),
			domain.CoalesceStr(it.AssignedAgent, Dim("--")),
			hours,
			domain.CoalesceStr(it.SuggestedSprintName, Dim("--")),
		})
		return true
	})
	return Table{
		Headers:    []string{"ID", "PARENT", "TYPE", "PRIORITY", "STATUS", "TITLE", "AGENT", "HOURS", "SPRINT"},
		Rows:       rows,
		RightAlign: []int{7},
	}.Render()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
