package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// backlogLoadedMsg carries a freshly fetched project for the backlog screen.
type backlogLoadedMsg struct {
	projectID string
	project   *domain.Project
	err       error
}

// backlogView shows the selected project's backlog as a collapsible tree.
type backlogView struct {
	state     *SharedState
	projectID string
	project   *domain.Project
	forest    []*hierarchy.Node
	rows      []hierarchy.Row
	collapsed map[domain.ItemID]bool
	cursor    int
	offset    int
	loading   bool
	err       error
}

func newBacklogView(state *SharedState) *backlogView {
	return &backlogView{
		state:     state,
		projectID: state.Nav.State().ProjectID,
		collapsed: map[domain.ItemID]bool{},
		loading:   true,
	}
}

func (v *backlogView) Title() string       { return "Backlog" }
func (v *backlogView) CapturesInput() bool { return false }

func (v *backlogView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a/A", "add child/root")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("E"), key.WithHelp("E/C", "expand/collapse all")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "re-analyze")),
	}
}

func (v *backlogView) Init() tea.Cmd {
	return v.load()
}

func (v *backlogView) load() tea.Cmd {
	projects := v.state.App.Projects
	id := v.projectID
	return func() tea.Msg {
		p, err := projects.Open(context.Background(), id)
		return backlogLoadedMsg{projectID: id, project: p, err: err}
	}
}

func (v *backlogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case backlogLoadedMsg:
		if msg.projectID != v.projectID {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.setProject(msg.project)
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		if v.loading || v.project == nil {
			if msg.String() == "r" {
				v.loading = true
				return v, v.load()
			}
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *backlogView) setProject(p *domain.Project) {
	var selected domain.ItemID
	if row, ok := v.current(); ok {
		selected = row.Node.Item.ID
	}
	v.project = p
	v.forest = hierarchy.Build(p.Backlog.Backlog)
	v.reflow()
	if !selected.IsZero() {
		v.moveTo(selected)
	}
}

// reflow rebuilds the visible rows after a fold change.
func (v *backlogView) reflow() {
	v.rows = hierarchy.Flatten(v.forest, func(id domain.ItemID) bool { return v.collapsed[id] })
	v.cursor = min(v.cursor, max(len(v.rows)-1, 0))
	v.scroll()
}

func (v *backlogView) current() (hierarchy.Row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return hierarchy.Row{}, false
	}
	return v.rows[v.cursor], true
}

func (v *backlogView) moveTo(id domain.ItemID) {
	for i, r := range v.rows {
		if r.Node.Item.ID == id {
			v.cursor = i
			v.scroll()
			return
		}
	}
}

func (v *backlogView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := v.project.Backlog.Backlog
	row, hasRow := v.current()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = max(len(v.rows)-1, 0)
	case "left", "h":
		if !hasRow {
			break
		}
		if row.ChildCount > 0 && !row.Collapsed {
			v.collapsed[row.Node.Item.ID] = true
			v.reflow()
		} else if row.Node.Item.HasParent() {
			v.moveTo(*row.Node.Item.ParentID)
		}
	case "right", "l":
		if !hasRow || row.ChildCount == 0 {
			break
		}
		if row.Collapsed {
			delete(v.collapsed, row.Node.Item.ID)
			v.reflow()
		} else {
			v.cursor++
		}
	case "enter", " ":
		if hasRow && row.ChildCount > 0 {
			id := row.Node.Item.ID
			if v.collapsed[id] {
				delete(v.collapsed, id)
			} else {
				v.collapsed[id] = true
			}
			v.reflow()
		}
	case "E":
		clear(v.collapsed)
		v.reflow()
	case "C":
		hierarchy.Walk(v.forest, func(n *hierarchy.Node, _ int) bool {
			if len(n.Children) > 0 {
				v.collapsed[n.Item.ID] = true
			}
			return true
		})
		if hasRow {
			// Land on the root that contained the cursor.
			v.reflow()
			v.moveTo(rootOf(items, row.Node.Item.ID))
		} else {
			v.reflow()
		}
	case "e":
		if hasRow {
			return v, editItemDialog(v.state, v.projectID, items, row.Node.Item)
		}
	case "a":
		var parent domain.ItemID
		if hasRow {
			parent = row.Node.Item.ID
		}
		return v, addItemDialog(v.state, v.projectID, items, parent)
	case "A":
		return v, addItemDialog(v.state, v.projectID, items, "")
	case "d", "x":
		if hasRow {
			return v, deleteItemDialog(v.state, row.Node.Item)
		}
	case "r":
		return v, v.load()
	case "u":
		return v, startUpload(false)
	}
	v.scroll()
	return v, nil
}

// rootOf follows parent references up to the top. Cycles stop at the first
// repeated item.
func rootOf(items []domain.BacklogItem, id domain.ItemID) domain.ItemID {
	parents := make(map[domain.ItemID]domain.ItemID, len(items))
	for _, it := range items {
		if it.HasParent() {
			parents[it.ID] = *it.ParentID
		}
	}
	seen := map[domain.ItemID]bool{}
	for !seen[id] {
		seen[id] = true
		p, ok := parents[id]
		if !ok {
			return id
		}
		if _, exists := findByID(items, p); !exists {
			return id
		}
		id = p
	}
	return id
}

func findByID(items []domain.BacklogItem, id domain.ItemID) (domain.BacklogItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.BacklogItem{}, false
}

// treeHeight is how many rows fit under the summary and detail lines. Zero
// means unknown, in which case everything is shown.
func (v *backlogView) treeHeight() int {
	if v.state.Height == 0 {
		return 0
	}
	return max(v.state.ContentHeight()-6, 3)
}

func (v *backlogView) scroll() {
	h := v.treeHeight()
	if h == 0 {
		v.offset = 0
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	v.offset = max(0, min(v.offset, max(len(v.rows)-h, 0)))
}

func (v *backlogView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading backlog...")
	}
	if v.err != nil {
		return "\n  " + shellError(v.err) + "\n  " + formatter.Dim("r: retry")
	}

	var b strings.Builder
	b.WriteString("\n")
	sum := service.Summarize(v.project.Backlog)
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		formatter.Bold(v.project.DisplayName()),
		formatter.Dim(fmt.Sprintf("%d items · %s", sum.ItemCount, formatter.FormatHours(sum.TotalHours))),
		formatter.RenderProgress(sum.ProgressPct, 20)))
	b.WriteString("\n")

	if len(v.rows) == 0 {
		b.WriteString("  " + formatter.Dim("No backlog items.") + "\n")
		b.WriteString("  " + formatter.Dim("Press A to add one or u to analyze a PDF.") + "\n")
		return b.String()
	}

	end := len(v.rows)
	if h := v.treeHeight(); h > 0 {
		end = min(v.offset+h, len(v.rows))
	}
	tree := formatter.RenderTree(v.rows[v.offset:end], formatter.TreeOptions{
		Cursor:  v.cursor - v.offset,
		Markers: true,
	})
	for _, line := range strings.Split(strings.TrimRight(tree, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	if end < len(v.rows) || v.offset > 0 {
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("%d-%d of %d", v.offset+1, end, len(v.rows))) + "\n")
	}

	if row, ok := v.current(); ok {
		b.WriteString("\n  " + itemDetail(row.Node.Item) + "\n")
	}
	return b.String()
}

// itemDetail is the one-line summary of the highlighted item.
func itemDetail(it domain.BacklogItem) string {
	parts := []string{
		formatter.Dim("#" + it.ID.String()),
		formatter.TypeBadge(it.TaskType),
		formatter.PriorityIndicator(it.Priority),
		formatter.StatusPill(it.Status),
	}
	if it.Description != "" {
		parts = append(parts, formatter.Dim(formatter.Truncate(strings.ReplaceAll(it.Description, "\n", " "), 60)))
	}
	return strings.Join(parts, "  ")
}
