package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// TreeOptions controls interactive decorations of RenderTree.
type TreeOptions struct {
	// Cursor is the row index to highlight, or -1 for none.
	Cursor int
	// Markers shows ▸/▾ in front of items that have children.
	Markers bool
}

// RenderTree renders flattened hierarchy rows as an indented tree using
// box-drawing connectors. Done items get a green ✔ prefix, in-progress items
// an amber ▶ prefix, and the hours/agent/sprint badge is right-aligned.
func RenderTree(rows []hierarchy.Row, opts TreeOptions) string {
	if len(rows) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}
	lines := make([]lineInfo, len(rows))
	maxContentWidth := 0

	for idx, row := range rows {
		it := row.Node.Item
		content := treePrefix(row)

		if opts.Markers {
			switch {
			case row.ChildCount == 0:
				content += "  "
			case row.Collapsed:
				content += StyleDim.Render("▸ ")
			default:
				content += StyleDim.Render("▾ ")
			}
		}

		title := it.Title
		switch domain.ParseItemStatus(string(it.Status)) {
		case domain.StatusDone, domain.StatusVerified:
			content += StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusInProgress:
			content += StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.StatusBlocked:
			content += StyleRed.Render("✖ ")
		}
		if idx == opts.Cursor {
			title = StyleGreen.Bold(true).Render(it.Title)
		}

		content += TypeBadge(it.TaskType) + " " + Dim("#"+it.ID.String()) + " " + title
		if row.Collapsed {
			content += Dim(fmt.Sprintf(" (+%d)", row.ChildCount))
		}
		if idx == opts.Cursor {
			content = StyleGreen.Render("▸ ") + content
		} else if opts.Cursor >= 0 {
			content = "  " + content
		}

		lines[idx].content = content
		lines[idx].badge = itemBadge(it)
		maxContentWidth = max(maxContentWidth, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := max(0, maxContentWidth-lipgloss.Width(li.content))
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}

// treePrefix draws the connectors for a row. Roots have none; each deeper
// level continues its ancestor's pipe unless that ancestor was a last child.
func treePrefix(row hierarchy.Row) string {
	if row.Depth == 0 {
		return ""
	}
	var b strings.Builder
	for _, last := range row.Guides[1:] {
		if last {
			b.WriteString(treeSpace)
		} else {
			b.WriteString(treePipe)
		}
	}
	if row.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return StyleDim.Render(b.String())
}

// itemBadge summarizes estimate, agent and sprint, e.g. "[ 6h · alice ]".
func itemBadge(it domain.BacklogItem) string {
	var parts []string
	if it.EstimatedHours != nil {
		parts = append(parts, FormatHours(*it.EstimatedHours))
	}
	if it.AssignedAgent != "" && it.AssignedAgent != domain.UnassignedAgent {
		parts = append(parts, it.AssignedAgent)
	}
	if it.SuggestedSprintName != "" {
		parts = append(parts, it.SuggestedSprintName)
	}
	if len(parts) == 0 {
		return ""
	}
	return StyleBlue.Render("[ " + strings.Join(parts, " · ") + " ]")
}
