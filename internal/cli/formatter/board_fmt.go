package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultBoardWidth = 96

// BoardOptions controls the highlighted card of FormatBoard.
type BoardOptions struct {
	// Width is the total width of the three columns; 0 uses a default.
	Width int
	Focus board.Column
	// Cursor is the highlighted card index in Focus, or -1 for none.
	Cursor int
	// Holding marks the highlighted card as picked up for moving.
	Holding bool
}

// FormatBoard renders the kanban board as three side-by-side columns.
func FormatBoard(b board.Board, opts BoardOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultBoardWidth
	}
	colWidth := max(20, width/len(board.Columns)-2)

	cols := make([]string, 0, len(board.Columns))
	for _, c := range board.Columns {
		cols = append(cols, renderColumn(b, c, colWidth, opts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderColumn(b board.Board, c board.Column, width int, opts BoardOptions) string {
	cards := b.Cards(c)
	title := fmt.Sprintf("%s %s", c.Title(), Dim(fmt.Sprintf("(%d)", len(cards))))
	if c == opts.Focus {
		title = StyleHeader.Render(c.Title()) + " " + Dim(fmt.Sprintf("(%d)", len(cards)))
	}

	parts := []string{title}
	if len(cards) == 0 {
		parts = append(parts, Dim("  empty"))
	}
	for i, it := range cards {
		selected := c == opts.Focus && i == opts.Cursor
		parts = append(parts, renderCard(it, width-2, selected, selected && opts.Holding))
	}
	return lipgloss.NewStyle().Width(width).MarginRight(2).Render(strings.Join(parts, "\n"))
}

func renderCard(it domain.BacklogItem, width int, selected, holding bool) string {
	border := ColorDim
	switch {
	case holding:
		border = ColorYellow
	case selected:
		border = ColorGreen
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(8, width-2))

	title := Truncate(domain.CoalesceStr(it.Title, "(untitled)"), max(4, width-4))
	if selected {
		title = Bold(title)
	}
	meta := TypeBadge(it.TaskType) + " " + PriorityStyle(it.Priority).Render(it.Priority.Label())
	if it.EstimatedHours != nil {
		meta += " " + Dim(FormatHours(*it.EstimatedHours))
	}
	lines := []string{Dim("#"+it.ID.String()) + " " + title, meta}
	if it.AssignedAgent != "" && it.AssignedAgent != domain.UnassignedAgent {
		lines = append(lines, StylePurple.Render(Truncate(it.AssignedAgent, max(4, width-4))))
	}
	return style.Render(strings.Join(lines, "\n"))
}
