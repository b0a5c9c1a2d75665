package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colGap is the number of spaces between table columns.
const colGap = 2

// Table is a simple aligned table with a header separator line. Widths are
// measured with lipgloss.Width so styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// RightAlign lists column indexes whose cells are right-aligned,
	// typically numeric columns such as hours.
	RightAlign []int
}

// RenderTable renders headers and rows with every column left-aligned.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

// Render draws the table. An empty header list renders nothing.
func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	right := make(map[int]bool, len(t.RightAlign))
	for _, i := range t.RightAlign {
		right[i] = true
	}

	var b strings.Builder
	header := make([]string, cols)
	for i, h := range t.Headers {
		header[i] = StyleHeader.Render(h)
	}
	t.writeRow(&b, header, widths, right)

	sep := make([]string, cols)
	for i, w := range widths {
		sep[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	t.writeRow(&b, sep, widths, nil)

	for _, row := range t.Rows {
		cells := make([]string, cols)
		copy(cells, row)
		t.writeRow(&b, cells, widths, right)
	}
	return b.String()
}

func (t Table) writeRow(b *strings.Builder, cells []string, widths []int, right map[int]bool) {
	last := len(cells) - 1
	for i, cell := range cells {
		pad := max(0, widths[i]-lipgloss.Width(cell))
		if right[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
			pad = 0
		} else {
			b.WriteString(cell)
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")
}
