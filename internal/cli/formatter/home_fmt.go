package formatter

import (
	"fmt"
	"strings"
)

// FormatWelcome renders the home screen shown when the TUI starts.
func FormatWelcome(backendURL string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  autobacklog") + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	b.WriteString(StyleDim.Render("  Turn a requirements PDF into a hierarchical backlog, then plan it on a board.") + "\n\n")

	keys := [][]string{
		{"1-5", "Switch view: home, projects, generator, backlog, kanban"},
		{"enter", "Browse projects"},
		{"u", "Generate a new project from a PDF"},
		{"q", "Quit"},
	}
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleGreen.Render(PadRight(k[0], 5)), StyleDim.Render(k[1])))
	}
	if backendURL != "" {
		b.WriteString("\n" + StyleDim.Render("  Backend: ") + StyleBlue.Render(backendURL) + "\n")
	}
	return b.String()
}
