package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua       = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TypeStyle returns the badge color for a task type. Unknown types are dim.
func TypeStyle(t domain.TaskType) lipgloss.Style {
	switch domain.TaskType(strings.ToLower(string(t))) {
	case domain.TaskEpic:
		return StylePurple
	case domain.TaskFeature:
		return StyleBlue
	case domain.TaskUserStory:
		return StyleAqua
	case domain.TaskTask:
		return StyleFg
	case domain.TaskBug:
		return StyleRed
	default:
		return StyleDim
	}
}

// TypeBadge renders a task type as a short colored label such as "EPIC".
func TypeBadge(t domain.TaskType) string {
	return TypeStyle(t).Render(t.Label())
}

// PriorityStyle returns the color for a priority. Unknown priorities are dim.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	switch domain.Priority(strings.ToLower(string(p))) {
	case domain.PriorityCritical:
		return StyleRed.Bold(true)
	case domain.PriorityHigh:
		return StyleRed
	case domain.PriorityMedium:
		return StyleYellow
	case domain.PriorityLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// PriorityIndicator returns a colored priority label such as "● HIGH".
func PriorityIndicator(p domain.Priority) string {
	return PriorityStyle(p).Render("● " + p.Label())
}

// StatusPill returns a colored indicator for an item status.
func StatusPill(s domain.ItemStatus) string {
	switch domain.ParseItemStatus(string(s)) {
	case domain.StatusTodo:
		return StyleBlue.Render("○ Todo")
	case domain.StatusInProgress:
		return StyleYellow.Render("▶ In Progress")
	case domain.StatusDone:
		return StyleGreen.Render("✔ Done")
	case domain.StatusVerified:
		return StyleGreen.Render("✔ Verified")
	case domain.StatusBlocked:
		return StyleRed.Render("✖ Blocked")
	default:
		return StyleDim.Render(string(s))
	}
}

// ProjectStatusPill renders the free-form backend project status.
func ProjectStatusPill(status string) string {
	switch strings.ToLower(status) {
	case "generated":
		return StyleGreen.Render("● generated")
	case "imported":
		return StyleBlue.Render("● imported")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(status)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
