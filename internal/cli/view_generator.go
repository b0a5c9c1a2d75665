package cli

import (
	"strings"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// generatorView explains the upload flow and starts it. The progress
// spinner is drawn by the appModel while the backend works.
type generatorView struct {
	state *SharedState
}

func newGeneratorView(state *SharedState) *generatorView {
	return &generatorView{state: state}
}

func (v *generatorView) Init() tea.Cmd { return nil }

func (v *generatorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "u", "n", "enter":
			return v, startUpload(true)
		case "r":
			return v, startUpload(false)
		}
	}
	return v, nil
}

func (v *generatorView) View() string {
	st := v.state.Nav.State()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + formatter.StyleHeader.Render("Generate a backlog") + "\n\n")
	b.WriteString("  " + formatter.Dim("Pick a requirements PDF. The backend extracts its text, splits it into") + "\n")
	b.WriteString("  " + formatter.Dim("epics, features, stories and tasks, assigns agents and drafts an") + "\n")
	b.WriteString("  " + formatter.Dim("execution plan. The result opens in the backlog view.") + "\n\n")

	b.WriteString("  " + formatter.StyleGreen.Render("u") + "  " + "New project from a PDF\n")
	if st.HasProject() {
		b.WriteString("  " + formatter.StyleGreen.Render("r") + "  " + "Re-analyze " + formatter.Bold(st.ProjectName) +
			formatter.Dim(" (replaces its backlog)") + "\n")
	}
	return b.String()
}

func (v *generatorView) Title() string       { return "Generator" }
func (v *generatorView) CapturesInput() bool { return false }
func (v *generatorView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload PDF")),
	}
	if v.state.Nav.State().HasProject() {
		bindings = append(bindings, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-analyze")))
	}
	return bindings
}
