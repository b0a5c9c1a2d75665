package cli

import (
	"github.com/alexanderramin/autobacklog/internal/app"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// homeView is the welcome screen.
type homeView struct {
	state *SharedState
}

func newHomeView(state *SharedState) *homeView {
	return &homeView{state: state}
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "u", "n":
			return v, startUpload(true)
		case "enter":
			return v, navigate(app.ViewProjects)
		}
	}
	return v, nil
}

func (v *homeView) View() string {
	url := ""
	if cfg := v.state.App.Config; cfg != nil {
		url = cfg.API.BaseURL
	}
	return formatter.FormatWelcome(url)
}

func (v *homeView) Title() string       { return "Home" }
func (v *homeView) CapturesInput() bool { return false }
func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "projects")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload PDF")),
	}
}
