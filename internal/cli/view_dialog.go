package cli

import (
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// dialogView wraps a huh.Form shown on top of the current screen. When the
// form completes it sends a dialogCompleteMsg carrying the done callback's
// command; Esc cancels without calling done.
type dialogView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
}

func newDialogView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *dialogView {
	return &dialogView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *dialogView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *dialogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, cancelDialog()
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		var doneCmd tea.Cmd
		if v.done != nil {
			doneCmd = v.done()
		}
		// A completed form has nothing left to run; its own command is
		// dropped so it cannot end the program.
		return v, func() tea.Msg { return dialogCompleteMsg{nextCmd: doneCmd} }
	case huh.StateAborted:
		return v, cancelDialog()
	}
	return v, cmd
}

func cancelDialog() tea.Cmd {
	return func() tea.Msg {
		return dialogCompleteMsg{nextCmd: status(formatter.Dim("Cancelled."))}
	}
}

func (v *dialogView) View() string {
	return formatter.StyleHeader.Render(v.titleStr) + "\n\n" + v.form.View()
}

func (v *dialogView) Title() string       { return v.titleStr }
func (v *dialogView) CapturesInput() bool { return true }
func (v *dialogView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
