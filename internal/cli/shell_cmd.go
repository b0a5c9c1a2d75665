package cli

import (
	"github.com/alexanderramin/autobacklog/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	var projectArg string

	cmd := &cobra.Command{
		Use:     "shell",
		Aliases: []string{"tui", "ui"},
		Short:   "Open the full-screen interface",
		Long: `Open the full-screen interface: browse projects, generate a backlog from a
PDF, edit items in the backlog tree and move cards across the kanban board.

Use --project to open a project's backlog directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var start *domain.Project
			if projectArg != "" {
				id, err := resolveProjectID(cmd.Context(), app, projectArg)
				if err != nil {
					return err
				}
				p, err := app.Projects.Open(cmd.Context(), id)
				if err != nil {
					return err
				}
				start = p
			}
			return runShell(app, start)
		},
	}

	cmd.Flags().StringVarP(&projectArg, "project", "p", "", "project to open (ID or name)")
	return cmd
}

// runShell runs the TUI until the user quits. A non-nil start opens that
// project's backlog instead of the home screen.
func runShell(app *App, start *domain.Project) error {
	m := newAppModel(app)
	if start != nil {
		if err := m.state.Nav.SelectProject(start.ID, start.DisplayName()); err != nil {
			return err
		}
		m.views[m.state.Nav.State().View] = newBacklogView(m.state)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
