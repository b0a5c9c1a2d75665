package cli

import (
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sprint",
		Aliases: []string{"sprints"},
		Short:   "Inspect project sprints",
	}
	cmd.AddCommand(newSprintListCmd(app))
	return cmd
}

func newSprintListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's sprints",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprints, err := app.Projects.ListSprints(ctx, projectID)
			if err != nil {
				return err
			}
			if len(sprints) == 0 {
				fmt.Fprintln(out(cmd), "No sprints planned.")
				return nil
			}
			fmt.Fprintln(out(cmd), formatter.FormatSprints(sprints))
			return nil
		},
	}
}
