package cli

import (
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:     "upload FILE.pdf",
		Aliases: []string{"generate"},
		Short:   "Generate a backlog from a requirements PDF",
		Long: `Send a requirements PDF to the backend for analysis and save the generated
backlog. With --project the existing project's backlog is replaced instead
of creating a new project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			projectID := ""
			if projectFlag != "" {
				id, err := resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
				projectID = id
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing "+args[0]+"...")
			}
			p, err := app.Generate.GenerateFromPDF(ctx, args[0], projectID)
			stop()
			if err != nil {
				return err
			}

			verb := "Generated"
			if projectID != "" {
				verb = "Re-analyzed"
			}
			w := out(cmd)
			fmt.Fprintf(w, "%s %s project %s [%s]\n",
				formatter.StyleGreen.Render("✔"), verb, formatter.Bold(p.DisplayName()), p.ID)
			fmt.Fprintln(w, formatter.FormatSummary(service.Summarize(p.Backlog)))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Replace this project's backlog instead of creating a project")

	return cmd
}
