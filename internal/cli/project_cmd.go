package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/alexanderramin/autobacklog/internal/importer"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectImportCmd(app),
		newProjectExportCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(out(cmd), "No projects found.")
				return nil
			}
			fmt.Fprintln(out(cmd), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

// projectShowJSON is the machine-readable form of `project show`.
type projectShowJSON struct {
	ID            string                          `json:"id"`
	Name          string                          `json:"name"`
	Description   string                          `json:"description,omitempty"`
	Status        string                          `json:"status,omitempty"`
	CreatedAt     *time.Time                      `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time                      `json:"updatedAt,omitempty"`
	Tree          []*hierarchy.Node               `json:"tree"`
	Assignments   map[string][]domain.BacklogItem `json:"assignments"`
	ExecutionPlan map[string]domain.AgentPlan     `json:"executionPlan"`
	Sprints       []domain.Sprint                 `json:"sprints"`
}

func newProjectShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show a project's backlog tree, assignments and execution plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, sprints, err := loadProjectWithSprints(ctx, app, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				p.Backlog.Normalize()
				doc := projectShowJSON{
					ID:            p.ID,
					Name:          p.DisplayName(),
					Description:   p.Description,
					Status:        p.Status,
					CreatedAt:     timePtr(p.CreatedAt),
					UpdatedAt:     timePtr(p.UpdatedAt),
					Tree:          hierarchy.Build(p.Backlog.Backlog),
					Assignments:   p.Backlog.Assignments,
					ExecutionPlan: p.Backlog.ExecutionPlan,
					Sprints:       sprints,
				}
				enc := json.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}

			fmt.Fprint(out(cmd), formatter.FormatProjectShow(formatter.ProjectShowData{Project: p, Sprints: sprints}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the project as JSON")

	return cmd
}

// loadProjectWithSprints resolves input and fetches the project and its
// sprints. A backend without a sprints endpoint yields no sprints.
func loadProjectWithSprints(ctx context.Context, app *App, input string) (*domain.Project, []domain.Sprint, error) {
	projectID, err := resolveProjectID(ctx, app, input)
	if err != nil {
		return nil, nil, err
	}
	p, err := app.Projects.Open(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	sprints, err := app.Projects.ListSprints(ctx, projectID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, nil, err
	}
	if sprints == nil {
		sprints = []domain.Sprint{}
	}
	return p, sprints, nil
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON or YAML backlog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := out(cmd)
			for _, warn := range result.Warnings {
				fmt.Fprintf(w, "%s %s\n", formatter.StyleYellow.Render("warning:"), warn.String())
			}
			fmt.Fprintf(w, "%s Imported project %s [%s] with %d items\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(result.Project.DisplayName()),
				result.Project.ID,
				result.ItemCount)
			return nil
		},
	}
}

func newProjectExportCmd(app *App) *cobra.Command {
	var formatStr, output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a project's backlog as JSON or YAML",
		Long: `Write a project's backlog in the same shape the backend returns from PDF
analysis. The file can be edited and brought back with 'project import'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exportFormat(cmd, formatStr, output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Open(ctx, projectID)
			if err != nil {
				return err
			}
			b := p.Backlog
			b.Project = domain.CoalesceStr(b.Project, p.DisplayName())
			b.Normalize()

			var w io.Writer = out(cmd)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := importer.Export(w, &b, format); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(out(cmd), "%s Exported %d items to %s\n",
					formatter.StyleGreen.Render("✔"), len(b.Backlog), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "", "Output format: json or yaml (default from --output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to FILE instead of stdout")

	return cmd
}

// exportFormat prefers an explicit --format, then the output extension.
func exportFormat(cmd *cobra.Command, formatStr, output string) (importer.Format, error) {
	if cmd.Flags().Changed("format") {
		return importer.ParseFormat(formatStr)
	}
	if output != "" {
		return importer.FormatFromPath(output)
	}
	return importer.FormatJSON, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
