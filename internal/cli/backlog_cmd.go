package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/alexanderramin/autobacklog/internal/importer"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/alexanderramin/autobacklog/internal/watch"
	"github.com/spf13/cobra"
)

func newBacklogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backlog",
		Aliases: []string{"b", "item"},
		Short:   "Browse and edit backlog items",
	}

	cmd.AddCommand(
		newBacklogTreeCmd(app),
		newBacklogAddCmd(app),
		newBacklogEditCmd(app),
		newBacklogRemoveCmd(app),
		newBacklogWatchCmd(app),
	)

	return cmd
}

func newBacklogTreeCmd(app *App) *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "tree ID",
		Short: "Show a project's backlog as a hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Open(ctx, projectID)
			if err != nil {
				return err
			}

			w := out(cmd)
			if len(p.Backlog.Backlog) == 0 {
				fmt.Fprintln(w, "No backlog items.")
				return nil
			}
			if flat {
				fmt.Fprint(w, formatter.FormatBacklogFlat(p.Backlog.Backlog))
				return nil
			}
			rows := hierarchy.Flatten(hierarchy.Build(p.Backlog.Backlog), nil)
			fmt.Fprint(w, formatter.RenderTree(rows, formatter.TreeOptions{Cursor: -1}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Print a table instead of a tree")

	return cmd
}

// itemFlags are the editable item fields shared by add and edit. Only flags
// the user actually set are applied.
type itemFlags struct {
	title       string
	description string
	taskType    string
	priority    string
	status      string
	parent      string
	agent       string
	sprint      string
	hours       float64
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Item title")
	fl.StringVar(&f.description, "description", "", "Item description")
	fl.StringVar(&f.taskType, "type", "", "Task type: epic, feature, user_story, task or bug")
	fl.StringVar(&f.priority, "priority", "", "Priority: critical, high, medium or low")
	fl.StringVar(&f.status, "status", "", "Status: todo, in progress, done, verified or blocked")
	fl.StringVar(&f.parent, "parent", "", "Parent item id (\"none\" makes the item a root)")
	fl.StringVar(&f.agent, "agent", "", "Assigned agent")
	fl.StringVar(&f.sprint, "sprint", "", "Suggested sprint name")
	fl.Float64Var(&f.hours, "hours", 0, "Estimated hours")
}

func (f *itemFlags) apply(cmd *cobra.Command, it *domain.BacklogItem) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		it.Title = f.title
	}
	if changed("description") {
		it.Description = f.description
	}
	if changed("type") {
		t := domain.ParseTaskType(f.taskType)
		if !t.Known() {
			return fmt.Errorf("unknown type %q (want epic, feature, user_story, task or bug)", f.taskType)
		}
		it.TaskType = t
	}
	if changed("priority") {
		p := domain.ParsePriority(f.priority)
		if !p.Known() {
			return fmt.Errorf("unknown priority %q (want critical, high, medium or low)", f.priority)
		}
		it.Priority = p
	}
	if changed("status") {
		s := domain.ParseItemStatus(f.status)
		if !s.Known() {
			return fmt.Errorf("unknown status %q (want todo, in progress, done, verified or blocked)", f.status)
		}
		it.Status = s
	}
	if changed("parent") {
		switch parent := strings.TrimPrefix(strings.TrimSpace(f.parent), "#"); strings.ToLower(parent) {
		case "", "none":
			it.ParentID = nil
		default:
			it.ParentID = domain.ItemID(parent).Ptr()
		}
	}
	if changed("agent") {
		it.AssignedAgent = f.agent
	}
	if changed("sprint") {
		it.SuggestedSprintName = f.sprint
	}
	if changed("hours") {
		h := f.hours
		it.EstimatedHours = &h
	}
	return nil
}

func newBacklogAddCmd(app *App) *cobra.Command {
	var flags itemFlags

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add an item to a project's backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var item domain.BacklogItem
			if err := flags.apply(cmd, &item); err != nil {
				return err
			}
			created, err := app.Items.Create(ctx, projectID, item)
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "%s Added %s #%s %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.TypeBadge(created.TaskType),
				created.ID,
				formatter.Bold(created.Title))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newBacklogEditCmd(app *App) *cobra.Command {
	var (
		flags       itemFlags
		projectFlag string
	)

	cmd := &cobra.Command{
		Use:   "edit ITEM_ID",
		Short: "Change fields of a backlog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, projectFlag)
			if err != nil {
				return err
			}
			p, err := app.Projects.Open(ctx, projectID)
			if err != nil {
				return err
			}
			item, err := findItem(p, domain.ItemID(strings.TrimPrefix(args[0], "#")))
			if err != nil {
				return err
			}

			if err := flags.apply(cmd, &item); err != nil {
				return err
			}
			updated, err := app.Items.Update(ctx, projectID, item)
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "%s Updated #%s %s\n",
				formatter.StyleGreen.Render("✔"), updated.ID, formatter.Bold(updated.Title))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&projectFlag, "project", "", "Project the item belongs to")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newBacklogRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ITEM_ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a backlog item",
		Long:    "Delete a backlog item. Its children stay in the backlog as root items.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ItemID(strings.TrimPrefix(args[0], "#"))

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete #%s without --yes in a non-interactive session", id)
				}
				confirmed := false
				if err := deleteConfirmForm(id, "", &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					return ErrAborted
				}
			}

			if err := app.Items.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s Deleted #%s\n", formatter.StyleGreen.Render("✔"), id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newBacklogWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a backlog file every time it changes",
		Long: `Watch a JSON or YAML backlog file and print its tree, progress and
validation problems after every save. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			clearScreen := app.interactive()
			name := filepath.Base(args[0])

			return watch.Watch(cmd.Context(), args[0], func(b *domain.ProjectBacklog, err error) {
				if clearScreen {
					fmt.Fprint(w, "\033[H\033[2J")
				}
				stamp := formatter.Dim(time.Now().Format("15:04:05"))
				if err != nil {
					fmt.Fprintf(w, "%s %s %s\n", stamp, formatter.StyleRed.Render("error:"), err)
					return
				}
				fmt.Fprintf(w, "%s %s %s\n", stamp, formatter.Bold(name), formatter.Dim(b.Project))
				fmt.Fprintln(w, formatter.FormatSummary(service.Summarize(*b)))
				rows := hierarchy.Flatten(hierarchy.Build(b.Backlog), nil)
				fmt.Fprint(w, formatter.RenderTree(rows, formatter.TreeOptions{Cursor: -1}))

				errs, warnings := importer.ValidateBacklog(b)
				for _, e := range errs {
					fmt.Fprintf(w, "%s %s\n", formatter.StyleRed.Render("error:"), e)
				}
				for _, warn := range warnings {
					fmt.Fprintf(w, "%s %s\n", formatter.StyleYellow.Render("warning:"), warn.String())
				}
			})
		},
	}
}
