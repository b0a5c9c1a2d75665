package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"kanban"},
		Short:   "Show and update the kanban board",
	}
	cmd.AddCommand(
		newBoardShowCmd(app),
		newBoardMoveCmd(app),
	)
	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print the board's To Do, In Progress and Done columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			bv, err := app.Boards.Load(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatBoardView(bv, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Total board width in columns (default 96)")
	return cmd
}

func formatBoardView(bv *service.BoardView, width int) string {
	var b strings.Builder
	b.WriteString(formatter.Header(bv.Project.DisplayName()) + "\n")
	b.WriteString(formatter.FormatSummary(service.Summarize(bv.Project.Backlog)) + "\n\n")
	b.WriteString(formatter.FormatBoard(bv.Board, formatter.BoardOptions{Width: width, Focus: -1, Cursor: -1}) + "\n")
	if len(bv.Sprints) > 0 {
		b.WriteString("\n" + formatter.FormatSprints(bv.Sprints) + "\n")
	}
	return b.String()
}

func newBoardMoveCmd(app *App) *cobra.Command {
	var projectArg string
	var index int

	cmd := &cobra.Command{
		Use:   "move ITEM_ID COLUMN",
		Short: "Move a card to another column",
		Long: `Move a card to the todo, in_progress or done column. Moving a card to a
different column saves its new status; moving within a column only
changes its position on this board.`,
		Example: `  autobacklog board move 12 done --project "Shop"
  autobacklog board move 7 in_progress -p shop --index 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ItemID(strings.TrimPrefix(args[0], "#"))
			to, err := board.ParseColumn(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, projectArg)
			if err != nil {
				return err
			}
			bv, err := app.Boards.Load(ctx, projectID)
			if err != nil {
				return err
			}
			from, _, ok := bv.Board.Locate(id)
			if !ok {
				return fmt.Errorf("item #%s in %s: %w", id, bv.Project.DisplayName(), board.ErrItemNotFound)
			}

			if index < 0 {
				index = bv.Board.Len(to)
			}
			_, change, err := app.Boards.MoveCard(ctx, bv.Board, id, to, index)
			if err != nil {
				return err
			}
			if change == nil {
				fmt.Fprintf(out(cmd), "#%s is already in %s\n", id, from.Title())
				return nil
			}
			fmt.Fprintf(out(cmd), "%s Moved #%s from %s to %s\n",
				formatter.StyleGreen.Render("✔"), id, change.From.Title(), change.To.Title())
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectArg, "project", "p", "", "Project the item belongs to (ID or name)")
	cmd.Flags().IntVar(&index, "index", -1, "Position in the target column (default: end)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
