package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type boardLoadedMsg struct {
	projectID string
	view      *service.BoardView
	err       error
}

// cardMovedMsg reports a persisted cross-column move. On error board is
// the board as it was before the move.
type cardMovedMsg struct {
	id     domain.ItemID
	board  board.Board
	change *board.Change
	err    error
}

// kanbanView shows the project's items in To Do / In Progress / Done
// columns. A card is picked up with space, carried with the arrow keys and
// dropped with space again.
type kanbanView struct {
	state     *SharedState
	projectID string
	view      *service.BoardView
	board     board.Board
	focus     board.Column
	cursor    int
	holding   bool
	busy      bool // a move is being saved
	loading   bool
	err       error
}

func newKanbanView(state *SharedState) *kanbanView {
	return &kanbanView{
		state:     state,
		projectID: state.Nav.State().ProjectID,
		loading:   true,
	}
}

func (v *kanbanView) Title() string       { return "Kanban" }
func (v *kanbanView) CapturesInput() bool { return false }

func (v *kanbanView) ShortHelp() []key.Binding {
	if v.holding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "move column")),
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "reorder")),
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "drop")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "column")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *kanbanView) Init() tea.Cmd {
	return v.load()
}

func (v *kanbanView) load() tea.Cmd {
	boards := v.state.App.Boards
	id := v.projectID
	return func() tea.Msg {
		bv, err := boards.Load(context.Background(), id)
		return boardLoadedMsg{projectID: id, view: bv, err: err}
	}
}

func (v *kanbanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if msg.projectID != v.projectID {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.view = msg.view
			v.board = msg.view.Board
			v.holding = false
			v.clampCursor()
		}
		return v, nil

	case cardMovedMsg:
		v.busy = false
		v.board = msg.board
		if msg.err != nil {
			v.follow(msg.id)
			return v, fail(msg.err)
		}
		v.follow(msg.id)
		if msg.change != nil {
			v.replaceItem(msg.change.Item)
			return v, status(fmt.Sprintf("%s Moved #%s to %s",
				formatter.StyleGreen.Render("✔"), msg.id, msg.change.To.Title()))
		}
		return v, nil

	case refreshViewMsg:
		if v.busy || v.holding {
			return v, nil
		}
		return v, v.load()

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		if v.loading || v.view == nil {
			if msg.String() == "r" {
				v.loading = true
				return v, v.load()
			}
			return v, nil
		}
		if v.holding {
			return v.updateHolding(msg)
		}
		return v.updateBrowsing(msg)
	}
	return v, nil
}

func (v *kanbanView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if v.focus > board.ColumnTodo {
			v.focus--
			v.clampCursor()
		}
	case "right", "l":
		if v.focus < board.ColumnDone {
			v.focus++
			v.clampCursor()
		}
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.board.Len(v.focus)-1 {
			v.cursor++
		}
	case " ", "enter":
		if _, ok := v.selected(); ok {
			v.holding = true
		}
	case "e":
		if it, ok := v.selected(); ok {
			return v, editItemDialog(v.state, v.projectID, v.view.Project.Backlog.Backlog, it)
		}
	case "r":
		v.loading = true
		return v, v.load()
	}
	return v, nil
}

func (v *kanbanView) updateHolding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	it, ok := v.selected()
	if !ok {
		v.holding = false
		return v, nil
	}

	switch msg.String() {
	case "left", "h":
		if v.focus > board.ColumnTodo {
			return v, v.moveCard(it.ID, v.focus-1)
		}
	case "right", "l":
		if v.focus < board.ColumnDone {
			return v, v.moveCard(it.ID, v.focus+1)
		}
	case "up", "k":
		if v.cursor > 0 {
			v.reorder(it.ID, v.cursor-1)
		}
	case "down", "j":
		if v.cursor < v.board.Len(v.focus)-1 {
			v.reorder(it.ID, v.cursor+1)
		}
	case " ", "enter", "esc":
		v.holding = false
	}
	return v, nil
}

// moveCard saves a move to the end of the adjacent column. The card stays
// picked up so it can be carried further.
func (v *kanbanView) moveCard(id domain.ItemID, to board.Column) tea.Cmd {
	v.busy = true
	boards := v.state.App.Boards
	b := v.board
	index := b.Len(to)
	return func() tea.Msg {
		nb, change, err := boards.MoveCard(context.Background(), b, id, to, index)
		return cardMovedMsg{id: id, board: nb, change: change, err: err}
	}
}

// reorder moves a card within its column. Order is a display concern only,
// so nothing is saved.
func (v *kanbanView) reorder(id domain.ItemID, index int) {
	nb, _, err := v.board.Move(id, v.focus, index)
	if err != nil {
		return
	}
	v.board = nb
	v.follow(id)
}

func (v *kanbanView) selected() (domain.BacklogItem, bool) {
	cards := v.board.Cards(v.focus)
	if v.cursor < 0 || v.cursor >= len(cards) {
		return domain.BacklogItem{}, false
	}
	return cards[v.cursor], true
}

// follow puts the focus on the card with the given id.
func (v *kanbanView) follow(id domain.ItemID) {
	if c, i, ok := v.board.Locate(id); ok {
		v.focus = c
		v.cursor = i
	}
	v.clampCursor()
}

func (v *kanbanView) clampCursor() {
	v.cursor = max(0, min(v.cursor, v.board.Len(v.focus)-1))
}

func (v *kanbanView) replaceItem(it domain.BacklogItem) {
	items := v.view.Project.Backlog.Backlog
	for i := range items {
		if items[i].ID == it.ID {
			items[i] = it
			return
		}
	}
}

func (v *kanbanView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading board...")
	}
	if v.err != nil {
		return "\n  " + shellError(v.err) + "\n  " + formatter.Dim("r: retry")
	}

	var b strings.Builder
	b.WriteString("\n")

	sum := service.Summarize(v.view.Project.Backlog)
	b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Bold(v.view.Project.DisplayName()), formatter.RenderProgress(sum.ProgressPct, 20)))
	b.WriteString("\n")

	cursor := v.cursor
	if v.board.Len(v.focus) == 0 {
		cursor = -1
	}
	width := v.state.Width - 2
	boardStr := formatter.FormatBoard(v.board, formatter.BoardOptions{
		Width:   width,
		Focus:   v.focus,
		Cursor:  cursor,
		Holding: v.holding,
	})
	for _, line := range strings.Split(boardStr, "\n") {
		b.WriteString("  " + line + "\n")
	}

	if len(v.view.Sprints) > 0 {
		names := make([]string, 0, len(v.view.Sprints))
		for _, s := range v.view.Sprints {
			label := formatter.Bold(s.Name)
			if s.Status != "" {
				label += " " + formatter.Dim("("+s.Status+")")
			}
			names = append(names, label)
		}
		b.WriteString("\n  " + formatter.Dim("Sprints: ") + strings.Join(names, formatter.Dim(" · ")) + "\n")
	}
	if v.busy {
		b.WriteString("\n  " + formatter.Dim("Saving...") + "\n")
	}
	return b.String()
}
