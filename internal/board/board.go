// Package board models the three-column kanban view of a project backlog.
// Boards are values: Move returns a new board and leaves the receiver as is.
package board

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// ErrItemNotFound is returned by Move when no card carries the given id.
var ErrItemNotFound = errors.New("item not on board")

// Column is one lane of the board.
type Column int

const (
	ColumnTodo Column = iota
	ColumnInProgress
	ColumnDone
)

// Columns lists the lanes in display order.
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

func (c Column) String() string {
	switch c {
	case ColumnTodo:
		return "todo"
	case ColumnInProgress:
		return "in_progress"
	case ColumnDone:
		return "done"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// Title is the column heading shown to users.
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	default:
		return c.String()
	}
}

// Status is the item status a card takes when dropped into the column.
func (c Column) Status() domain.ItemStatus {
	switch c {
	case ColumnInProgress:
		return domain.StatusInProgress
	case ColumnDone:
		return domain.StatusDone
	default:
		return domain.StatusTodo
	}
}

func (c Column) valid() bool {
	return c >= ColumnTodo && c <= ColumnDone
}

// ParseColumn accepts a column name or any status spelling that maps to it.
func ParseColumn(s string) (Column, error) {
	switch domain.ParseItemStatus(s) {
	case domain.StatusTodo:
		return ColumnTodo, nil
	case domain.StatusInProgress:
		return ColumnInProgress, nil
	case domain.StatusDone:
		return ColumnDone, nil
	}
	return ColumnTodo, fmt.Errorf("unknown column %q (want todo, in_progress or done)", s)
}

// ColumnFor returns the lane an item with the given status belongs in.
// Blocked and unrecognized statuses land in todo; verified counts as done.
func ColumnFor(s domain.ItemStatus) Column {
	switch domain.ParseItemStatus(string(s)) {
	case domain.StatusInProgress:
		return ColumnInProgress
	case domain.StatusDone, domain.StatusVerified:
		return ColumnDone
	default:
		return ColumnTodo
	}
}

// Board holds the cards of each column in display order.
type Board struct {
	cards [3][]domain.BacklogItem
}

// Change describes a card that moved to a different column. Item carries
// the updated status and is what callers persist.
type Change struct {
	ItemID domain.ItemID
	From   Column
	To     Column
	Item   domain.BacklogItem
}

// New distributes items across the columns by status, keeping input order.
func New(items []domain.BacklogItem) Board {
	var b Board
	for _, it := range items {
		c := ColumnFor(it.Status)
		b.cards[c] = append(b.cards[c], it)
	}
	return b
}

// Cards returns a copy of the cards in column c.
func (b Board) Cards(c Column) []domain.BacklogItem {
	if !c.valid() {
		return nil
	}
	out := make([]domain.BacklogItem, len(b.cards[c]))
	copy(out, b.cards[c])
	return out
}

// Len returns the number of cards in column c.
func (b Board) Len(c Column) int {
	if !c.valid() {
		return 0
	}
	return len(b.cards[c])
}

// Locate returns the column and position of the card with the given id.
func (b Board) Locate(id domain.ItemID) (Column, int, bool) {
	for _, c := range Columns {
		for i, it := range b.cards[c] {
			if it.ID == id {
				return c, i, true
			}
		}
	}
	return ColumnTodo, 0, false
}

// Move places the card with the given id at index within column to. The
// index is clamped to the column bounds. Moving within a column only
// reorders and returns a nil Change.
func (b Board) Move(id domain.ItemID, to Column, index int) (Board, *Change, error) {
	if !to.valid() {
		return b, nil, fmt.Errorf("move %s: invalid column %d", id, int(to))
	}
	from, pos, ok := b.Locate(id)
	if !ok {
		return b, nil, fmt.Errorf("move %s: %w", id, ErrItemNotFound)
	}

	next := b.clone()
	card := next.cards[from][pos]
	next.cards[from] = append(next.cards[from][:pos], next.cards[from][pos+1:]...)

	index = max(0, min(index, len(next.cards[to])))
	var change *Change
	if from != to {
		card.Status = to.Status()
		change = &Change{ItemID: id, From: from, To: to, Item: card}
	}
	next.cards[to] = insertAt(next.cards[to], index, card)
	return next, change, nil
}

func (b Board) clone() Board {
	var out Board
	for _, c := range Columns {
		out.cards[c] = make([]domain.BacklogItem, len(b.cards[c]))
		copy(out.cards[c], b.cards[c])
	}
	return out
}

func insertAt(s []domain.BacklogItem, i int, v domain.BacklogItem) []domain.BacklogItem {
	s = append(s, domain.BacklogItem{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
