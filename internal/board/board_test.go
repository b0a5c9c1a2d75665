package board

import (
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id string, status domain.ItemStatus) domain.BacklogItem {
	return domain.BacklogItem{ID: domain.ItemID(id), Status: status, Title: "card " + id}
}

func cardIDs(b Board, c Column) []string {
	var out []string
	for _, it := range b.Cards(c) {
		out = append(out, string(it.ID))
	}
	return out
}

func sampleBoard() Board {
	return New([]domain.BacklogItem{
		card("1", domain.StatusTodo),
		card("2", domain.StatusInProgress),
		card("3", domain.StatusDone),
		card("4", domain.StatusBlocked),
		card("5", domain.StatusVerified),
		card("6", ""),
		card("7", "in_progress"),
	})
}

func TestNew_DistributesByStatus(t *testing.T) {
	b := sampleBoard()
	assert.Equal(t, []string{"1", "4", "6"}, cardIDs(b, ColumnTodo))
	assert.Equal(t, []string{"2", "7"}, cardIDs(b, ColumnInProgress))
	assert.Equal(t, []string{"3", "5"}, cardIDs(b, ColumnDone))
}

func TestMove_AcrossColumns(t *testing.T) {
	b := sampleBoard()
	next, change, err := b.Move("1", ColumnDone, 0)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, ColumnTodo, change.From)
	assert.Equal(t, ColumnDone, change.To)
	assert.Equal(t, domain.StatusDone, change.Item.Status)
	assert.Equal(t, []string{"1", "3", "5"}, cardIDs(next, ColumnDone))
	assert.Equal(t, []string{"4", "6"}, cardIDs(next, ColumnTodo))

	// The original board is untouched.
	assert.Equal(t, []string{"1", "4", "6"}, cardIDs(b, ColumnTodo))
	assert.Equal(t, domain.StatusTodo, b.Cards(ColumnTodo)[0].Status)
}

func TestMove_WithinColumnReordersOnly(t *testing.T) {
	next, change, err := sampleBoard().Move("1", ColumnTodo, 2)
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.Equal(t, []string{"4", "6", "1"}, cardIDs(next, ColumnTodo))
}

func TestMove_ClampsIndex(t *testing.T) {
	b := sampleBoard()
	next, _, err := b.Move("3", ColumnInProgress, 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "7", "3"}, cardIDs(next, ColumnInProgress))

	next, _, err = b.Move("3", ColumnInProgress, -4)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "7"}, cardIDs(next, ColumnInProgress))
}

func TestMove_UnknownItem(t *testing.T) {
	_, _, err := sampleBoard().Move("nope", ColumnDone, 0)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMove_InvalidColumn(t *testing.T) {
	_, _, err := sampleBoard().Move("1", Column(7), 0)
	assert.Error(t, err)
}

func TestParseColumn(t *testing.T) {
	for in, want := range map[string]Column{
		"todo":        ColumnTodo,
		"in_progress": ColumnInProgress,
		"In Progress": ColumnInProgress,
		"DONE":        ColumnDone,
	} {
		got, err := ParseColumn(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColumn("blocked")
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	c, i, ok := sampleBoard().Locate("7")
	require.True(t, ok)
	assert.Equal(t, ColumnInProgress, c)
	assert.Equal(t, 1, i)
}
