package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_Create_AppliesDefaults(t *testing.T) {
	backend := newFakeBackend(sampleProject())
	svc := NewItemService(backend)

	created, err := svc.Create(context.Background(), "p1", domain.BacklogItem{Title: "  Refunds  "})
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Refunds", created.Title)
	assert.Equal(t, domain.TaskUserStory, created.TaskType)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, domain.StatusTodo, created.Status)
	assert.Equal(t, domain.UnassignedAgent, created.AssignedAgent)
	assert.Len(t, backend.projects["p1"].Backlog.Backlog, 4)
}

func TestItemService_Create_CanonicalizesEnums(t *testing.T) {
	svc := NewItemService(newFakeBackend(sampleProject()))

	created, err := svc.Create(context.Background(), "p1", domain.BacklogItem{
		Title:    "Crash on submit",
		TaskType: "Bug",
		Priority: "CRITICAL",
		Status:   "In-Progress",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskBug, created.TaskType)
	assert.Equal(t, domain.PriorityCritical, created.Priority)
	assert.Equal(t, domain.StatusInProgress, created.Status)
}

func TestItemService_Create_WithParent(t *testing.T) {
	svc := NewItemService(newFakeBackend(sampleProject()))

	created, err := svc.Create(context.Background(), "p1", domain.BacklogItem{
		Title:    "Saved cards",
		ParentID: domain.ItemID("1").Ptr(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.ParentID)
	assert.Equal(t, domain.ItemID("1"), *created.ParentID)
}

func TestItemService_Create_EmptyParentTreatedAsRoot(t *testing.T) {
	svc := NewItemService(newFakeBackend(sampleProject()))

	created, err := svc.Create(context.Background(), "p1", domain.BacklogItem{
		Title:    "Root item",
		ParentID: domain.ItemID("").Ptr(),
	})
	require.NoError(t, err)
	assert.Nil(t, created.ParentID)
}

func TestItemService_Validation(t *testing.T) {
	tests := []struct {
		name string
		item domain.BacklogItem
	}{
		{"missing title", domain.BacklogItem{Title: "   "}},
		{"negative hours", domain.BacklogItem{Title: "x", EstimatedHours: hours(-1)}},
		{"unknown parent", domain.BacklogItem{Title: "x", ParentID: domain.ItemID("42").Ptr()}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := newFakeBackend(sampleProject())
			svc := NewItemService(backend)

			_, err := svc.Create(context.Background(), "p1", tc.item)
			require.ErrorIs(t, err, ErrInvalidItem)
			assert.Len(t, backend.projects["p1"].Backlog.Backlog, 3, "nothing should be created")
		})
	}
}

func TestItemService_Update_RejectsSelfParent(t *testing.T) {
	svc := NewItemService(newFakeBackend(sampleProject()))

	_, err := svc.Update(context.Background(), "p1", domain.BacklogItem{
		ID:       "2",
		Title:    "Card form",
		ParentID: domain.ItemID("2").Ptr(),
	})
	require.ErrorIs(t, err, ErrInvalidItem)
	assert.Contains(t, err.Error(), "own parent")
}

func TestItemService_Update_RejectsDescendantParent(t *testing.T) {
	backend := newFakeBackend(sampleProject())
	svc := NewItemService(backend)

	// 3 is a grandchild of 1, so making it 1's parent would close a loop.
	_, err := svc.Update(context.Background(), "p1", domain.BacklogItem{
		ID:       "1",
		Title:    "Payments",
		ParentID: domain.ItemID("3").Ptr(),
	})
	require.ErrorIs(t, err, ErrInvalidItem)
	assert.Contains(t, err.Error(), "descendant")
	assert.Empty(t, backend.updated)
}

func TestItemService_Update_Reparent(t *testing.T) {
	backend := newFakeBackend(sampleProject())
	svc := NewItemService(backend)

	updated, err := svc.Update(context.Background(), "p1", domain.BacklogItem{
		ID:       "3",
		Title:    "Validate CVC",
		Status:   domain.StatusDone,
		ParentID: domain.ItemID("1").Ptr(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID("1"), *updated.ParentID)
	require.Len(t, backend.updated, 1)
}

func TestItemService_Update_RequiresID(t *testing.T) {
	_, err := NewItemService(newFakeBackend()).Update(context.Background(), "p1", domain.BacklogItem{Title: "x"})
	require.ErrorIs(t, err, ErrInvalidItem)
}

func TestItemService_Delete(t *testing.T) {
	backend := newFakeBackend(sampleProject())
	obs := &recordingObserver{}
	svc := NewItemService(backend, obs)

	require.NoError(t, svc.Delete(context.Background(), "3"))
	assert.Equal(t, []domain.ItemID{"3"}, backend.deleted)
	assert.Equal(t, "delete-item", obs.last().Name)

	require.ErrorIs(t, svc.Delete(context.Background(), ""), ErrInvalidItem)
}
