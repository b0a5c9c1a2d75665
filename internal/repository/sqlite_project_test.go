package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	story := testutil.NewTestItem("7", "Login")
	proj := testutil.NewTestProject("Portal",
		testutil.WithDescription("Generated from PDF"),
		testutil.WithAssignment("backend", story),
	)
	proj.Backlog.ExecutionPlan = map[string]domain.AgentPlan{
		"backend": {TotalHours: 8, Tasks: []domain.BacklogItem{story}, Artifacts: []domain.Artifact{}},
	}
	require.NoError(t, repo.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID)
	assert.False(t, proj.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portal", fetched.Name)
	assert.Equal(t, "Portal", fetched.Backlog.Project)
	assert.Equal(t, "Generated from PDF", fetched.Description)
	assert.Equal(t, "generated", fetched.Status)
	require.Len(t, fetched.Backlog.Assignments["backend"], 1)
	assert.Equal(t, "Login", fetched.Backlog.Assignments["backend"][0].Title)
	assert.InDelta(t, 8.0, fetched.Backlog.ExecutionPlan["backend"].TotalHours, 1e-9)
	assert.NotNil(t, fetched.Backlog.Backlog, "items are loaded separately but never nil")
	assert.True(t, proj.CreatedAt.Equal(fetched.CreatedAt))
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("B")))

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "A", projects[0].Name)
	assert.Equal(t, "B", projects[1].Name)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Draft")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "Final"
	proj.Status = "imported"
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", fetched.Name)
	assert.Equal(t, "imported", fetched.Status)

	missing := testutil.NewTestProject("Ghost")
	missing.ID = "404"
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestProjectRepo_TouchAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Temp")
	require.NoError(t, repo.Create(ctx, proj))

	require.NoError(t, repo.Touch(ctx, proj.ID))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	assert.ErrorIs(t, repo.Touch(ctx, proj.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, proj.ID), ErrNotFound)
}
