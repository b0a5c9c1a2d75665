package app

import (
	"errors"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Initial(t *testing.T) {
	s := NewNavigator().State()
	assert.Equal(t, ViewHome, s.View)
	assert.Equal(t, DefaultProjectName, s.ProjectName)
	assert.False(t, s.HasProject())
	assert.False(t, s.DialogOpen)
}

func TestNavigator_ProjectViewsNeedSelection(t *testing.T) {
	n := NewNavigator()
	require.NoError(t, n.Navigate(ViewProjects))

	assert.ErrorIs(t, n.Navigate(ViewBacklog), ErrNoProjectSelected)
	assert.ErrorIs(t, n.Navigate(ViewKanban), ErrNoProjectSelected)
	assert.Equal(t, ViewProjects, n.State().View, "rejected transition leaves state alone")

	assert.ErrorIs(t, n.Navigate("settings"), ErrUnknownView)
}

func TestNavigator_SelectProject(t *testing.T) {
	n := NewNavigator()
	n.Fail(errors.New("old"))

	require.NoError(t, n.SelectProject("7", "Shop"))
	s := n.State()
	assert.Equal(t, ViewBacklog, s.View)
	assert.Equal(t, "7", s.ProjectID)
	assert.Equal(t, "Shop", s.ProjectName)
	assert.NoError(t, s.Err)

	require.NoError(t, n.Navigate(ViewKanban))
	require.NoError(t, n.Navigate(ViewHome))
	require.NoError(t, n.Navigate(ViewBacklog), "selection survives navigation")

	assert.ErrorIs(t, n.SelectProject("", "x"), ErrNoProjectSelected)
	assert.Equal(t, "7", n.State().ProjectID)
}

func TestNavigator_OpenKanban(t *testing.T) {
	n := NewNavigator()
	require.NoError(t, n.OpenKanban("3", ""))
	assert.Equal(t, ViewKanban, n.State().View)
	assert.Equal(t, DefaultProjectName, n.State().ProjectName)
}

func TestNavigator_UploadFlow(t *testing.T) {
	n := NewNavigator()
	require.NoError(t, n.SelectProject("7", "Shop"))

	n.StartUpload(false)
	s := n.State()
	assert.Equal(t, ViewGenerator, s.View)
	assert.True(t, s.DialogOpen)
	assert.Equal(t, "7", s.ProjectID, "re-analysis keeps the project")

	n.StartUpload(true)
	s = n.State()
	assert.Empty(t, s.ProjectID)
	assert.Equal(t, NewProjectName, s.ProjectName)

	n.SetLoading(true)
	require.NoError(t, n.UploadSucceeded(&domain.Project{ID: "12", Name: "Payments"}))
	s = n.State()
	assert.Equal(t, ViewBacklog, s.View)
	assert.False(t, s.DialogOpen)
	assert.False(t, s.Loading)
	assert.Equal(t, "12", s.ProjectID)
	assert.Equal(t, "Payments", s.ProjectName)

	assert.ErrorIs(t, n.UploadSucceeded(&domain.Project{}), ErrNoProjectSelected)
}

func TestNavigator_Errors(t *testing.T) {
	n := NewNavigator()
	n.SetLoading(true)
	n.Fail(errors.New("boom"))
	assert.EqualError(t, n.State().Err, "boom")
	assert.False(t, n.State().Loading)

	n.ClearError()
	assert.NoError(t, n.State().Err)

	n.StartUpload(true)
	n.CloseDialog()
	assert.False(t, n.State().DialogOpen)
	assert.Equal(t, ViewGenerator, n.State().View)
}
