package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 requirements"), 0o644))
	return path
}

func generatedBacklog() *domain.ProjectBacklog {
	return &domain.ProjectBacklog{
		Project: "Inventory",
		Backlog: []domain.BacklogItem{
			{ID: "1", Title: "Stock levels", TaskType: domain.TaskEpic},
			{ID: "2", Title: "Low stock alert", ParentID: domain.ItemID("1").Ptr()},
		},
	}
}

func TestGenerateFromPDF_NewProject(t *testing.T) {
	backend := newFakeBackend()
	backend.analyzed = generatedBacklog()
	obs := &recordingObserver{}
	svc := NewGenerateService(backend, obs)
	path := writePDF(t, "inventory.pdf")

	p, err := svc.GenerateFromPDF(context.Background(), path, "")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Inventory", p.Name)
	assert.Equal(t, GeneratedDescription, p.Description)
	assert.Equal(t, GeneratedStatus, p.Status)
	assert.Len(t, p.Backlog.Backlog, 2)
	assert.Equal(t, path, backend.analyzedName)
	assert.Equal(t, []byte("%PDF-1.4 requirements"), backend.analyzedBody)

	ev := obs.last()
	assert.Equal(t, "generate-from-pdf", ev.Name)
	assert.Equal(t, 2, ev.Fields["item_count"])
}

func TestGenerateFromPDF_ReplacesExistingProject(t *testing.T) {
	backend := newFakeBackend(sampleProject())
	backend.analyzed = generatedBacklog()
	svc := NewGenerateService(backend)

	p, err := svc.GenerateFromPDF(context.Background(), writePDF(t, "v2.pdf"), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Len(t, backend.projects["p1"].Backlog.Backlog, 2)
}

func TestGenerateFromPDF_NameFallsBackToFileName(t *testing.T) {
	backend := newFakeBackend()
	backend.analyzed = &domain.ProjectBacklog{Backlog: []domain.BacklogItem{{ID: "1", Title: "x"}}}
	svc := NewGenerateService(backend)

	p, err := svc.GenerateFromPDF(context.Background(), writePDF(t, "Warehouse Spec.PDF"), "")
	require.NoError(t, err)
	assert.Equal(t, "Warehouse Spec", p.Name)
}

func TestGenerateFromPDF_SummaryOnlySaveKeepsGeneratedBacklog(t *testing.T) {
	backend := newFakeBackend()
	backend.analyzed = generatedBacklog()
	backend.summaryOnlySave = true
	svc := NewGenerateService(backend)

	p, err := svc.GenerateFromPDF(context.Background(), writePDF(t, "inv.pdf"), "")
	require.NoError(t, err)
	assert.Len(t, p.Backlog.Backlog, 2)
}

func TestGenerateFromPDF_RejectsNonPDF(t *testing.T) {
	backend := newFakeBackend()
	svc := NewGenerateService(backend)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	_, err := svc.GenerateFromPDF(context.Background(), path, "")
	require.ErrorIs(t, err, ErrNotPDF)
	assert.Nil(t, backend.analyzedBody, "backend must not be called")
}

func TestGenerateFromPDF_RejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.pdf")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := NewGenerateService(newFakeBackend()).GenerateFromPDF(context.Background(), dir, "")
	require.ErrorIs(t, err, ErrNotPDF)
}

func TestGenerateFromPDF_MissingFile(t *testing.T) {
	_, err := NewGenerateService(newFakeBackend()).GenerateFromPDF(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateFromPDF_AnalyzeFailureSkipsSave(t *testing.T) {
	backend := newFakeBackend()
	backend.AnalyzeErr = api.ErrUnavailable
	svc := NewGenerateService(backend)

	_, err := svc.GenerateFromPDF(context.Background(), writePDF(t, "a.pdf"), "")
	require.ErrorIs(t, err, api.ErrUnavailable)
	assert.Empty(t, backend.saved)
}

func TestGenerateFromPDF_SaveFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.analyzed = generatedBacklog()
	backend.SaveErr = errors.New("disk full")

	_, err := NewGenerateService(backend).GenerateFromPDF(context.Background(), writePDF(t, "a.pdf"), "")
	require.EqualError(t, err, "disk full")
}
