package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(New(testutil.NewTestDB(t), opts...).Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(api.Config{BaseURL: srv.URL}, nil), srv
}

func sampleProject() *domain.Project {
	return testutil.NewTestProject("Storefront",
		testutil.WithDescription("Generated from PDF"),
		testutil.WithItems(
			testutil.NewTestItem("1", "Catalog", testutil.WithTaskType(domain.TaskEpic), testutil.WithSprint("Sprint 1"), testutil.WithAgent("backend")),
			testutil.NewTestItem("2", "Search", testutil.WithParent("1"), testutil.WithSprint("Sprint 2"), testutil.WithHours(5)),
			testutil.NewTestItem("3", "Filters", testutil.WithParent("2"), testutil.WithSprint("Sprint 1")),
		),
		testutil.WithAssignment("backend", testutil.NewTestItem("1", "Catalog")),
	)
}

func TestServer_SaveAndGetProject(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	saved, err := client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Storefront", saved.Name)
	assert.Equal(t, "Generated from PDF", saved.Description)
	require.Len(t, saved.Backlog.Backlog, 3)

	got, err := client.GetProject(ctx, saved.ID)
	require.NoError(t, err)
	items := got.Backlog.Backlog
	require.Len(t, items, 3)

	// Parent links follow the stored ids.
	require.NotNil(t, items[1].ParentID)
	assert.Equal(t, items[0].ID, *items[1].ParentID)
	require.NotNil(t, items[2].ParentID)
	assert.Equal(t, items[1].ID, *items[2].ParentID)

	// Assignments are rewritten to the stored ids as well.
	require.Len(t, got.Backlog.Assignments["backend"], 1)
	assert.Equal(t, items[0].ID, got.Backlog.Assignments["backend"][0].ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestServer_ListProjects(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	empty, err := client.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)
	_, err = client.SaveProject(ctx, testutil.NewTestProject("Second"))
	require.NoError(t, err)

	projects, err := client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Storefront", projects[0].Name)
	assert.Empty(t, projects[0].Backlog.Backlog, "list returns summaries")
}

func TestServer_UpdateProjectReplacesBacklog(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	saved, err := client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)

	replacement := testutil.NewTestProject("Storefront v2", testutil.WithItems(testutil.NewTestItem("1", "Only item")))
	replacement.ID = saved.ID
	updated, err := client.SaveProject(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Storefront v2", updated.Name)
	require.Len(t, updated.Backlog.Backlog, 1)
	assert.Equal(t, "Only item", updated.Backlog.Backlog[0].Title)
	assert.True(t, saved.CreatedAt.Equal(updated.CreatedAt))
}

func TestServer_UpdateUnknownProject(t *testing.T) {
	client, _ := newTestServer(t)

	p := testutil.NewTestProject("Ghost")
	p.ID = "404"
	_, err := client.SaveProject(context.Background(), p)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestServer_GetProjectNotFound(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.GetProject(context.Background(), "12345")
	require.ErrorIs(t, err, api.ErrNotFound)

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Message, "not found")
}

func TestServer_SprintsDerivedFromItems(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	saved, err := client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)

	sprints, err := client.ListSprints(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, sprints, 2)
	assert.Equal(t, "Sprint 1", sprints[0].Name)
	assert.Equal(t, "Sprint 2", sprints[1].Name)
	assert.Equal(t, "planned", sprints[0].Status)
	assert.NotEmpty(t, sprints[0].ID)

	// Adding an item with a new sprint keeps the existing sprint ids.
	_, err = client.CreateItem(ctx, saved.ID, testutil.NewTestItem("", "Checkout", testutil.WithSprint("Sprint 3")))
	require.NoError(t, err)

	again, err := client.ListSprints(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, sprints[0].ID, again[0].ID)
	assert.Equal(t, sprints[1].ID, again[1].ID)
	assert.Equal(t, "Sprint 3", again[2].Name)
}

func TestServer_SprintsUnknownProject(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.ListSprints(context.Background(), "99")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestServer_ItemLifecycle(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	saved, err := client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)
	root := saved.Backlog.Backlog[0]

	created, err := client.CreateItem(ctx, saved.ID, testutil.NewTestItem("", "Wishlist", testutil.WithParent(root.ID)))
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, root.ID, *created.ParentID)

	created.Title = "Wishlist sharing"
	created.Status = domain.StatusInProgress
	updated, err := client.UpdateItem(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "Wishlist sharing", updated.Title)
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	require.NoError(t, client.DeleteItem(ctx, created.ID))
	err = client.DeleteItem(ctx, created.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)

	got, err := client.GetProject(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, got.Backlog.Backlog, 3)
	assert.False(t, got.UpdatedAt.Before(saved.UpdatedAt))
}

func TestServer_ItemValidation(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	saved, err := client.SaveProject(ctx, sampleProject())
	require.NoError(t, err)

	_, err = client.CreateItem(ctx, saved.ID, domain.BacklogItem{Title: " "})
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "title is required", se.Message)

	_, err = client.CreateItem(ctx, saved.ID, testutil.NewTestItem("", "Orphan", testutil.WithParent("987654")))
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)

	_, err = client.CreateItem(ctx, "555", testutil.NewTestItem("", "Nowhere"))
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestServer_SaveRejectsMissingName(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/projects", "application/json", strings.NewReader(`{"backlogItems":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "projectName is required", body.Message)
}

func TestServer_InvalidJSON(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/projects", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_EchoesRequestID(t *testing.T) {
	_, srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/projects/listProjects", nil)
	require.NoError(t, err)
	req.Header.Set(api.RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(api.RequestIDHeader))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestServer_UploadWithoutAnalyzer(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.AnalyzePDF(context.Background(), "brief.pdf", bytes.NewReader([]byte("%PDF-1.7 body")))
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotImplemented, se.StatusCode)
	assert.Equal(t, "PDF analysis is not available in the development server", se.Message)
}

func TestServer_UploadWithFixtureAnalyzer(t *testing.T) {
	fixture := writeFile(t, "fixture.yaml", []byte(`project: Fixture
backlog:
  - id: 1
    title: From fixture
    taskType: epic
execution_plan:
  backend:
    total_hours: 3
    tasks: []
    artifacts: []
`))
	analyzer, err := NewFixtureAnalyzer(fixture)
	require.NoError(t, err)
	client, _ := newTestServer(t, WithAnalyzer(analyzer))

	b, err := client.AnalyzePDF(context.Background(), "brief.pdf", bytes.NewReader([]byte("%PDF-1.7 body")))
	require.NoError(t, err)
	assert.Equal(t, "Fixture", b.Project)
	require.Len(t, b.Backlog, 1)
	assert.Equal(t, "From fixture", b.Backlog[0].Title)
	assert.InDelta(t, 3.0, b.ExecutionPlan["backend"].TotalHours, 1e-9)
}

func TestServer_UploadRejectsNonPDF(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.AnalyzePDF(context.Background(), "notes.pdf", strings.NewReader("hello"))
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, errNotPDF.Error(), se.Message)
}

func TestServer_UploadMissingFileField(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/backlog/uploadpdf", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	s := New(testutil.NewTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())

	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a.String() })
	}()

	addr := <-addrCh
	client := api.NewClient(api.Config{BaseURL: "http://" + addr}, nil)
	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)
}
