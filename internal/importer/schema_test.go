package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `project: Shop
backlog:
  - id: 1
    taskType: epic
    priority: high
    title: Checkout
  - id: 2
    parentId: 1
    taskType: Task
    title: Cart
    assignedAgent: backend
    estimatedHours: 3
assignments:
  backend:
    - id: 2
execution_plan:
  backend:
    total_hours: 3
    tasks:
      - id: 2
    artifacts:
      - type: code
        description: cart service
        files: [cart.go]
`

func TestLoad_YAMLAndJSONAgree(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "shop.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))

	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskType("Task"), fromYAML.Backlog[1].TaskType, "spelling is kept as written")
	assert.Equal(t, domain.TaskTask.Rank(), fromYAML.Backlog[1].TaskType.Rank())
	assert.Equal(t, domain.ItemID("1"), *fromYAML.Backlog[1].ParentID)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, fromYAML, FormatJSON))
	jsonPath := filepath.Join(dir, "shop.json")
	require.NoError(t, os.WriteFile(jsonPath, buf.Bytes(), 0o644))

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	if diff := cmp.Diff(fromYAML, fromJSON); diff != "" {
		t.Fatalf("yaml and json loads differ (-yaml +json):\n%s", diff)
	}
}

func TestExport_YAMLRoundTrip(t *testing.T) {
	b, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, b, FormatYAML))
	assert.Contains(t, buf.String(), "parentId: 1\n")

	again, err := Parse(buf.Bytes(), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(b, again))
}

func TestParse_EmptyDocument(t *testing.T) {
	b, err := Parse([]byte("  \n"), FormatYAML)
	require.NoError(t, err)
	assert.NotNil(t, b.Backlog)
	assert.NotNil(t, b.Assignments)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"backlog": 3}`), FormatJSON)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("backlog.txt")
	assert.Error(t, err)
	_, err = FormatFromPath("backlog")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
