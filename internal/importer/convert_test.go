package importer

import (
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProject_DerivesAssignments(t *testing.T) {
	b := &domain.ProjectBacklog{
		Project: "Shop",
		Backlog: []domain.BacklogItem{
			{ID: "1", AssignedAgent: "backend"},
			{ID: "2", AssignedAgent: "frontend"},
			{ID: "3", AssignedAgent: "backend"},
			{ID: "4", AssignedAgent: domain.UnassignedAgent},
			{ID: "5"},
		},
	}
	p := ToProject(b, "/tmp/shop.yaml")

	assert.Equal(t, "Shop", p.Name)
	assert.Equal(t, ImportedStatus, p.Status)
	assert.Equal(t, "Imported from shop.yaml", p.Description)
	assert.Empty(t, p.ID)
	require.Len(t, p.Backlog.Assignments, 2)
	assert.Len(t, p.Backlog.Assignments["backend"], 2)
	assert.Equal(t, domain.ItemID("3"), p.Backlog.Assignments["backend"][1].ID)
	assert.Nil(t, b.Assignments, "input backlog is left alone")
}

func TestToProject_KeepsExplicitAssignments(t *testing.T) {
	b := &domain.ProjectBacklog{
		Project:     "Shop",
		Backlog:     []domain.BacklogItem{{ID: "1", AssignedAgent: "backend"}},
		Assignments: map[string][]domain.BacklogItem{"qa": {{ID: "1"}}},
	}
	p := ToProject(b, "shop.json")
	assert.Equal(t, []string{"qa"}, sortedKeys(p.Backlog.Assignments))
}

func TestToProject_NamesFromFile(t *testing.T) {
	p := ToProject(&domain.ProjectBacklog{}, "specs/payments.json")
	assert.Equal(t, "payments", p.Name)
	assert.Equal(t, "payments", p.Backlog.Project)
	assert.NotNil(t, p.Backlog.Backlog)
}
