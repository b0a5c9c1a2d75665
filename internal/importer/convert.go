package importer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// ImportedStatus is the project status given to backlogs loaded from a file.
const ImportedStatus = "imported"

// ToProject turns a validated backlog into a new project ready to save.
// When the file carries no assignments they are derived from each item's
// assigned agent. The project is named after the file when the backlog has
// no project title.
func ToProject(b *domain.ProjectBacklog, sourcePath string) *domain.Project {
	backlog := *b
	backlog.Normalize()
	if backlog.Project == "" {
		backlog.Project = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}
	if len(backlog.Assignments) == 0 {
		backlog.Assignments = DeriveAssignments(backlog.Backlog)
	}
	desc := "Imported"
	if sourcePath != "" {
		desc = "Imported from " + filepath.Base(sourcePath)
	}
	return &domain.Project{
		Name:        backlog.Project,
		Description: desc,
		Status:      ImportedStatus,
		Backlog:     backlog,
	}
}

// DeriveAssignments groups items by assigned agent, keeping backlog order.
// Items without an agent are left out.
func DeriveAssignments(items []domain.BacklogItem) map[string][]domain.BacklogItem {
	out := map[string][]domain.BacklogItem{}
	for _, it := range items {
		agent := strings.TrimSpace(it.AssignedAgent)
		if agent == "" || agent == domain.UnassignedAgent {
			continue
		}
		out[agent] = append(out[agent], it)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
