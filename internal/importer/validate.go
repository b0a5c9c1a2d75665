package importer

import (
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// Warning is a problem that does not stop an import. The hierarchy view
// copes with each of them, but the result may not be what the author meant.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// ValidateBacklog checks an imported backlog. Errors block the import;
// warnings are reported to the user.
func ValidateBacklog(b *domain.ProjectBacklog) ([]error, []Warning) {
	var errs []error
	var warns []Warning

	if b.Project == "" {
		errs = append(errs, fmt.Errorf("project is required"))
	}

	ids := make(map[domain.ItemID]bool, len(b.Backlog))
	for i, it := range b.Backlog {
		prefix := fmt.Sprintf("backlog[%d]", i)

		if it.ID.IsZero() {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[it.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, it.ID))
		} else {
			ids[it.ID] = true
		}

		if it.EstimatedHours != nil && *it.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimatedHours must not be negative", prefix))
		}
		if it.Title == "" {
			warns = append(warns, Warning{prefix + ".title", "is empty"})
		}
		if it.TaskType != "" && !it.TaskType.Known() {
			warns = append(warns, Warning{prefix + ".taskType", fmt.Sprintf("unknown value %q sorts last", it.TaskType)})
		}
		if it.Priority != "" && !it.Priority.Known() {
			warns = append(warns, Warning{prefix + ".priority", fmt.Sprintf("unknown value %q sorts last", it.Priority)})
		}
		if it.Status != "" && !it.Status.Known() {
			warns = append(warns, Warning{prefix + ".status", fmt.Sprintf("unknown value %q is shown in the todo column", it.Status)})
		}
	}

	warns = append(warns, validateParents(b.Backlog, ids)...)
	warns = append(warns, validateAssignments(b.Assignments, ids)...)
	errs = append(errs, validatePlan(b.ExecutionPlan)...)

	return errs, warns
}

func validateParents(items []domain.BacklogItem, ids map[domain.ItemID]bool) []Warning {
	var warns []Warning
	parentOf := make(map[domain.ItemID]domain.ItemID, len(items))
	for _, it := range items {
		if it.HasParent() {
			parentOf[it.ID] = *it.ParentID
		}
	}

	for i, it := range items {
		if !it.HasParent() {
			continue
		}
		prefix := fmt.Sprintf("backlog[%d].parentId", i)
		parent := *it.ParentID
		switch {
		case parent == it.ID:
			warns = append(warns, Warning{prefix, "refers to the item itself; shown as a root"})
		case !ids[parent]:
			warns = append(warns, Warning{prefix, fmt.Sprintf("%q not found; shown as a root", parent)})
		case inLoop(it.ID, parentOf):
			warns = append(warns, Warning{prefix, "parent chain loops back to this item"})
		}
	}
	return warns
}

func inLoop(id domain.ItemID, parentOf map[domain.ItemID]domain.ItemID) bool {
	seen := map[domain.ItemID]bool{id: true}
	cur := id
	for {
		next, ok := parentOf[cur]
		if !ok || next == cur {
			return false
		}
		if next == id {
			return true
		}
		if seen[next] {
			return false
		}
		seen[next] = true
		cur = next
	}
}

func validateAssignments(assignments map[string][]domain.BacklogItem, ids map[domain.ItemID]bool) []Warning {
	var warns []Warning
	for _, agent := range sortedKeys(assignments) {
		for j, it := range assignments[agent] {
			if !ids[it.ID] {
				warns = append(warns, Warning{
					fmt.Sprintf("assignments[%s][%d]", agent, j),
					fmt.Sprintf("item %q is not in the backlog", it.ID),
				})
			}
		}
	}
	return warns
}

func validatePlan(plan map[string]domain.AgentPlan) []error {
	var errs []error
	for _, agent := range sortedKeys(plan) {
		if plan[agent].TotalHours < 0 {
			errs = append(errs, fmt.Errorf("execution_plan[%s].total_hours must not be negative", agent))
		}
	}
	return errs
}
