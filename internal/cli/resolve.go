package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

// resolveProjectID resolves a project argument which can be:
//   - A backend project id
//   - A project name (case-insensitive)
//   - A unique case-insensitive prefix of a project name
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("project id is required")
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	lower := strings.ToLower(input)
	for _, p := range projects {
		if strings.ToLower(p.DisplayName()) == lower {
			return p.ID, nil
		}
	}

	var matches []domain.Project
	for _, p := range projects {
		if strings.HasPrefix(strings.ToLower(p.DisplayName()), lower) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project %q: %w", input, api.ErrNotFound)
	case 1:
		return matches[0].ID, nil
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = fmt.Sprintf("%s (%s)", p.DisplayName(), p.ID)
		}
		return "", fmt.Errorf("%q matches several projects: %s", input, strings.Join(names, ", "))
	}
}

// findItem returns the project item with the given id.
func findItem(p *domain.Project, id domain.ItemID) (domain.BacklogItem, error) {
	it, ok := p.Backlog.ItemByID(id)
	if !ok {
		return domain.BacklogItem{}, fmt.Errorf("item #%s not found in project %s", id, p.DisplayName())
	}
	return it, nil
}
