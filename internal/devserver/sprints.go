package devserver

import (
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/google/uuid"
)

const (
	sprintLength  = 14 * 24 * time.Hour
	sprintPlanned = "planned"
	sprintDate    = "2006-01-02"
)

// deriveSprints builds one sprint per distinct suggested sprint name, in
// first-seen order, as consecutive two-week windows starting at start.
// Sprints that already exist under the same name keep their id and status.
func deriveSprints(existing []domain.Sprint, items []domain.BacklogItem, start time.Time) []domain.Sprint {
	byName := make(map[string]domain.Sprint, len(existing))
	for _, s := range existing {
		byName[s.Name] = s
	}

	names := domain.SprintOptions(items)[1:]
	out := make([]domain.Sprint, 0, len(names))
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i, name := range names {
		from := day.Add(time.Duration(i) * sprintLength)
		s := domain.Sprint{
			ID:        uuid.NewString(),
			Name:      name,
			StartDate: from.Format(sprintDate),
			EndDate:   from.Add(sprintLength - 24*time.Hour).Format(sprintDate),
			Status:    sprintPlanned,
		}
		if prev, ok := byName[name]; ok {
			s.ID = prev.ID
			s.Status = domain.CoalesceStr(prev.Status, sprintPlanned)
		}
		out = append(out, s)
	}
	return out
}
