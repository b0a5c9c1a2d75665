package service

import (
	"math"

	"github.com/alexanderramin/autobacklog/internal/board"
	"github.com/alexanderramin/autobacklog/internal/domain"
)

// BacklogSummary holds aggregated backlog data for a single project.
type BacklogSummary struct {
	ItemCount   int
	ByColumn    [board.ColumnDone + 1]int
	TotalHours  float64
	DoneHours   float64
	ProgressPct float64
	Agents      []string
	Sprints     []string
}

// Summarize computes totals and progress for a project's backlog. Progress
// is weighted by estimated hours, falling back to item counts when no item
// carries an estimate.
func Summarize(b domain.ProjectBacklog) BacklogSummary {
	s := BacklogSummary{
		ItemCount: len(b.Backlog),
		Agents:    domain.AgentOptions(b.Backlog)[1:],
		Sprints:   domain.SprintOptions(b.Backlog)[1:],
	}
	for _, it := range b.Backlog {
		col := board.ColumnFor(it.Status)
		s.ByColumn[col]++
		s.TotalHours += it.Hours()
		if col == board.ColumnDone {
			s.DoneHours += it.Hours()
		}
	}

	switch {
	case s.TotalHours > 0:
		s.ProgressPct = s.DoneHours / s.TotalHours * 100
	case s.ItemCount > 0:
		s.ProgressPct = float64(s.ByColumn[board.ColumnDone]) / float64(s.ItemCount) * 100
	}
	s.ProgressPct = math.Round(s.ProgressPct*10) / 10
	return s
}
