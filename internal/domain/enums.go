package domain

import "strings"

// UnknownRank is the sort rank given to any type or priority value this
// client does not recognize. It places such items after every known value.
const UnknownRank = 99

// TaskType is the work-item type of a backlog item. Known values are the
// constants below; any other spelling is kept verbatim so it can be shown
// and sent back to the backend unchanged.
type TaskType string

const (
	TaskEpic      TaskType = "epic"
	TaskFeature   TaskType = "feature"
	TaskUserStory TaskType = "user_story"
	TaskTask      TaskType = "task"
	TaskBug       TaskType = "bug"
)

// TaskTypes lists the known task types in hierarchy order.
var TaskTypes = []TaskType{TaskEpic, TaskFeature, TaskUserStory, TaskTask, TaskBug}

// ParseTaskType maps user input onto a known TaskType, ignoring case and
// surrounding whitespace. "user story", "user-story", "userstory" and "story" mean
// user_story. Unrecognized values are returned unchanged. Values decoded from
// the backend are never passed through it.
func ParseTaskType(s string) TaskType {
	switch normalizeEnum(s) {
	case "epic":
		return TaskEpic
	case "feature":
		return TaskFeature
	case "user_story", "userstory", "story":
		return TaskUserStory
	case "task":
		return TaskTask
	case "bug":
		return TaskBug
	}
	return TaskType(s)
}

// Known reports whether t is one of the closed set of task types, compared
// case-insensitively and without any other folding.
func (t TaskType) Known() bool {
	return t.Rank() != UnknownRank
}

// Rank returns the hierarchy sort rank: epic=1 through bug=5, UnknownRank otherwise.
func (t TaskType) Rank() int {
	switch TaskType(strings.ToLower(string(t))) {
	case TaskEpic:
		return 1
	case TaskFeature:
		return 2
	case TaskUserStory:
		return 3
	case TaskTask:
		return 4
	case TaskBug:
		return 5
	}
	return UnknownRank
}

// Label returns a display label such as "USER STORY".
func (t TaskType) Label() string {
	if strings.TrimSpace(string(t)) == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(string(t)), "_", " "))
}

// Priority is the urgency of a backlog item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Priorities lists the known priorities from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority maps user input onto a known Priority ignoring case and
// surrounding whitespace. Unrecognized values are returned unchanged.
func ParsePriority(s string) Priority {
	switch normalizeEnum(s) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	}
	return Priority(s)
}

func (p Priority) Known() bool {
	return p.Rank() != UnknownRank
}

// Rank returns critical=0 through low=3, UnknownRank otherwise.
func (p Priority) Rank() int {
	switch Priority(strings.ToLower(string(p))) {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return UnknownRank
}

func (p Priority) Label() string {
	if strings.TrimSpace(string(p)) == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.TrimSpace(string(p)))
}

// ItemStatus is the workflow status of a backlog item.
type ItemStatus string

const (
	StatusTodo       ItemStatus = "todo"
	StatusInProgress ItemStatus = "in progress"
	StatusDone       ItemStatus = "done"
	StatusVerified   ItemStatus = "verified"
	StatusBlocked    ItemStatus = "blocked"
)

// Statuses lists the statuses offered when editing an item.
var Statuses = []ItemStatus{StatusTodo, StatusInProgress, StatusDone, StatusVerified, StatusBlocked}

// ParseItemStatus maps s onto a known ItemStatus. The backend spells the
// in-progress state "in progress"; "in_progress" and "in-progress" are
// accepted as well.
func ParseItemStatus(s string) ItemStatus {
	switch normalizeEnum(s) {
	case "todo", "to_do":
		return StatusTodo
	case "in_progress", "inprogress", "doing":
		return StatusInProgress
	case "done":
		return StatusDone
	case "verified":
		return StatusVerified
	case "blocked":
		return StatusBlocked
	}
	return ItemStatus(s)
}

func (s ItemStatus) Known() bool {
	switch ParseItemStatus(string(s)) {
	case StatusTodo, StatusInProgress, StatusDone, StatusVerified, StatusBlocked:
		return true
	}
	return false
}

func (s ItemStatus) Label() string {
	if strings.TrimSpace(string(s)) == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(ParseItemStatus(string(s))))
}

func (s *ItemStatus) UnmarshalText(b []byte) error {
	*s = ParseItemStatus(string(b))
	return nil
}

// normalizeEnum lowercases s, trims it and folds spaces and dashes to underscores.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
