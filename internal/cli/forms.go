package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// autobacklogHuhTheme returns a huh theme matching the formatter palette.
func autobacklogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// deleteConfirmForm asks before deleting an item. title may be empty when
// the caller only knows the id.
func deleteConfirmForm(id domain.ItemID, title string, confirmed *bool) *huh.Form {
	question := fmt.Sprintf("Delete item #%s?", id)
	if title != "" {
		question = fmt.Sprintf("Delete #%s %s?", id, formatter.Truncate(title, 40))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Description("Its children become root items.").
				Affirmative("Delete").
				Negative("Keep").
				Value(confirmed),
		),
	).WithTheme(autobacklogHuhTheme()).WithShowHelp(false)
}

// uploadForm picks the requirements PDF to analyze.
func uploadForm(dir string, path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title("Requirements PDF").
				Description("The backend analyzes it and generates the backlog.").
				CurrentDirectory(dir).
				AllowedTypes([]string{".pdf"}).
				Height(12).
				Value(path),
		),
	).WithTheme(autobacklogHuhTheme()).WithShowHelp(false)
}

// itemFormValues holds the string-typed edit form fields for one item.
type itemFormValues struct {
	title       string
	description string
	taskType    string
	priority    string
	status      string
	parent      string
	agent       string
	hours       string
	sprint      string
}

func newItemFormValues(it domain.BacklogItem) *itemFormValues {
	v := &itemFormValues{
		title:       it.Title,
		description: it.Description,
		taskType:    string(domain.ParseTaskType(domain.CoalesceStr(string(it.TaskType), string(domain.TaskUserStory)))),
		priority:    string(domain.ParsePriority(domain.CoalesceStr(string(it.Priority), string(domain.PriorityMedium)))),
		status:      string(domain.ParseItemStatus(domain.CoalesceStr(string(it.Status), string(domain.StatusTodo)))),
		agent:       it.AssignedAgent,
		sprint:      it.SuggestedSprintName,
	}
	if it.HasParent() {
		v.parent = it.ParentID.String()
	}
	if it.EstimatedHours != nil {
		v.hours = strconv.FormatFloat(*it.EstimatedHours, 'f', -1, 64)
	}
	return v
}

// apply copies the form values onto it. Hours are validated by the form,
// so a parse failure here means the field was left blank.
func (v *itemFormValues) apply(it domain.BacklogItem) domain.BacklogItem {
	it.Title = strings.TrimSpace(v.title)
	it.Description = v.description
	it.TaskType = domain.TaskType(v.taskType)
	it.Priority = domain.Priority(v.priority)
	it.Status = domain.ItemStatus(v.status)
	it.AssignedAgent = strings.TrimSpace(v.agent)
	it.SuggestedSprintName = strings.TrimSpace(v.sprint)
	if v.parent == "" {
		it.ParentID = nil
	} else {
		it.ParentID = domain.ItemID(v.parent).Ptr()
	}
	if h, err := strconv.ParseFloat(strings.TrimSpace(v.hours), 64); err == nil {
		it.EstimatedHours = &h
	} else {
		it.EstimatedHours = nil
	}
	return it
}

// itemForm builds the add/edit form. items are the project's backlog, used
// for parent, agent and sprint choices; self is empty when adding.
func itemForm(v *itemFormValues, items []domain.BacklogItem, self domain.ItemID) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&v.description),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(enumOptions(domain.TaskTypes, v.taskType, domain.TaskType.Label)...).
				Value(&v.taskType),
			huh.NewSelect[string]().
				Title("Priority").
				Options(enumOptions(domain.Priorities, v.priority, domain.Priority.Label)...).
				Value(&v.priority),
			huh.NewSelect[string]().
				Title("Status").
				Options(enumOptions(domain.Statuses, v.status, domain.ItemStatus.Label)...).
				Value(&v.status),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Parent").
				Options(parentOptions(items, self)...).
				Value(&v.parent),
			huh.NewInput().
				Title("Assigned agent").
				Suggestions(domain.AgentOptions(items)).
				Value(&v.agent),
			huh.NewInput().
				Title("Estimated hours").
				Placeholder("blank for unknown").
				Value(&v.hours).
				Validate(validateHours),
			huh.NewInput().
				Title("Suggested sprint").
				Suggestions(domain.SprintOptions(items)[1:]).
				Value(&v.sprint),
		),
	).WithTheme(autobacklogHuhTheme()).WithShowHelp(false)
}

// enumOptions lists the known values of an enum, plus current when it is a
// value this client does not know, so editing never silently rewrites it.
func enumOptions[T ~string](known []T, current string, label func(T) string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(known)+1)
	found := false
	for _, k := range known {
		opts = append(opts, huh.NewOption(label(k), string(k)))
		if string(k) == current {
			found = true
		}
	}
	if !found && current != "" {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

// parentOptions offers every item except self and its descendants, which
// would create a cycle.
func parentOptions(items []domain.BacklogItem, self domain.ItemID) []huh.Option[string] {
	excluded := map[domain.ItemID]bool{}
	if !self.IsZero() {
		excluded = hierarchy.Descendants(items, self)
		excluded[self] = true
	}
	opts := []huh.Option[string]{huh.NewOption("(none, root item)", "")}
	for _, it := range items {
		if excluded[it.ID] {
			continue
		}
		label := fmt.Sprintf("#%s %s %s", it.ID, it.TaskType.Label(), formatter.Truncate(it.Title, 40))
		opts = append(opts, huh.NewOption(label, it.ID.String()))
	}
	return opts
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func validateHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number of hours")
	}
	if h < 0 {
		return fmt.Errorf("hours must not be negative")
	}
	return nil
}
