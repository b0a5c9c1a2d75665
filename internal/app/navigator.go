package app

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// View names one of the top-level screens.
type View string

const (
	ViewHome      View = "home"
	ViewProjects  View = "projects"
	ViewGenerator View = "generator"
	ViewBacklog   View = "backlog"
	ViewKanban    View = "kanban"
)

// Views lists the screens in sidebar order.
var Views = []View{ViewHome, ViewProjects, ViewGenerator, ViewBacklog, ViewKanban}

// Title is the label shown in the navigation bar.
func (v View) Title() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewProjects:
		return "Projects"
	case ViewGenerator:
		return "Generator"
	case ViewBacklog:
		return "Backlog"
	case ViewKanban:
		return "Kanban"
	default:
		return string(v)
	}
}

// NeedsProject reports whether the view only makes sense with a project selected.
func (v View) NeedsProject() bool {
	return v == ViewBacklog || v == ViewKanban
}

func (v View) valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

var (
	// ErrNoProjectSelected is returned when a transition needs a project and none is selected.
	ErrNoProjectSelected = errors.New("no project selected")

	// ErrUnknownView is returned by Navigate for a view outside Views.
	ErrUnknownView = errors.New("unknown view")
)

// Header names shown when no project is loaded.
const (
	DefaultProjectName = "Project"
	NewProjectName     = "New Project"
)

// State is a snapshot of the navigation state.
type State struct {
	View        View
	ProjectID   string
	ProjectName string
	DialogOpen  bool
	Loading     bool
	Err         error
}

// HasProject reports whether a project is selected.
func (s State) HasProject() bool {
	return s.ProjectID != ""
}

// Navigator is the state machine behind the full-screen UI. Every change
// goes through one of its named actions; a rejected action leaves the
// state untouched.
type Navigator struct {
	state State
}

// NewNavigator starts on the home view with no project.
func NewNavigator() *Navigator {
	return &Navigator{state: State{View: ViewHome, ProjectName: DefaultProjectName}}
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Navigate switches to v. Backlog and kanban require a selected project.
func (n *Navigator) Navigate(v View) error {
	if !v.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	if v.NeedsProject() && !n.state.HasProject() {
		return ErrNoProjectSelected
	}
	n.state.View = v
	return nil
}

// SelectProject makes id the current project and shows its backlog.
func (n *Navigator) SelectProject(id, name string) error {
	return n.openProject(id, name, ViewBacklog)
}

// OpenKanban makes id the current project and shows its board.
func (n *Navigator) OpenKanban(id, name string) error {
	return n.openProject(id, name, ViewKanban)
}

func (n *Navigator) openProject(id, name string, v View) error {
	if id == "" {
		return ErrNoProjectSelected
	}
	n.state.ProjectID = id
	n.state.ProjectName = domain.CoalesceStr(name, DefaultProjectName)
	n.state.View = v
	n.state.Err = nil
	return nil
}

// StartUpload opens the upload dialog on the generator view. A new project
// upload forgets the current selection; otherwise the upload re-analyzes
// the selected project.
func (n *Navigator) StartUpload(newProject bool) {
	n.state.View = ViewGenerator
	n.state.DialogOpen = true
	n.state.Err = nil
	if newProject {
		n.state.ProjectID = ""
		n.state.ProjectName = NewProjectName
	}
}

// CloseDialog dismisses the upload dialog.
func (n *Navigator) CloseDialog() {
	n.state.DialogOpen = false
}

// UploadSucceeded selects the saved project and shows its backlog.
func (n *Navigator) UploadSucceeded(p *domain.Project) error {
	if p == nil || p.ID == "" {
		return ErrNoProjectSelected
	}
	n.state.DialogOpen = false
	n.state.Loading = false
	return n.openProject(p.ID, p.DisplayName(), ViewBacklog)
}

// Fail records err for display and ends any loading state.
func (n *Navigator) Fail(err error) {
	n.state.Err = err
	n.state.Loading = false
}

// ClearError dismisses the current error.
func (n *Navigator) ClearError() {
	n.state.Err = nil
}

// SetLoading marks a backend call as in flight.
func (n *Navigator) SetLoading(loading bool) {
	n.state.Loading = loading
}
