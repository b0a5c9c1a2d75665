package cli

import (
	"github.com/alexanderramin/autobacklog/internal/app"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens and dialogs implement.
// It extends tea.Model with help metadata.
type View interface {
	tea.Model
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
	// CapturesInput reports whether the view is reading free text, in
	// which case global shortcuts are not applied.
	CapturesInput() bool
}

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Nav *app.Navigator

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (3 lines: tabs, breadcrumb, separator) and the
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-5, 1)
}

// Navigation messages used by views to request transitions. The appModel
// applies them to the Navigator in its Update method.

type navigateMsg struct {
	view app.View
}

type openProjectMsg struct {
	id     string
	name   string
	kanban bool
}

type startUploadMsg struct {
	newProject bool
}

// uploadStartedMsg is sent when the upload dialog produced a file.
type uploadStartedMsg struct {
	path      string
	projectID string
}

type uploadDoneMsg struct {
	project *domain.Project
	err     error
}

type failMsg struct {
	err error
}

// statusMsg carries a one-line confirmation shown in the status bar.
type statusMsg struct {
	text string
}

type pushDialogMsg struct {
	dialog View
}

// dialogCompleteMsg is sent when a dialog form completes or is cancelled.
// The appModel handles it atomically: close the dialog, then run nextCmd.
type dialogCompleteMsg struct {
	nextCmd tea.Cmd
}

// refreshViewMsg asks views to reload after a mutation.
type refreshViewMsg struct{}

func navigate(v app.View) tea.Cmd {
	return func() tea.Msg { return navigateMsg{view: v} }
}

func openProject(id, name string, kanban bool) tea.Cmd {
	return func() tea.Msg { return openProjectMsg{id: id, name: name, kanban: kanban} }
}

func startUpload(newProject bool) tea.Cmd {
	return func() tea.Msg { return startUploadMsg{newProject: newProject} }
}

func pushDialog(v View) tea.Cmd {
	return func() tea.Msg { return pushDialogMsg{dialog: v} }
}

func fail(err error) tea.Cmd {
	return func() tea.Msg { return failMsg{err: err} }
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
