package cli

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/app"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI. Which screen is shown
// is decided by the Navigator; the model only keeps one View per screen
// plus an optional dialog drawn over it.
type appModel struct {
	state    *SharedState
	views    map[app.View]View
	dialog   View
	status   string
	spinner  spinner.Model
	quitting bool
}

func newAppModel(a *App) appModel {
	state := &SharedState{
		App: a,
		Nav: app.NewNavigator(),
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = formatter.StyleHeader

	return appModel{
		state: state,
		views: map[app.View]View{
			app.ViewHome:      newHomeView(state),
			app.ViewProjects:  newProjectListView(state),
			app.ViewGenerator: newGeneratorView(state),
		},
		spinner: sp,
	}
}

// activeView returns the view for the Navigator's current screen, or nil
// when that screen has not been built yet.
func (m *appModel) activeView() View {
	return m.views[m.state.Nav.State().View]
}

func (m *appModel) setView(id app.View, v View) {
	m.views[id] = v
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range app.Views {
		if v, ok := m.views[id]; ok {
			cmds = append(cmds, v.Init())
		}
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	nav := m.state.Nav

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateMsg:
		if err := nav.Navigate(msg.view); err != nil {
			nav.Fail(err)
			return m, nil
		}
		m.status = ""
		return m, m.ensureView(msg.view)

	case openProjectMsg:
		var err error
		if msg.kanban {
			err = nav.OpenKanban(msg.id, msg.name)
		} else {
			err = nav.SelectProject(msg.id, msg.name)
		}
		if err != nil {
			nav.Fail(err)
			return m, nil
		}
		m.status = ""
		return m, m.rebuildProjectViews(nav.State().View)

	case startUploadMsg:
		projectID := ""
		if !msg.newProject {
			if !nav.State().HasProject() {
				nav.Fail(app.ErrNoProjectSelected)
				return m, nil
			}
			projectID = nav.State().ProjectID
		}
		nav.StartUpload(msg.newProject)
		m.status = ""
		dir, _ := os.Getwd()
		var path string
		d := newDialogView(m.state, "Upload requirements PDF", uploadForm(dir, &path), func() tea.Cmd {
			return func() tea.Msg { return uploadStartedMsg{path: path, projectID: projectID} }
		})
		m.dialog = d
		return m, d.Init()

	case uploadStartedMsg:
		m.dialog = nil
		nav.CloseDialog()
		if msg.path == "" {
			m.status = formatter.Dim("No file selected.")
			return m, nil
		}
		nav.SetLoading(true)
		generate := m.state.App.Generate
		return m, tea.Batch(func() tea.Msg {
			p, err := generate.GenerateFromPDF(context.Background(), msg.path, msg.projectID)
			return uploadDoneMsg{project: p, err: err}
		}, m.spinner.Tick)

	case uploadDoneMsg:
		if msg.err != nil {
			nav.Fail(msg.err)
			return m, nil
		}
		if err := nav.UploadSucceeded(msg.project); err != nil {
			nav.Fail(err)
			return m, nil
		}
		m.status = formatter.StyleGreen.Render("✔") + " Backlog ready for " + msg.project.DisplayName()
		return m, tea.Batch(m.rebuildProjectViews(app.ViewBacklog), m.refreshProjects())

	case pushDialogMsg:
		m.dialog = msg.dialog
		return m, msg.dialog.Init()

	case dialogCompleteMsg:
		m.dialog = nil
		nav.CloseDialog()
		return m, tea.Batch(msg.nextCmd, func() tea.Msg { return refreshViewMsg{} })

	case failMsg:
		nav.Fail(msg.err)
		return m, nil

	case itemSavedMsg:
		if msg.err != nil {
			nav.Fail(msg.err)
			return m, nil
		}
		m.status = msg.text
		return m, m.broadcast(refreshViewMsg{})

	case statusMsg:
		m.status = msg.text
		return m, nil

	case spinner.TickMsg:
		if !nav.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshViewMsg:
		// A dialog reads no data; only the screen under it reloads.
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setView(nav.State().View, updated.(View))
			return m, cmd
		}
		return m, nil
	}

	// Data and blink messages go everywhere; each view ignores what it did
	// not ask for.
	var cmds []tea.Cmd
	if m.dialog != nil {
		updated, cmd := m.dialog.Update(msg)
		m.dialog = updated.(View)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.broadcast(msg))
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.state.Nav

	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.dialog != nil {
		updated, cmd := m.dialog.Update(msg)
		m.dialog = updated.(View)
		return m, cmd
	}

	// While the backend works on an upload the screen is frozen.
	if nav.State().Loading {
		return m, nil
	}

	v := m.activeView()
	if v != nil && v.CapturesInput() {
		updated, cmd := v.Update(msg)
		m.setView(nav.State().View, updated.(View))
		return m, cmd
	}

	switch s := msg.String(); {
	case s == "q":
		m.quitting = true
		return m, tea.Quit

	case len(s) == 1 && s[0] >= '1' && s[0] <= '9':
		i, _ := strconv.Atoi(s)
		if i <= len(app.Views) {
			return m, navigate(app.Views[i-1])
		}
		return m, nil

	case msg.Type == tea.KeyEsc && nav.State().Err != nil:
		nav.ClearError()
		return m, nil
	}

	if v != nil {
		// Any key acknowledges a stale confirmation.
		m.status = ""
		updated, cmd := v.Update(msg)
		m.setView(nav.State().View, updated.(View))
		return m, cmd
	}
	return m, nil
}

// broadcast forwards msg to every built view.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range app.Views {
		v, ok := m.views[id]
		if !ok {
			continue
		}
		updated, cmd := v.Update(msg)
		m.views[id] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// ensureView builds a project-scoped screen on first visit and reloads it
// on later ones, since the other screen may have changed the backlog.
func (m *appModel) ensureView(id app.View) tea.Cmd {
	if !id.NeedsProject() {
		return nil
	}
	if v, ok := m.views[id]; ok {
		updated, cmd := v.Update(refreshViewMsg{})
		m.views[id] = updated.(View)
		return cmd
	}
	return m.buildProjectView(id)
}

// rebuildProjectViews drops the backlog and kanban screens of the previous
// project and builds the visible one. The other is built on its first visit.
func (m *appModel) rebuildProjectViews(visible app.View) tea.Cmd {
	delete(m.views, app.ViewBacklog)
	delete(m.views, app.ViewKanban)
	return m.buildProjectView(visible)
}

func (m *appModel) buildProjectView(id app.View) tea.Cmd {
	var v View
	switch id {
	case app.ViewBacklog:
		v = newBacklogView(m.state)
	case app.ViewKanban:
		v = newKanbanView(m.state)
	default:
		return nil
	}
	if m.state.Width > 0 {
		updated, _ := v.Update(tea.WindowSizeMsg{Width: m.state.Width, Height: m.state.Height})
		v = updated.(View)
	}
	m.views[id] = v
	return v.Init()
}

func (m *appModel) refreshProjects() tea.Cmd {
	v, ok := m.views[app.ViewProjects]
	if !ok {
		return nil
	}
	updated, cmd := v.Update(refreshViewMsg{})
	m.views[app.ViewProjects] = updated.(View)
	return cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}

	st := m.state.Nav.State()
	switch {
	case m.dialog != nil:
		sections = append(sections, m.dialog.View())
	case st.Loading:
		sections = append(sections, "\n  "+m.spinner.View()+" "+formatter.Dim("Analyzing the document, this can take a while..."))
	default:
		if v := m.activeView(); v != nil {
			sections = append(sections, v.View())
		}
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	st := m.state.Nav.State()

	tabs := []string{formatter.StylePurple.Render("autobacklog")}
	for i, id := range app.Views {
		label := strconv.Itoa(i+1) + " " + id.Title()
		switch {
		case id == st.View:
			tabs = append(tabs, formatter.StyleHeader.Render(label))
		case id.NeedsProject() && !st.HasProject():
			tabs = append(tabs, formatter.Dim(label))
		default:
			tabs = append(tabs, formatter.StyleFg.Render(label))
		}
	}
	line := strings.Join(tabs, "  ")

	crumb := formatter.Dim("project ") + formatter.StyleGreen.Render(st.ProjectName)
	if st.HasProject() {
		crumb += formatter.Dim(" [" + st.ProjectID + "]")
	}
	if st.Err != nil {
		crumb += "  " + shellError(st.Err) + formatter.Dim(" (esc)")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return line + "\n" + crumb + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if m.status != "" {
		hints = append(hints, m.status)
	}

	var v View = m.dialog
	if v == nil {
		v = m.activeView()
	}
	if v != nil && !m.state.Nav.State().Loading {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if m.dialog == nil {
		hints = append(hints, formatter.Dim("1-5: views"), formatter.Dim("q: quit"))
	}

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}
