package cli

import (
	"testing"

	"github.com/alexanderramin/autobacklog/internal/app"
	"github.com/alexanderramin/autobacklog/internal/teatest"
)

// TestDriver wraps teatest.Driver with accessors for appModel internals
// that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets a terminal size and drains
// Init(), which loads the project list from the test backend.
func NewTestDriver(t *testing.T, a *App) *TestDriver {
	t.Helper()

	m := newAppModel(a)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// SubmitDialog presses Enter until the open dialog completes.
func (d *TestDriver) SubmitDialog() {
	d.T.Helper()
	for i := 0; i < 20 && d.DialogOpen(); i++ {
		d.PressEnter()
	}
	if d.DialogOpen() {
		d.T.Fatal("dialog did not complete")
	}
}

// OpenProject selects the project named name from the projects screen.
func (d *TestDriver) OpenProject(name string, kanban bool) {
	d.T.Helper()
	d.PressKey('2')
	v := d.appModel().views[app.ViewProjects].(*projectListView)
	for i, p := range v.visibleProjects() {
		if p.DisplayName() != name {
			continue
		}
		for range i {
			d.PressDown()
		}
		if kanban {
			d.PressKey('o')
		} else {
			d.PressEnter()
		}
		return
	}
	d.T.Fatalf("project %q not listed", name)
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// State returns the Navigator state.
func (d *TestDriver) State() app.State {
	return d.appModel().state.Nav.State()
}

// DialogOpen reports whether a dialog is drawn over the current screen.
func (d *TestDriver) DialogOpen() bool {
	return d.appModel().dialog != nil
}

// Status returns the status bar message.
func (d *TestDriver) Status() string {
	return d.appModel().status
}

// IsQuitting reports whether the model requested program exit.
func (d *TestDriver) IsQuitting() bool {
	return d.Quitting || d.appModel().quitting
}

func (d *TestDriver) backlog() *backlogView {
	d.T.Helper()
	v, ok := d.appModel().views[app.ViewBacklog].(*backlogView)
	if !ok {
		d.T.Fatal("backlog view not built")
	}
	return v
}

func (d *TestDriver) kanban() *kanbanView {
	d.T.Helper()
	v, ok := d.appModel().views[app.ViewKanban].(*kanbanView)
	if !ok {
		d.T.Fatal("kanban view not built")
	}
	return v
}
