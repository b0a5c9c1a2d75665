package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// itemSavedMsg reports the outcome of an item mutation made from the TUI.
// The appModel shows text in the status bar and reloads every screen.
type itemSavedMsg struct {
	text string
	err  error
}

// editItemDialog opens the item form prefilled with it and saves on submit.
func editItemDialog(state *SharedState, projectID string, items []domain.BacklogItem, it domain.BacklogItem) tea.Cmd {
	vals := newItemFormValues(it)
	svc := state.App.Items
	form := itemForm(vals, items, it.ID)
	return pushDialog(newDialogView(state, "Edit #"+it.ID.String(), form, func() tea.Cmd {
		return updateItemCmd(svc, projectID, vals.apply(it))
	}))
}

// addItemDialog opens an empty item form. A non-zero parent preselects it.
func addItemDialog(state *SharedState, projectID string, items []domain.BacklogItem, parent domain.ItemID) tea.Cmd {
	draft := domain.BacklogItem{Status: domain.StatusTodo}
	title := "New root item"
	if !parent.IsZero() {
		draft.ParentID = parent.Ptr()
		title = "New child of #" + parent.String()
	}
	vals := newItemFormValues(draft)
	svc := state.App.Items
	form := itemForm(vals, items, "")
	return pushDialog(newDialogView(state, title, form, func() tea.Cmd {
		return createItemCmd(svc, projectID, vals.apply(draft))
	}))
}

// deleteItemDialog asks for confirmation before deleting it.
func deleteItemDialog(state *SharedState, it domain.BacklogItem) tea.Cmd {
	confirmed := false
	svc := state.App.Items
	form := deleteConfirmForm(it.ID, it.Title, &confirmed)
	return pushDialog(newDialogView(state, "Delete item", form, func() tea.Cmd {
		if !confirmed {
			return status(formatter.Dim("Kept #" + it.ID.String() + "."))
		}
		return deleteItemCmd(svc, it.ID)
	}))
}

func createItemCmd(svc service.ItemService, projectID string, it domain.BacklogItem) tea.Cmd {
	return func() tea.Msg {
		saved, err := svc.Create(context.Background(), projectID, it)
		if err != nil {
			return itemSavedMsg{err: err}
		}
		return itemSavedMsg{text: fmt.Sprintf("%s Added %s #%s %s",
			formatter.StyleGreen.Render("✔"), saved.TaskType.Label(), saved.ID, saved.Title)}
	}
}

func updateItemCmd(svc service.ItemService, projectID string, it domain.BacklogItem) tea.Cmd {
	return func() tea.Msg {
		saved, err := svc.Update(context.Background(), projectID, it)
		if err != nil {
			return itemSavedMsg{err: err}
		}
		return itemSavedMsg{text: fmt.Sprintf("%s Updated #%s %s",
			formatter.StyleGreen.Render("✔"), saved.ID, saved.Title)}
	}
}

func deleteItemCmd(svc service.ItemService, id domain.ItemID) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), id); err != nil {
			return itemSavedMsg{err: err}
		}
		return itemSavedMsg{text: fmt.Sprintf("%s Deleted #%s", formatter.StyleGreen.Render("✔"), id)}
	}
}
