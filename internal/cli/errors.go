package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("aborted")

// UserMessage turns an error into the sentence shown to the user. Backend
// failures get fixed wording; everything else is shown as is.
func UserMessage(err error) string {
	var statusErr *api.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrNotFound):
		return "project not found"
	case errors.Is(err, api.ErrUnavailable):
		return "cannot reach the backend (check api.base_url or --api-url): is it running?"
	case errors.Is(err, api.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "the backend did not answer in time"
	case errors.As(err, &statusErr):
		msg := statusErr.Message
		if msg == "" {
			msg = http.StatusText(statusErr.StatusCode)
		}
		return fmt.Sprintf("server error: %d - %s", statusErr.StatusCode, msg)
	case errors.Is(err, api.ErrInvalidResponse):
		return "unexpected response from the backend: " + err.Error()
	default:
		return err.Error()
	}
}

// shellError renders err for display inside the TUI.
func shellError(err error) string {
	return formatter.StyleRed.Render("Error: ") + UserMessage(err)
}
