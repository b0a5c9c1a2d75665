package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the backend answered 404 for the requested resource.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the backend could not be reached at all.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded its configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrInvalidResponse indicates a 2xx response whose body could not be
	// decoded into the expected shape.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// StatusError is returned for any non-2xx response. Message is the
// backend's "message" field when present.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

// Is makes a 404 StatusError match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
