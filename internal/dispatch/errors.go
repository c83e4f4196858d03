package dispatch

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure.
type Kind string

const (
	// KindInvalidInput is raised before any network activity.
	KindInvalidInput Kind = "invalid_input"

	// KindUpstreamFailure covers non-2xx replies and transport failures.
	KindUpstreamFailure Kind = "upstream_failure"
)

// Error is the normalized failure of a dispatch: an HTTP status plus a
// human-readable message for the caller.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error // underlying transport error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("dispatch %s [%d]: %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsInvalidInput checks if err is an input validation failure.
func IsInvalidInput(err error) bool {
	de, ok := AsError(err)
	return ok && de.Kind == KindInvalidInput
}

// IsUpstreamFailure checks if err is an upstream failure.
func IsUpstreamFailure(err error) bool {
	de, ok := AsError(err)
	return ok && de.Kind == KindUpstreamFailure
}
