package controller

import (
	"errors"
	"fmt"
)

// ErrMissingBackendID is returned when an entry cannot be addressed on the
// backend because it was never synced with it.
var ErrMissingBackendID = errors.New("missing backend id, try refreshing")

var ErrNotFound = errors.New("not found")

// ValidationError reports malformed user input. It is raised before any
// network call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
