package repo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a specific identifier or key did not resolve.
	// Absence from a filtered listing is an empty result, never this error.
	ErrNotFound = errors.New("record not found")

	// ErrAccessDenied means the caller's scope rejects a record addressed
	// directly by identifier.
	ErrAccessDenied = errors.New("access denied")
)

// errNoChange aborts an Update without saving when a transform turns out
// to be a no-op. Never returned to callers.
var errNoChange = errors.New("no change")

// ValidationError reports caller input that cannot be applied: an empty
// required field, a mismatched confirmation, a negative amount.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
