package encyclopedia

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups and deletes that matched no movie.
// Callers render it as an informational message, not a failure.
var ErrNotFound = errors.New("movie not found")

// ErrBackendUnavailable wraps connection and table-bootstrap failures.
// It is fatal at startup; operations never return it once the store is built.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ValidationError reports rejected user input before it reaches a backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
