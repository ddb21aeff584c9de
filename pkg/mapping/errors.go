package mapping

import (
	"errors"
	"fmt"
)

var (
	// ErrMappingNotFound is returned when a GUID has no mapping in the store.
	ErrMappingNotFound = errors.New("mapping not found")

	// ErrDuplicateMapping is returned when adding a GUID that already exists.
	ErrDuplicateMapping = errors.New("mapping already exists")
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}
