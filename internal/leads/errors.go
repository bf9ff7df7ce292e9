package leads

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLeadNotFound is returned when no lead exists for the given id.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned when a status update names an unknown status.
	ErrInvalidStatus = errors.New("invalid lead status")
)

// FieldError describes a single failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every failing field from one request.
type ValidationError struct {
	Details []FieldError `json:"details"`
}

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) {
	e.Details = append(e.Details, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Field, d.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
