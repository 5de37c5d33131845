package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports an unknown product, category or draft id.
	ErrNotFound = errors.New("not found")

	// ErrUnknownTypeTag reports a tag the registry has no schema for.
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrImmutableField reports an update touching a field that is
	// fixed after creation (the specification type tag).
	ErrImmutableField = errors.New("immutable field")

	// ErrStoreUnavailable reports a persistence-layer failure. The
	// core never retries it; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// A FieldError is one field-level validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors is the complete list of field failures for one
// write attempt. Callers always receive every problem in one pass,
// never just the first.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	reasons := make([]string, len(e))
	for i, fe := range e {
		reasons[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}

// Has reports whether the list names the given field.
func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// AsValidationErrors unwraps err into ValidationErrors if it carries
// one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
