package mapper

import (
	"errors"
	"fmt"
)

// ErrMapping matches every MappingError via errors.Is.
var ErrMapping = errors.New("record failed normalization")

// MappingError reports a raw API value that could not be normalized.
type MappingError struct {
	// Field is the raw field name, prefixed with the record index when the
	// failure happened while mapping a collection (e.g. "[3].amount").
	Field string

	// Value is the offending raw value.
	Value string

	// Reason describes what was wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is implements error matching against ErrMapping.
func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

func newMappingError(field, value, reason string) *MappingError {
	return &MappingError{Field: field, Value: value, Reason: reason}
}

// atIndex prefixes the field of a MappingError with a collection index.
func atIndex(i int, err error) error {
	var me *MappingError
	if errors.As(err, &me) {
		return &MappingError{
			Field:  fmt.Sprintf("[%d].%s", i, me.Field),
			Value:  me.Value,
			Reason: me.Reason,
		}
	}
	return err
}
