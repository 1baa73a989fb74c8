// Package validate implements the type-coercion and controlled-vocabulary
// contract for field values. Coerce is a pure function: the model layer
// calls it on every assignment, and the codec layer relies on its result
// types for round-trip stability.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MissingFieldError reports a required field absent with no usable value.
type MissingFieldError struct {
	Entity string // owning entity, as a dotted path when nested
	Field  string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("missing required field %q on %s", e.Field, e.Entity)
}

// Path returns the dotted path of the missing field.
func (e *MissingFieldError) Path() string {
	if e.Entity == "" {
		return e.Field
	}
	return e.Entity + "." + e.Field
}

// CoercionError reports a value that cannot be narrowed to the declared
// type by any of the explicit conversion rules.
type CoercionError struct {
	Entity   string
	Field    string
	Expected string // declared type
	Value    any
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %v (%T) to %s for field %q on %s",
		e.Value, e.Value, e.Expected, e.Field, e.Entity)
}

// VocabularyError reports a value outside a field's controlled vocabulary.
type VocabularyError struct {
	Entity  string
	Field   string
	Value   any
	Allowed []string
}

// Error implements the error interface.
func (e *VocabularyError) Error() string {
	return fmt.Sprintf("value %v for field %q on %s is not in the allowed set [%s]",
		e.Value, e.Field, e.Entity, strings.Join(e.Allowed, ", "))
}

// ValidationErrors aggregates per-field failures so a caller sees every
// problem in a record at once.
type ValidationErrors struct {
	Fields map[string][]string `json:"fields"`
}

// NewValidationErrors creates an empty aggregate.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Fields: make(map[string][]string),
	}
}

// Add records a validation error for a specific field.
func (ve *ValidationErrors) Add(field, message string) {
	if ve.Fields == nil {
		ve.Fields = make(map[string][]string)
	}
	ve.Fields[field] = append(ve.Fields[field], message)
}

// HasErrors reports whether any error was recorded.
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Fields) > 0
}

// Count returns the total number of recorded errors.
func (ve *ValidationErrors) Count() int {
	count := 0
	for _, messages := range ve.Fields {
		count += len(messages)
	}
	return count
}

// Error implements the error interface.
func (ve *ValidationErrors) Error() string {
	if !ve.HasErrors() {
		return "validation failed"
	}

	var messages []string
	for field, errs := range ve.Fields {
		for _, msg := range errs {
			messages = append(messages, fmt.Sprintf("  - %s: %s", field, msg))
		}
	}

	if len(messages) == 1 {
		return fmt.Sprintf("validation failed: %s", strings.TrimPrefix(messages[0], "  - "))
	}
	return fmt.Sprintf("validation failed:\n%s", strings.Join(messages, "\n"))
}

// MarshalJSON implements json.Marshaler for API error payloads.
func (ve *ValidationErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}{
		Error:  "validation_failed",
		Fields: ve.Fields,
	})
}
