package schema

import "fmt"

// SpecError reports a malformed field specification, detected at load time.
type SpecError struct {
	Source string // schema or document the field belongs to
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("invalid field specification in %s: %s", e.Source, e.Reason)
	default:
		return fmt.Sprintf("invalid field specification in %s: field %q: %s", e.Source, e.Field, e.Reason)
	}
}

// UnknownVocabularyError reports a field specification referencing a
// vocabulary name that is not registered in the enumeration catalog.
type UnknownVocabularyError struct {
	Source     string
	Field      string
	Vocabulary string
}

// Error implements the error interface.
func (e *UnknownVocabularyError) Error() string {
	return fmt.Sprintf("field %q in %s references unregistered vocabulary %q",
		e.Field, e.Source, e.Vocabulary)
}
