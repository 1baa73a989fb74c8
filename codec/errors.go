// Package codec converts validated entity instances to and from nested
// maps, flat dotted-key maps, JSON text, and XML element trees. Every pair
// round-trips: decoding an encoded instance yields a field-by-field equal
// instance.
package codec

import (
	"errors"
	"fmt"

	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/validate"
)

// DecodeError reports malformed input to any of the decoding conversions,
// identifying the offending key or path. Required data is never silently
// dropped or defaulted.
type DecodeError struct {
	Format string // "nested", "flat", "json" or "xml"
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot decode %s input: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("cannot decode %s input at %s: %s", e.Format, e.Path, e.Reason)
}

// Unwrap exposes the underlying validation error for errors.As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wrapDecode converts a model construction failure into a DecodeError
// carrying the offending path.
func wrapDecode(format string, err error) error {
	if err == nil {
		return nil
	}

	var missing *validate.MissingFieldError
	if errors.As(err, &missing) {
		return &DecodeError{Format: format, Path: missing.Path(), Reason: "missing required field", Err: err}
	}
	var coercion *validate.CoercionError
	if errors.As(err, &coercion) {
		return &DecodeError{
			Format: format,
			Path:   coercion.Entity + "." + coercion.Field,
			Reason: fmt.Sprintf("cannot coerce %v to %s", coercion.Value, coercion.Expected),
			Err:    err,
		}
	}
	var vocabulary *validate.VocabularyError
	if errors.As(err, &vocabulary) {
		return &DecodeError{
			Format: format,
			Path:   vocabulary.Entity + "." + vocabulary.Field,
			Reason: err.Error(),
			Err:    err,
		}
	}
	var unknown *model.UnknownFieldError
	if errors.As(err, &unknown) {
		return &DecodeError{
			Format: format,
			Path:   unknown.Entity + "." + unknown.Field,
			Reason: "unknown field",
			Err:    err,
		}
	}
	return &DecodeError{Format: format, Reason: err.Error(), Err: err}
}
