package validate

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mtstandards/mtmeta/schema"
)

// Coerce narrows a raw value to the descriptor's declared type and enforces
// vocabulary membership. It is a pure function; entity names the owning
// entity (a dotted path when nested) purely for error context.
//
// Rules, in order: nil on a required field with no declared default fails;
// any other nil yields an independent copy of the default; an exact type
// match is accepted as-is; otherwise only the narrow explicit conversions
// are tried (numeric string to int/float, bool-like string to bool, single
// scalar to one-element list). Vocabulary matching is case-insensitive and
// the stored value is canonicalized to the vocabulary's declared case.
func Coerce(entity string, d *schema.FieldDescriptor, raw any) (any, error) {
	if raw == nil {
		if d.Required && d.Default == nil {
			return nil, &MissingFieldError{Entity: entity, Field: d.Name}
		}
		return DefaultValue(d), nil
	}

	var (
		value any
		err   error
	)
	if d.Type.Kind == schema.KindList {
		value, err = coerceList(entity, d, raw)
	} else {
		value, err = coerceScalar(entity, d, d.Type.Kind, raw)
	}
	if err != nil {
		return nil, err
	}

	if d.HasVocabulary() {
		value, err = applyVocabulary(entity, d, value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// DefaultValue returns the descriptor's default as an independent copy, so
// callers can never share a mutable default container.
func DefaultValue(d *schema.FieldDescriptor) any {
	switch v := d.Default.(type) {
	case []string:
		return append([]string(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	case []bool:
		return append([]bool(nil), v...)
	default:
		return v
	}
}

func coerceScalar(entity string, d *schema.FieldDescriptor, kind schema.Kind, raw any) (any, error) {
	switch kind {
	case schema.KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}

	case schema.KindInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return i, nil
			}
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return i, nil
			}
		}

	case schema.KindFloat:
		switch v := raw.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, nil
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}

	case schema.KindBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes":
				return true, nil
			case "false", "no":
				return false, nil
			}
		}
	}

	return nil, &CoercionError{
		Entity:   entity,
		Field:    d.Name,
		Expected: kind.String(),
		Value:    raw,
	}
}

func coerceList(entity string, d *schema.FieldDescriptor, raw any) (any, error) {
	elems, ok := asSlice(raw)
	if !ok {
		// Single scalar promotes to a one-element list.
		elems = []any{raw}
	}

	switch d.Type.Elem {
	case schema.KindString:
		out := make([]string, len(elems))
		for i, e := range elems {
			v, err := coerceScalar(entity, d, schema.KindString, e)
			if err != nil {
				return nil, err
			}
			out[i] = v.(string)
		}
		return out, nil

	case schema.KindInteger:
		out := make([]int64, len(elems))
		for i, e := range elems {
			v, err := coerceScalar(entity, d, schema.KindInteger, e)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int64)
		}
		return out, nil

	case schema.KindFloat:
		out := make([]float64, len(elems))
		for i, e := range elems {
			v, err := coerceScalar(entity, d, schema.KindFloat, e)
			if err != nil {
				return nil, err
			}
			out[i] = v.(float64)
		}
		return out, nil

	case schema.KindBoolean:
		out := make([]bool, len(elems))
		for i, e := range elems {
			v, err := coerceScalar(entity, d, schema.KindBoolean, e)
			if err != nil {
				return nil, err
			}
			out[i] = v.(bool)
		}
		return out, nil
	}

	return nil, &CoercionError{
		Entity:   entity,
		Field:    d.Name,
		Expected: d.Type.String(),
		Value:    raw,
	}
}

func asSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	case []bool:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

func applyVocabulary(entity string, d *schema.FieldDescriptor, value any) (any, error) {
	switch v := value.(type) {
	case string:
		canonical, ok := d.MatchVocabulary(v)
		if !ok {
			return nil, &VocabularyError{Entity: entity, Field: d.Name, Value: v, Allowed: d.Vocabulary}
		}
		return canonical, nil

	case []string:
		out := make([]string, len(v))
		for i, elem := range v {
			canonical, ok := d.MatchVocabulary(elem)
			if !ok {
				return nil, &VocabularyError{Entity: entity, Field: d.Name, Value: elem, Allowed: d.Vocabulary}
			}
			out[i] = canonical
		}
		return out, nil

	default:
		// Vocabularies restrict string-valued fields only.
		return value, nil
	}
}
