package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MatchVocabulary performs the library's vocabulary membership check:
// comparison is case-insensitive, and a successful match returns the
// allowed value in its declared case.
func (d *FieldDescriptor) MatchVocabulary(value string) (string, bool) {
	for _, allowed := range d.Vocabulary {
		if strings.EqualFold(value, allowed) {
			return allowed, true
		}
	}
	return "", false
}

// normalizeDefault converts a declared default into the canonical in-memory
// representation for the field's type and verifies vocabulary membership.
// JSON documents decode all numbers as json.Number, so numeric defaults are
// narrowed here, at load time.
func normalizeDefault(d *FieldDescriptor) error {
	if d.Default == nil {
		return nil
	}

	normalized, err := normalizeValue(d.Type, d.Default)
	if err != nil {
		return err
	}

	if d.HasVocabulary() {
		normalized, err = canonicalizeVocabulary(d, normalized)
		if err != nil {
			return err
		}
	}

	d.Default = normalized
	return nil
}

func canonicalizeVocabulary(d *FieldDescriptor, v any) (any, error) {
	switch value := v.(type) {
	case string:
		canonical, ok := d.MatchVocabulary(value)
		if !ok {
			return nil, fmt.Errorf("default %q is not in vocabulary %v", value, d.Vocabulary)
		}
		return canonical, nil
	case []string:
		out := make([]string, len(value))
		for i, elem := range value {
			canonical, ok := d.MatchVocabulary(elem)
			if !ok {
				return nil, fmt.Errorf("default element %q is not in vocabulary %v", elem, d.Vocabulary)
			}
			out[i] = canonical
		}
		return out, nil
	default:
		return v, nil
	}
}

func normalizeValue(t ValueType, v any) (any, error) {
	switch t.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("default %v does not match type %s", v, t)
		}
		return s, nil

	case KindInteger:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("default %v does not match type %s", v, t)
			}
			return i, nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)

	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("default %v does not match type %s", v, t)
			}
			return f, nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("default %v does not match type %s", v, t)
		}
		return b, nil

	case KindList:
		return normalizeListValue(t, v)

	case KindEntity, KindEntityList:
		return nil, fmt.Errorf("nested entity fields cannot declare defaults")
	}
	return nil, fmt.Errorf("default %v does not match type %s", v, t)
}

func normalizeListValue(t ValueType, v any) (any, error) {
	elemType := ValueType{Kind: t.Elem}

	var elems []any
	switch list := v.(type) {
	case []any:
		elems = list
	case []string:
		if t.Elem == KindString {
			return append([]string(nil), list...), nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)
	case []float64:
		if t.Elem == KindFloat {
			return append([]float64(nil), list...), nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)
	case []int64:
		if t.Elem == KindInteger {
			return append([]int64(nil), list...), nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)
	case []bool:
		if t.Elem == KindBoolean {
			return append([]bool(nil), list...), nil
		}
		return nil, fmt.Errorf("default %v does not match type %s", v, t)
	default:
		return nil, fmt.Errorf("default %v does not match type %s", v, t)
	}

	switch t.Elem {
	case KindString:
		out := make([]string, len(elems))
		for i, e := range elems {
			n, err := normalizeValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = n.(string)
		}
		return out, nil
	case KindInteger:
		out := make([]int64, len(elems))
		for i, e := range elems {
			n, err := normalizeValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = n.(int64)
		}
		return out, nil
	case KindFloat:
		out := make([]float64, len(elems))
		for i, e := range elems {
			n, err := normalizeValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = n.(float64)
		}
		return out, nil
	case KindBoolean:
		out := make([]bool, len(elems))
		for i, e := range elems {
			n, err := normalizeValue(elemType, e)
			if err != nil {
				return nil, err
			}
			out[i] = n.(bool)
		}
		return out, nil
	}
	return nil, fmt.Errorf("default %v does not match type %s", v, t)
}
