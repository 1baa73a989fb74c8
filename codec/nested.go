package codec

import (
	"github.com/mtstandards/mtmeta/model"
)

// ToNestedMap converts an instance to a nested map keyed by canonical field
// names, recursing into nested entities and ordered sequences. Key order in
// the map itself is unordered; the declared order is applied by ToJSON and
// by callers iterating instance.Fields().
func ToNestedMap(i *model.Instance) map[string]any {
	out := make(map[string]any, len(i.Fields()))
	for _, name := range i.Fields() {
		value, _ := i.Get(name)
		out[name] = encodeValue(value)
	}
	return out
}

func encodeValue(value any) any {
	switch v := value.(type) {
	case *model.Instance:
		if v == nil {
			return nil
		}
		return ToNestedMap(v)
	case []*model.Instance:
		if v == nil {
			return nil
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToNestedMap(e)
		}
		return out
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

// FromNestedMap compiles a nested map against an entity type, producing a
// validated instance. Failures become DecodeErrors naming the offending
// path.
func FromNestedMap(t *model.EntityType, m map[string]any) (*model.Instance, error) {
	inst, err := t.New(m)
	if err != nil {
		return nil, wrapDecode("nested", err)
	}
	return inst, nil
}
