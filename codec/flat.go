package codec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mtstandards/mtmeta/model"
)

// ToFlatMap converts an instance to a flat map with dotted-path keys.
// Members of entity sequences get an index segment, e.g. "channels.0.id".
// Scalar lists stay whole values under their own key. Nil nested entities
// contribute no keys.
func ToFlatMap(i *model.Instance) map[string]any {
	out := make(map[string]any)
	flatten(i, "", out)
	return out
}

func flatten(i *model.Instance, prefix string, out map[string]any) {
	for _, name := range i.Fields() {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		value, _ := i.Get(name)
		switch v := value.(type) {
		case *model.Instance:
			if v != nil {
				flatten(v, key, out)
			}
		case []*model.Instance:
			for idx, e := range v {
				flatten(e, fmt.Sprintf("%s.%d", key, idx), out)
			}
		default:
			out[key] = encodeValue(value)
		}
	}
}

// FromFlatMap rebuilds an instance from a flat dotted-key map. Numeric
// segments index into entity sequences and must form a contiguous run
// starting at zero.
func FromFlatMap(t *model.EntityType, flat map[string]any) (*model.Instance, error) {
	root := make(map[string]any)

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := insertFlat(root, key, flat[key]); err != nil {
			return nil, err
		}
	}

	nested, err := finalizeNode(root, "")
	if err != nil {
		return nil, err
	}

	inst, err := t.New(nested.(map[string]any))
	if err != nil {
		return nil, wrapDecode("flat", err)
	}
	return inst, nil
}

func insertFlat(root map[string]any, key string, value any) error {
	segments := strings.Split(key, ".")
	node := root
	for idx, seg := range segments[:len(segments)-1] {
		child, exists := node[seg]
		if !exists {
			next := make(map[string]any)
			node[seg] = next
			node = next
			continue
		}
		m, ok := child.(map[string]any)
		if !ok {
			return &DecodeError{
				Format: "flat",
				Path:   strings.Join(segments[:idx+1], "."),
				Reason: "path collides with a scalar value",
			}
		}
		node = m
	}

	leaf := segments[len(segments)-1]
	if _, exists := node[leaf]; exists {
		return &DecodeError{Format: "flat", Path: key, Reason: "duplicate key"}
	}
	node[leaf] = value
	return nil
}

// finalizeNode turns intermediate map nodes whose keys are all numeric into
// ordered slices, verifying the indices are contiguous from zero.
func finalizeNode(node any, path string) (any, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return node, nil
	}

	if len(m) > 0 && allNumericKeys(m) {
		out := make([]any, len(m))
		for key, child := range m {
			idx, _ := strconv.Atoi(key)
			if idx < 0 || idx >= len(m) {
				return nil, &DecodeError{
					Format: "flat",
					Path:   joinPath(path, key),
					Reason: fmt.Sprintf("list index %d is out of sequence (%d elements)", idx, len(m)),
				}
			}
			finalized, err := finalizeNode(child, joinPath(path, key))
			if err != nil {
				return nil, err
			}
			out[idx] = finalized
		}
		return out, nil
	}

	for key, child := range m {
		finalized, err := finalizeNode(child, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		m[key] = finalized
	}
	return m, nil
}

func allNumericKeys(m map[string]any) bool {
	for key := range m {
		if _, err := strconv.Atoi(key); err != nil {
			return false
		}
	}
	return true
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}
