package model

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mtstandards/mtmeta/schema"
)

// Instance is a validated entity built from a compiled type: a mapping from
// canonical field name to a scalar, a nested *Instance, or an ordered
// []*Instance. All mutation goes through Set / SetPath, which re-run the
// same validation as construction.
type Instance struct {
	typ    *EntityType
	values map[string]any
}

// Type returns the instance's compiled entity type.
func (i *Instance) Type() *EntityType {
	return i.typ
}

// Get returns the current value of a field by canonical name or alias.
func (i *Instance) Get(name string) (any, bool) {
	canonical, ok := i.typ.schema.Canonical(name)
	if !ok {
		return nil, false
	}
	v, ok := i.values[canonical]
	return v, ok
}

// Set assigns a field, re-running coercion and vocabulary validation. The
// key may be a canonical name or an alias; nested fields accept instances
// or raw maps exactly as construction does.
func (i *Instance) Set(name string, value any) error {
	canonical, ok := i.typ.schema.Canonical(name)
	if !ok {
		return &UnknownFieldError{Entity: i.typ.Name(), Field: name}
	}

	cf := i.typ.byName[canonical]
	validated, err := i.typ.buildField(cf, value, i.typ.Name())
	if err != nil {
		return err
	}
	i.values[canonical] = validated
	return nil
}

// GetPath resolves a dotted path, with numeric segments indexing into
// entity sequences, e.g. "runs.0.sample_rate".
func (i *Instance) GetPath(path string) (any, error) {
	segments := strings.Split(path, ".")
	var current any = i

	for idx := 0; idx < len(segments); idx++ {
		seg := segments[idx]
		switch node := current.(type) {
		case *Instance:
			canonical, ok := node.typ.schema.Canonical(seg)
			if !ok {
				return nil, fmt.Errorf("%s: no field %q on %s",
					path, seg, node.typ.Name())
			}
			current = node.values[canonical]
		case []*Instance:
			n, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("%s: expected list index, got %q", path, seg)
			}
			if n < 0 || n >= len(node) {
				return nil, fmt.Errorf("%s: index %d out of range (%d elements)", path, n, len(node))
			}
			current = node[n]
		default:
			return nil, fmt.Errorf("%s: %q is not traversable", path, strings.Join(segments[:idx], "."))
		}
	}
	return current, nil
}

// SetPath assigns through a dotted path, validating the leaf assignment.
func (i *Instance) SetPath(path string, value any) error {
	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		return i.Set(path, value)
	}

	parentPath := strings.Join(segments[:len(segments)-1], ".")
	leaf := segments[len(segments)-1]

	parent, err := i.GetPath(parentPath)
	if err != nil {
		return err
	}
	target, ok := parent.(*Instance)
	if !ok {
		return fmt.Errorf("%s: %q is not an entity", path, parentPath)
	}
	return target.Set(leaf, value)
}

// Equal reports field-by-field equality, recursing through nested entities
// and sequences.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.typ.schema != other.typ.schema {
		return false
	}
	for _, cf := range i.typ.fields {
		if !equalValue(i.values[cf.desc.Name], other.values[cf.desc.Name]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *Instance:
		bv, ok := b.(*Instance)
		if !ok {
			return false
		}
		if av == nil || bv == nil {
			return av == nil && bv == nil
		}
		return av.Equal(bv)
	case []*Instance:
		bv, ok := b.([]*Instance)
		if !ok || len(av) != len(bv) {
			return false
		}
		for idx := range av {
			if !av[idx].Equal(bv[idx]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Revalidate re-runs the validator over the instance's current values. For
// a validated instance this never fails and never changes a value; it
// exists so callers can assert the invariant cheaply.
func (i *Instance) Revalidate() error {
	for _, cf := range i.typ.fields {
		if cf.desc.Type.IsEntity() {
			continue
		}
		current := i.values[cf.desc.Name]
		validated, err := i.typ.buildField(cf, current, i.typ.Name())
		if err != nil {
			return err
		}
		i.values[cf.desc.Name] = validated
	}

	for _, cf := range i.typ.fields {
		switch v := i.values[cf.desc.Name].(type) {
		case *Instance:
			if v != nil {
				if err := v.Revalidate(); err != nil {
					return err
				}
			}
		case []*Instance:
			for _, e := range v {
				if err := e.Revalidate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Fields returns the canonical field names in declared order.
func (i *Instance) Fields() []string {
	return i.typ.schema.FieldNames()
}

// Descriptor returns the field descriptor for a canonical name or alias.
func (i *Instance) Descriptor(name string) (*schema.FieldDescriptor, bool) {
	canonical, ok := i.typ.schema.Canonical(name)
	if !ok {
		return nil, false
	}
	return i.typ.schema.Field(canonical)
}
