// Package model compiles entity schemas into reusable entity types and
// builds validated entity instances from them. A successfully constructed
// Instance satisfies every field's required/type/vocabulary contract at
// every level of nesting; there is no mutation path that bypasses
// validation.
package model

import (
	"fmt"

	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/validate"
)

// EntityType is a compiled schema: a constructor-like capability that
// produces validated instances. Compile resolves nested schemas
// recursively, so composition is transparent to callers.
type EntityType struct {
	schema *schema.EntitySchema
	fields []*compiledField
	byName map[string]*compiledField
}

type compiledField struct {
	desc  *schema.FieldDescriptor
	child *EntityType // set for entity and entity-list fields
}

// Compile builds an EntityType from a schema, compiling nested schemas
// along the way. Schemas must compose as a tree; a cycle fails.
func Compile(s *schema.EntitySchema) (*EntityType, error) {
	return compile(s, make(map[*schema.EntitySchema]bool))
}

// MustCompile is Compile for schemas known good at program start.
func MustCompile(s *schema.EntitySchema) *EntityType {
	t, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return t
}

func compile(s *schema.EntitySchema, visiting map[*schema.EntitySchema]bool) (*EntityType, error) {
	if visiting[s] {
		return nil, fmt.Errorf("schema %s is part of a composition cycle", s.Name)
	}
	visiting[s] = true
	defer delete(visiting, s)

	t := &EntityType{
		schema: s,
		byName: make(map[string]*compiledField),
	}

	for _, d := range s.Fields() {
		cf := &compiledField{desc: d}
		if d.Type.IsEntity() {
			if d.Schema == nil {
				return nil, fmt.Errorf("schema %s: field %s has no nested schema", s.Name, d.Name)
			}
			child, err := compile(d.Schema, visiting)
			if err != nil {
				return nil, err
			}
			cf.child = child
		}
		t.fields = append(t.fields, cf)
		t.byName[d.Name] = cf
	}
	return t, nil
}

// Name returns the entity type's name.
func (t *EntityType) Name() string {
	return t.schema.Name
}

// Schema returns the schema the type was compiled from.
func (t *EntityType) Schema() *schema.EntitySchema {
	return t.schema
}

// Nested returns the compiled type of a nested entity field.
func (t *EntityType) Nested(field string) (*EntityType, bool) {
	cf, ok := t.byName[field]
	if !ok || cf.child == nil {
		return nil, false
	}
	return cf.child, true
}

// New constructs a validated instance. Keys may be canonical field names or
// declared aliases; fields not supplied take their defaults; every supplied
// value passes through validate.Coerce. Nested entity fields accept an
// already-built *Instance or a raw map compiled against the nested schema.
// Construction fails on the first contract violation, with the error naming
// the offending field's dotted path.
func (t *EntityType) New(values map[string]any) (*Instance, error) {
	return t.build(values, t.schema.Name)
}

// UnknownFieldError reports an input key that matches neither a canonical
// field name nor a declared alias.
type UnknownFieldError struct {
	Entity string
	Field  string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q on %s", e.Field, e.Entity)
}

func (t *EntityType) build(values map[string]any, path string) (*Instance, error) {
	resolved, err := t.resolveKeys(values, path)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		typ:    t,
		values: make(map[string]any, len(t.fields)),
	}

	for _, cf := range t.fields {
		raw := resolved[cf.desc.Name]
		value, err := t.buildField(cf, raw, path)
		if err != nil {
			return nil, err
		}
		inst.values[cf.desc.Name] = value
	}
	return inst, nil
}

// resolveKeys rewrites aliases to canonical names and rejects unknown keys
// and alias/canonical duplicates.
func (t *EntityType) resolveKeys(values map[string]any, path string) (map[string]any, error) {
	resolved := make(map[string]any, len(values))
	for key, value := range values {
		canonical, ok := t.schema.Canonical(key)
		if !ok {
			return nil, &UnknownFieldError{Entity: path, Field: key}
		}
		if _, dup := resolved[canonical]; dup {
			return nil, fmt.Errorf("field %q on %s supplied more than once (alias and canonical name)",
				canonical, path)
		}
		resolved[canonical] = value
	}
	return resolved, nil
}

func (t *EntityType) buildField(cf *compiledField, raw any, path string) (any, error) {
	d := cf.desc
	switch d.Type.Kind {
	case schema.KindEntity:
		return t.buildNested(cf, raw, path)
	case schema.KindEntityList:
		return t.buildNestedList(cf, raw, path)
	default:
		return validate.Coerce(path, d, raw)
	}
}

func (t *EntityType) buildNested(cf *compiledField, raw any, path string) (any, error) {
	d := cf.desc
	fieldPath := path + "." + d.Name

	switch v := raw.(type) {
	case nil:
		if d.Required {
			return nil, &validate.MissingFieldError{Entity: path, Field: d.Name}
		}
		return (*Instance)(nil), nil
	case *Instance:
		if v.typ.schema != cf.child.schema {
			return nil, fmt.Errorf("field %q on %s: instance of %s given, %s expected",
				d.Name, path, v.typ.Name(), cf.child.Name())
		}
		return v, nil
	case map[string]any:
		return cf.child.build(v, fieldPath)
	default:
		return nil, &validate.CoercionError{
			Entity:   path,
			Field:    d.Name,
			Expected: "entity " + cf.child.Name(),
			Value:    raw,
		}
	}
}

func (t *EntityType) buildNestedList(cf *compiledField, raw any, path string) (any, error) {
	d := cf.desc

	var elems []any
	switch v := raw.(type) {
	case nil:
		if d.Required {
			return nil, &validate.MissingFieldError{Entity: path, Field: d.Name}
		}
		return ([]*Instance)(nil), nil
	case []*Instance:
		elems = make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
	case []any:
		elems = v
	case []map[string]any:
		elems = make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
	case map[string]any, *Instance:
		// A single entity promotes to a one-element sequence.
		elems = []any{v}
	default:
		return nil, &validate.CoercionError{
			Entity:   path,
			Field:    d.Name,
			Expected: "list of " + cf.child.Name(),
			Value:    raw,
		}
	}

	out := make([]*Instance, len(elems))
	for i, e := range elems {
		elemPath := fmt.Sprintf("%s.%s.%d", path, d.Name, i)
		switch ev := e.(type) {
		case *Instance:
			if ev.typ.schema != cf.child.schema {
				return nil, fmt.Errorf("%s: instance of %s given, %s expected",
					elemPath, ev.typ.Name(), cf.child.Name())
			}
			out[i] = ev
		case map[string]any:
			built, err := cf.child.build(ev, elemPath)
			if err != nil {
				return nil, err
			}
			out[i] = built
		default:
			return nil, &validate.CoercionError{
				Entity:   path,
				Field:    fmt.Sprintf("%s.%d", d.Name, i),
				Expected: "entity " + cf.child.Name(),
				Value:    e,
			}
		}
	}
	return out, nil
}

// Check validates a raw record against the type without constructing an
// instance, collecting every violation instead of stopping at the first.
// This backs validation reports in the CLI and the HTTP API.
func (t *EntityType) Check(values map[string]any) *validate.ValidationErrors {
	errs := validate.NewValidationErrors()
	t.check(values, t.schema.Name, errs)
	return errs
}

func (t *EntityType) check(values map[string]any, path string, errs *validate.ValidationErrors) {
	resolved := make(map[string]any, len(values))
	for key, value := range values {
		canonical, ok := t.schema.Canonical(key)
		if !ok {
			errs.Add(path+"."+key, "unknown field")
			continue
		}
		resolved[canonical] = value
	}

	for _, cf := range t.fields {
		raw := resolved[cf.desc.Name]
		fieldPath := path + "." + cf.desc.Name

		switch cf.desc.Type.Kind {
		case schema.KindEntity:
			if raw == nil {
				if cf.desc.Required {
					errs.Add(fieldPath, "missing required field")
				}
				continue
			}
			if m, ok := raw.(map[string]any); ok {
				cf.child.check(m, fieldPath, errs)
			} else if _, ok := raw.(*Instance); !ok {
				errs.Add(fieldPath, fmt.Sprintf("expected entity %s", cf.child.Name()))
			}
		case schema.KindEntityList:
			if raw == nil {
				if cf.desc.Required {
					errs.Add(fieldPath, "missing required field")
				}
				continue
			}
			if _, err := t.buildNestedList(cf, raw, path); err != nil {
				errs.Add(fieldPath, err.Error())
			}
		default:
			if _, err := validate.Coerce(path, cf.desc, raw); err != nil {
				errs.Add(fieldPath, err.Error())
			}
		}
	}
}
