// Package schema defines the field-descriptor and entity-schema model for
// MT metadata, and loads declarative JSON field-definition documents into
// validated in-memory schemas.
package schema

import (
	"fmt"
	"strings"
)

// Kind represents the declared kind of a field value.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindList
	KindEntity
	KindEntityList
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindEntity:
		return "entity"
	case KindEntityList:
		return "entity_list"
	default:
		return "unknown"
	}
}

// ValueType is a complete field type: a kind, plus the element kind when
// the kind is KindList.
type ValueType struct {
	Kind Kind
	Elem Kind // element kind for KindList; unused otherwise
}

// String returns the declaration form of the type, e.g. "list<float>".
func (t ValueType) String() string {
	if t.Kind == KindList {
		return fmt.Sprintf("list<%s>", t.Elem.String())
	}
	return t.Kind.String()
}

// IsScalar reports whether the type is a single scalar value.
func (t ValueType) IsScalar() bool {
	switch t.Kind {
	case KindString, KindInteger, KindFloat, KindBoolean:
		return true
	}
	return false
}

// IsEntity reports whether the type holds nested entities.
func (t ValueType) IsEntity() bool {
	return t.Kind == KindEntity || t.Kind == KindEntityList
}

// ParseValueType converts a declared type string to a ValueType. Accepted
// forms: "string", "integer" (or "int"), "float", "boolean" (or "bool"),
// and "list<T>" where T is one of the scalar forms.
func ParseValueType(s string) (ValueType, error) {
	name := strings.TrimSpace(strings.ToLower(s))

	if inner, ok := listElement(name); ok {
		elem, err := parseScalarKind(inner)
		if err != nil {
			return ValueType{}, fmt.Errorf("invalid list element type %q", inner)
		}
		return ValueType{Kind: KindList, Elem: elem}, nil
	}

	kind, err := parseScalarKind(name)
	if err != nil {
		return ValueType{}, err
	}
	return ValueType{Kind: kind}, nil
}

func listElement(name string) (string, bool) {
	if strings.HasPrefix(name, "list<") && strings.HasSuffix(name, ">") {
		return strings.TrimSpace(name[5 : len(name)-1]), true
	}
	return "", false
}

func parseScalarKind(name string) (Kind, error) {
	switch name {
	case "string":
		return KindString, nil
	case "integer", "int":
		return KindInteger, nil
	case "float":
		return KindFloat, nil
	case "boolean", "bool":
		return KindBoolean, nil
	default:
		return 0, fmt.Errorf("unknown value type: %s", name)
	}
}

// FieldDescriptor is one attribute's contract: its declared type, default,
// controlled vocabulary, aliases and documentation metadata.
type FieldDescriptor struct {
	Name     string
	Type     ValueType
	Required bool

	// Default is the value substituted for a legitimately absent optional
	// field. When non-nil it already satisfies Type and Vocabulary; the
	// loader enforces this.
	Default any

	// Vocabulary is the resolved set of allowed values in declared case.
	// Empty means unrestricted. VocabularyRef carries the catalog name when
	// the vocabulary was referenced rather than declared inline.
	Vocabulary    []string
	VocabularyRef string

	// Aliases are alternate accepted names. The first alias, when present,
	// is the write alias used by output dialects that require it.
	Aliases []string

	// Documentation-only metadata, preserved through spec round-trips but
	// never enforced at runtime.
	Units       string
	Description string
	Style       string
	Example     any

	// Schema is set for KindEntity and KindEntityList fields.
	Schema *EntitySchema
}

// WriteAlias returns the alias used on output, or "" when the field is
// always written under its canonical name.
func (d *FieldDescriptor) WriteAlias() string {
	if len(d.Aliases) == 0 {
		return ""
	}
	return d.Aliases[0]
}

// HasVocabulary reports whether the field is vocabulary-restricted.
func (d *FieldDescriptor) HasVocabulary() bool {
	return len(d.Vocabulary) > 0
}

// EntitySchema is a named, ordered collection of field descriptors.
// Declaration order is preserved and governs serialization key order.
// Nested schemas compose through KindEntity / KindEntityList fields.
type EntitySchema struct {
	Name    string
	fields  []*FieldDescriptor
	byName  map[string]*FieldDescriptor
	aliases map[string]string // lower-cased alias -> canonical name
}

// NewEntitySchema creates an empty schema with the given name.
func NewEntitySchema(name string) *EntitySchema {
	return &EntitySchema{
		Name:    name,
		byName:  make(map[string]*FieldDescriptor),
		aliases: make(map[string]string),
	}
}

// AddField appends a descriptor, rejecting duplicate names and alias
// collisions with existing names or aliases.
func (s *EntitySchema) AddField(d *FieldDescriptor) error {
	if d.Name == "" {
		return &SpecError{Source: s.Name, Reason: "field name must not be empty"}
	}
	if _, exists := s.byName[d.Name]; exists {
		return &SpecError{Source: s.Name, Field: d.Name, Reason: "duplicate field name"}
	}
	if canonical, exists := s.aliases[strings.ToLower(d.Name)]; exists {
		return &SpecError{
			Source: s.Name,
			Field:  d.Name,
			Reason: fmt.Sprintf("name collides with alias of field %q", canonical),
		}
	}

	for _, alias := range d.Aliases {
		key := strings.ToLower(alias)
		if _, exists := s.byName[alias]; exists {
			return &SpecError{
				Source: s.Name,
				Field:  d.Name,
				Reason: fmt.Sprintf("alias %q collides with an existing field name", alias),
			}
		}
		if other, exists := s.aliases[key]; exists && other != d.Name {
			return &SpecError{
				Source: s.Name,
				Field:  d.Name,
				Reason: fmt.Sprintf("alias %q is already claimed by field %q", alias, other),
			}
		}
	}

	if err := normalizeDefault(d); err != nil {
		return &SpecError{Source: s.Name, Field: d.Name, Reason: err.Error()}
	}

	s.fields = append(s.fields, d)
	s.byName[d.Name] = d
	for _, alias := range d.Aliases {
		s.aliases[strings.ToLower(alias)] = d.Name
	}
	return nil
}

// AddEntityField appends a nested single-entity field.
func (s *EntitySchema) AddEntityField(name string, child *EntitySchema, required bool) error {
	return s.AddField(&FieldDescriptor{
		Name:     name,
		Type:     ValueType{Kind: KindEntity},
		Required: required,
		Schema:   child,
	})
}

// AddEntityListField appends a nested ordered-sequence field.
func (s *EntitySchema) AddEntityListField(name string, child *EntitySchema, required bool) error {
	return s.AddField(&FieldDescriptor{
		Name:     name,
		Type:     ValueType{Kind: KindEntityList},
		Required: required,
		Schema:   child,
	})
}

// Field retrieves a descriptor by canonical name.
func (s *EntitySchema) Field(name string) (*FieldDescriptor, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// Canonical maps a supplied key, which may be a canonical name or a
// declared alias (case-insensitive), to the canonical field name.
func (s *EntitySchema) Canonical(key string) (string, bool) {
	if _, ok := s.byName[key]; ok {
		return key, true
	}
	if name, ok := s.aliases[strings.ToLower(key)]; ok {
		return name, true
	}
	return "", false
}

// Fields returns the descriptors in declaration order. The returned slice
// must not be mutated.
func (s *EntitySchema) Fields() []*FieldDescriptor {
	return s.fields
}

// FieldNames returns the canonical names in declaration order.
func (s *EntitySchema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, d := range s.fields {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of fields.
func (s *EntitySchema) Len() int {
	return len(s.fields)
}
