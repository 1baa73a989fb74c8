package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SpecJSON renders the schema back into its on-disk field-definition
// document form, preserving declaration order and the documentation-only
// keys (style, units, description, example). Nested entity fields are not
// part of the flat document format and are skipped; composition is applied
// programmatically after loading. Load(s.Name, s.SpecJSON(), cat) yields an
// equivalent schema.
func (s *EntitySchema) SpecJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for _, d := range s.fields {
		if d.Type.IsEntity() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := writeJSONString(&buf, d.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeFieldSpec(&buf, d); err != nil {
			return nil, fmt.Errorf("schema %s: field %s: %w", s.Name, d.Name, err)
		}
	}

	buf.WriteByte('}')

	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return indented.Bytes(), nil
}

func writeFieldSpec(buf *bytes.Buffer, d *FieldDescriptor) error {
	var options any
	switch {
	case d.VocabularyRef != "":
		options = d.VocabularyRef
	case len(d.Vocabulary) > 0:
		options = d.Vocabulary
	default:
		options = []string{}
	}

	aliases := d.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	keys := []struct {
		name  string
		value any
	}{
		{"type", d.Type.String()},
		{"required", d.Required},
		{"style", d.Style},
		{"units", d.Units},
		{"description", d.Description},
		{"options", options},
		{"alias", aliases},
		{"example", d.Example},
		{"default", d.Default},
	}

	buf.WriteByte('{')
	for i, kv := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, kv.name); err != nil {
			return err
		}
		buf.WriteByte(':')
		encoded, err := json.Marshal(kv.value)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
