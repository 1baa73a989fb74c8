package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtstandards/mtmeta/vocab"
)

// rawFieldSpec mirrors one attribute's on-disk specification object.
type rawFieldSpec struct {
	Type        *string         `json:"type"`
	Required    bool            `json:"required"`
	Style       string          `json:"style"`
	Units       string          `json:"units"`
	Description string          `json:"description"`
	Options     json.RawMessage `json:"options"`
	Alias       json.RawMessage `json:"alias"`
	Example     json.RawMessage `json:"example"`
	Default     json.RawMessage `json:"default"`
}

// Load parses a field-definition document into an entity schema. The
// document is a JSON object mapping attribute names to specification
// objects. Field declaration order is preserved. Vocabulary references
// (an "options" value that is a string) are resolved against cat at load
// time; malformed type names, defaults violating the declared type or
// vocabulary, and duplicate field names all fail here, never at first use.
func Load(name string, data []byte, cat *vocab.Catalog) (*EntitySchema, error) {
	order, err := topLevelKeys(name, data)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]rawFieldSpec)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&specs); err != nil {
		return nil, &SpecError{Source: name, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	s := NewEntitySchema(name)
	for _, fieldName := range order {
		raw := specs[fieldName]
		d, err := buildDescriptor(name, fieldName, raw, cat)
		if err != nil {
			return nil, err
		}
		if err := s.AddField(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadFile reads and parses a field-definition document from disk. The
// schema takes its name from the file's base name without extension.
func LoadFile(path string, cat *vocab.Catalog) (*EntitySchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(name, data, cat)
}

func buildDescriptor(source, fieldName string, raw rawFieldSpec, cat *vocab.Catalog) (*FieldDescriptor, error) {
	if raw.Type == nil {
		return nil, &SpecError{Source: source, Field: fieldName, Reason: "missing required key \"type\""}
	}
	vt, err := ParseValueType(*raw.Type)
	if err != nil {
		return nil, &SpecError{Source: source, Field: fieldName, Reason: err.Error()}
	}

	d := &FieldDescriptor{
		Name:        fieldName,
		Type:        vt,
		Required:    raw.Required,
		Style:       raw.Style,
		Units:       raw.Units,
		Description: raw.Description,
	}

	if err := parseOptions(source, fieldName, raw.Options, cat, d); err != nil {
		return nil, err
	}

	d.Aliases, err = parseAliases(source, fieldName, raw.Alias)
	if err != nil {
		return nil, err
	}

	if len(raw.Example) > 0 {
		d.Example, err = decodeAny(raw.Example)
		if err != nil {
			return nil, &SpecError{Source: source, Field: fieldName, Reason: fmt.Sprintf("invalid example: %v", err)}
		}
	}

	if len(raw.Default) > 0 {
		d.Default, err = decodeAny(raw.Default)
		if err != nil {
			return nil, &SpecError{Source: source, Field: fieldName, Reason: fmt.Sprintf("invalid default: %v", err)}
		}
	}

	return d, nil
}

// parseOptions resolves the "options" key: null or an empty array mean
// unrestricted; an array of strings declares an inline vocabulary; a string
// references a named catalog entry.
func parseOptions(source, fieldName string, raw json.RawMessage, cat *vocab.Catalog, d *FieldDescriptor) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '"' {
		var ref string
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return &SpecError{Source: source, Field: fieldName, Reason: fmt.Sprintf("invalid options: %v", err)}
		}
		if ref == "" {
			return nil
		}
		if cat == nil {
			return &UnknownVocabularyError{Source: source, Field: fieldName, Vocabulary: ref}
		}
		values, ok := cat.Lookup(ref)
		if !ok {
			return &UnknownVocabularyError{Source: source, Field: fieldName, Vocabulary: ref}
		}
		d.Vocabulary = values
		d.VocabularyRef = ref
		return nil
	}

	var values []string
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return &SpecError{
			Source: source,
			Field:  fieldName,
			Reason: "options must be a string array or a vocabulary name",
		}
	}
	d.Vocabulary = values
	return nil
}

// parseAliases accepts null, a single string, or an array of strings.
func parseAliases(source, fieldName string, raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var one string
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, &SpecError{Source: source, Field: fieldName, Reason: fmt.Sprintf("invalid alias: %v", err)}
		}
		if one == "" {
			return nil, nil
		}
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, &SpecError{Source: source, Field: fieldName, Reason: "alias must be a string or a string array"}
	}
	return many, nil
}

func decodeAny(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// topLevelKeys scans the document's top-level object and returns its keys
// in declaration order, failing on duplicates.
func topLevelKeys(source string, data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, &SpecError{Source: source, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &SpecError{Source: source, Reason: "document must be a JSON object"}
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &SpecError{Source: source, Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}
		key := tok.(string)
		if seen[key] {
			return nil, &SpecError{Source: source, Field: key, Reason: "duplicate field name"}
		}
		seen[key] = true
		keys = append(keys, key)

		if err := skipValue(dec); err != nil {
			return nil, &SpecError{Source: source, Field: key, Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}
	}
	return keys, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	if delim == '{' || delim == '[' {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
