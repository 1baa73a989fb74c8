package codec

import (
	"bytes"
	"encoding/json"

	"github.com/mtstandards/mtmeta/model"
)

// ToJSON serializes an instance to compact JSON text with keys in declared
// field order. Floats keep their shortest lossless representation; nil
// values serialize as null.
func ToJSON(i *model.Instance) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeInstanceJSON(&buf, i); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJSONIndent serializes an instance to indented JSON text.
func ToJSONIndent(i *model.Instance) ([]byte, error) {
	compact, err := ToJSON(i)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeInstanceJSON(buf *bytes.Buffer, i *model.Instance) error {
	buf.WriteByte('{')
	for idx, name := range i.Fields() {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, _ := i.Get(name)
		if err := writeValueJSON(buf, value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValueJSON(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *model.Instance:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		return writeInstanceJSON(buf, v)
	case []*model.Instance:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('[')
		for idx, e := range v {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := writeInstanceJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}
}

// FromJSON parses JSON text and compiles it against an entity type. Numbers
// decode through json.Number, so integers and floats never lose precision
// on the way in.
func FromJSON(t *model.EntityType, data []byte) (*model.Instance, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, &DecodeError{Format: "json", Reason: err.Error(), Err: err}
	}

	inst, err := t.New(m)
	if err != nil {
		return nil, wrapDecode("json", err)
	}
	return inst, nil
}
