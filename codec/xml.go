package codec

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/schema"
)

// Element is a generic XML element tree, the unit the XML conversions work
// in. It marshals and unmarshals with encoding/xml.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// XMLPlan is the fixed attribute-vs-element mapping for one entity in one
// XML dialect. Placement is never derived generically: each legacy dialect
// ships its own plan. Fields listed in Attributes are written as XML
// attributes; everything else becomes child elements. Aliases renames
// canonical fields on output where the dialect requires it; Children
// carries the plans of nested entity fields.
//
// A nil plan serializes every field as a child element under its canonical
// name.
type XMLPlan struct {
	Root       string
	Attributes []string
	Aliases    map[string]string
	Children   map[string]*XMLPlan
}

func (p *XMLPlan) rootName(fallback string) string {
	if p != nil && p.Root != "" {
		return p.Root
	}
	return fallback
}

func (p *XMLPlan) emitName(field string) string {
	if p != nil {
		if alias, ok := p.Aliases[field]; ok {
			return alias
		}
	}
	return field
}

func (p *XMLPlan) isAttribute(field string) bool {
	if p == nil {
		return false
	}
	for _, name := range p.Attributes {
		if name == field {
			return true
		}
	}
	return false
}

func (p *XMLPlan) child(field string) *XMLPlan {
	if p == nil {
		return nil
	}
	return p.Children[field]
}

// resolve maps an incoming XML name to the canonical field name, first
// through the plan's output aliases, then through the schema's declared
// aliases.
func (p *XMLPlan) resolve(s *schema.EntitySchema, name string) (string, bool) {
	if p != nil {
		for canonical, alias := range p.Aliases {
			if strings.EqualFold(alias, name) {
				return canonical, true
			}
		}
	}
	return s.Canonical(name)
}

// ToXML converts an instance to an XML element tree according to the plan.
// Nil fields are omitted; scalar lists become a container element holding
// one <item> per value; entity sequences become repeated elements.
func ToXML(i *model.Instance, plan *XMLPlan) (*Element, error) {
	el := &Element{
		XMLName: xml.Name{Local: plan.rootName(i.Type().Name())},
	}

	for _, name := range i.Fields() {
		value, _ := i.Get(name)
		if isNilValue(value) {
			continue
		}

		d, _ := i.Descriptor(name)
		emit := plan.emitName(name)

		switch v := value.(type) {
		case *model.Instance:
			child, err := ToXML(v, plan.child(name))
			if err != nil {
				return nil, err
			}
			child.XMLName = xml.Name{Local: emit}
			el.Children = append(el.Children, child)

		case []*model.Instance:
			for _, e := range v {
				child, err := ToXML(e, plan.child(name))
				if err != nil {
					return nil, err
				}
				child.XMLName = xml.Name{Local: emit}
				el.Children = append(el.Children, child)
			}

		default:
			if d.Type.Kind == schema.KindList {
				container := &Element{XMLName: xml.Name{Local: emit}}
				for _, item := range listItems(value) {
					container.Children = append(container.Children, &Element{
						XMLName: xml.Name{Local: "item"},
						Text:    item,
					})
				}
				el.Children = append(el.Children, container)
				continue
			}

			text := formatScalar(value)
			if plan.isAttribute(name) {
				el.Attrs = append(el.Attrs, xml.Attr{
					Name:  xml.Name{Local: emit},
					Value: text,
				})
				continue
			}
			el.Children = append(el.Children, &Element{
				XMLName: xml.Name{Local: emit},
				Text:    text,
			})
		}
	}
	return el, nil
}

// EncodeXML renders an instance as indented XML text.
func EncodeXML(i *model.Instance, plan *XMLPlan) ([]byte, error) {
	el, err := ToXML(i, plan)
	if err != nil {
		return nil, err
	}
	return xml.MarshalIndent(el, "", "    ")
}

// FromXML compiles an XML element tree against an entity type, reversing
// the plan's attribute placement and aliasing. Unknown attributes or
// elements fail with a DecodeError naming the offending path. Element text
// for string fields is taken verbatim; text for other scalar kinds is
// whitespace-trimmed before coercion.
func FromXML(t *model.EntityType, plan *XMLPlan, el *Element) (*model.Instance, error) {
	raw, err := elementToMap(t, plan, el, t.Name())
	if err != nil {
		return nil, err
	}
	inst, err := t.New(raw)
	if err != nil {
		return nil, wrapDecode("xml", err)
	}
	return inst, nil
}

// DecodeXML parses XML text and compiles it against an entity type.
func DecodeXML(t *model.EntityType, plan *XMLPlan, data []byte) (*model.Instance, error) {
	var el Element
	if err := xml.Unmarshal(data, &el); err != nil {
		return nil, &DecodeError{Format: "xml", Reason: err.Error(), Err: err}
	}
	return FromXML(t, plan, &el)
}

func elementToMap(t *model.EntityType, plan *XMLPlan, el *Element, path string) (map[string]any, error) {
	s := t.Schema()
	raw := make(map[string]any)

	for _, attr := range el.Attrs {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		canonical, ok := plan.resolve(s, attr.Name.Local)
		if !ok {
			return nil, &DecodeError{
				Format: "xml",
				Path:   path + "." + attr.Name.Local,
				Reason: "unknown attribute",
			}
		}
		if _, dup := raw[canonical]; dup {
			return nil, &DecodeError{Format: "xml", Path: path + "." + canonical, Reason: "duplicate value"}
		}
		raw[canonical] = attr.Value
	}

	for _, child := range el.Children {
		canonical, ok := plan.resolve(s, child.XMLName.Local)
		if !ok {
			return nil, &DecodeError{
				Format: "xml",
				Path:   path + "." + child.XMLName.Local,
				Reason: "unknown element",
			}
		}
		d, _ := s.Field(canonical)
		childPath := path + "." + canonical

		switch d.Type.Kind {
		case schema.KindEntity:
			nested, _ := t.Nested(canonical)
			m, err := elementToMap(nested, plan.child(canonical), child, childPath)
			if err != nil {
				return nil, err
			}
			if _, dup := raw[canonical]; dup {
				return nil, &DecodeError{Format: "xml", Path: childPath, Reason: "duplicate value"}
			}
			raw[canonical] = m

		case schema.KindEntityList:
			nested, _ := t.Nested(canonical)
			idx := 0
			if existing, ok := raw[canonical].([]any); ok {
				idx = len(existing)
			}
			m, err := elementToMap(nested, plan.child(canonical), child,
				fmt.Sprintf("%s.%d", childPath, idx))
			if err != nil {
				return nil, err
			}
			list, _ := raw[canonical].([]any)
			raw[canonical] = append(list, m)

		case schema.KindList:
			items := make([]any, 0, len(child.Children))
			for _, item := range child.Children {
				items = append(items, scalarText(item.Text, d.Type.Elem))
			}
			if _, dup := raw[canonical]; dup {
				return nil, &DecodeError{Format: "xml", Path: childPath, Reason: "duplicate value"}
			}
			raw[canonical] = items

		default:
			if _, dup := raw[canonical]; dup {
				return nil, &DecodeError{Format: "xml", Path: childPath, Reason: "duplicate value"}
			}
			raw[canonical] = scalarText(child.Text, d.Type.Kind)
		}
	}

	return raw, nil
}

// scalarText prepares element text for coercion. String values keep their
// whitespace verbatim so they survive the round trip; every other kind
// tolerates the surrounding whitespace pretty-printed documents carry.
func scalarText(text string, kind schema.Kind) string {
	if kind == schema.KindString {
		return text
	}
	return strings.TrimSpace(text)
}

func isNilValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *model.Instance:
		return v == nil
	case []*model.Instance:
		return v == nil
	case []string:
		return v == nil
	case []int64:
		return v == nil
	case []float64:
		return v == nil
	case []bool:
		return v == nil
	default:
		return false
	}
}

func listItems(value any) []string {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []int64:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = strconv.FormatInt(e, 10)
		}
		return out
	case []float64:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = strconv.FormatFloat(e, 'g', -1, 64)
		}
		return out
	case []bool:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = strconv.FormatBool(e)
		}
		return out
	default:
		return nil
	}
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
