// Package standards ships the built-in MT entity definitions: embedded
// field-definition documents, the controlled vocabularies they share, the
// composed survey/station/run/channel/filter schemas, and the XML dialect
// plans external formats require. Downstream format readers obtain compiled
// entity types from here instead of loading schema documents themselves.
package standards

import (
	"embed"
	"fmt"
	"sync"

	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/vocab"
)

//go:embed definitions/*.json
var definitionFS embed.FS

// The default catalog carries the built-in vocabularies from the moment
// this package is linked in, so user field-spec documents loaded against
// vocab.Default() can reference them before Default() has run.
func init() {
	if err := RegisterVocabularies(vocab.Default()); err != nil {
		panic(err)
	}
}

// Library is the full set of standard schemas and their compiled types.
type Library struct {
	Registry *schema.Registry
	types    map[string]*model.EntityType
}

// Open loads the embedded definitions against the given catalog, composes
// the nested entity structure, and compiles every entity type. The catalog
// must already hold the standard vocabularies (RegisterVocabularies).
func Open(cat *vocab.Catalog) (*Library, error) {
	docs := make(map[string]*schema.EntitySchema)
	for _, name := range []string{
		"location", "person", "time_period", "instrument", "orientation",
		"data_quality", "provenance", "survey", "station", "run", "channel",
		"electric", "magnetic", "pole_zero_filter", "coefficient_filter",
	} {
		data, err := definitionFS.ReadFile("definitions/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("missing embedded definition %s: %w", name, err)
		}
		s, err := schema.Load(name, data, cat)
		if err != nil {
			return nil, err
		}
		docs[name] = s
	}

	if err := compose(docs); err != nil {
		return nil, err
	}

	lib := &Library{
		Registry: schema.NewRegistry(),
		types:    make(map[string]*model.EntityType),
	}
	for name, s := range docs {
		if err := lib.Registry.Register(s); err != nil {
			return nil, err
		}
		t, err := model.Compile(s)
		if err != nil {
			return nil, err
		}
		lib.types[name] = t
	}
	return lib, nil
}

// compose wires the nested entity structure between the flat documents.
// The on-disk field-definition format is flat; composition is declared
// here, in one place.
func compose(docs map[string]*schema.EntitySchema) error {
	channelExtras := []struct {
		name   string
		extras *schema.EntitySchema
	}{
		{"electric", docs["electric"]},
		{"magnetic", docs["magnetic"]},
	}
	for _, spec := range channelExtras {
		merged := schema.NewEntitySchema(spec.name)
		if err := mergeFields(merged, docs["channel"]); err != nil {
			return err
		}
		if err := mergeFields(merged, spec.extras); err != nil {
			return err
		}
		docs[spec.name] = merged
	}

	// auxiliary channels carry no extra fields beyond the generic channel
	auxiliary := schema.NewEntitySchema("auxiliary")
	if err := mergeFields(auxiliary, docs["channel"]); err != nil {
		return err
	}
	docs["auxiliary"] = auxiliary

	type nested struct {
		parent   string
		field    string
		child    string
		required bool
		list     bool
	}
	for _, n := range []nested{
		{"channel", "time_period", "time_period", false, false},
		{"channel", "sensor", "instrument", false, false},
		{"electric", "time_period", "time_period", false, false},
		{"electric", "sensor", "instrument", false, false},
		{"magnetic", "time_period", "time_period", false, false},
		{"magnetic", "sensor", "instrument", false, false},
		{"auxiliary", "time_period", "time_period", false, false},
		{"auxiliary", "sensor", "instrument", false, false},
		{"run", "time_period", "time_period", false, false},
		{"run", "data_logger", "instrument", false, false},
		{"run", "acquired_by", "person", false, false},
		{"run", "data_quality", "data_quality", false, false},
		{"run", "channels", "channel", false, true},
		{"station", "location", "location", true, false},
		{"station", "orientation", "orientation", false, false},
		{"station", "time_period", "time_period", false, false},
		{"station", "provenance", "provenance", false, false},
		{"station", "runs", "run", false, true},
		{"provenance", "creator", "person", false, false},
		{"survey", "acquired_by", "person", false, false},
		{"survey", "time_period", "time_period", false, false},
		{"survey", "stations", "station", false, true},
	} {
		parent := docs[n.parent]
		child := docs[n.child]
		var err error
		if n.list {
			err = parent.AddEntityListField(n.field, child, n.required)
		} else {
			err = parent.AddEntityField(n.field, child, n.required)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeFields(dst, src *schema.EntitySchema) error {
	for _, d := range src.Fields() {
		if err := dst.AddField(d); err != nil {
			return err
		}
	}
	return nil
}

// Type returns the compiled type of a standard entity.
func (l *Library) Type(name string) (*model.EntityType, bool) {
	t, ok := l.types[name]
	return t, ok
}

// Types returns the compiled types keyed by entity name.
func (l *Library) Types() map[string]*model.EntityType {
	out := make(map[string]*model.EntityType, len(l.types))
	for name, t := range l.types {
		out[name] = t
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the library built from the embedded definitions against
// the default vocabulary catalog. The embedded documents are part of the
// binary, so a failure here is a programming error and panics.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Open(vocab.Default())
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultLib
}

// Survey returns the compiled survey entity type.
func Survey() *model.EntityType { return mustType("survey") }

// Station returns the compiled station entity type.
func Station() *model.EntityType { return mustType("station") }

// Run returns the compiled run entity type.
func Run() *model.EntityType { return mustType("run") }

// Channel returns the compiled generic channel entity type.
func Channel() *model.EntityType { return mustType("channel") }

// Electric returns the compiled electric channel entity type.
func Electric() *model.EntityType { return mustType("electric") }

// Magnetic returns the compiled magnetic channel entity type.
func Magnetic() *model.EntityType { return mustType("magnetic") }

// Auxiliary returns the compiled auxiliary channel entity type.
func Auxiliary() *model.EntityType { return mustType("auxiliary") }

// PoleZeroFilter returns the compiled pole-zero filter entity type.
func PoleZeroFilter() *model.EntityType { return mustType("pole_zero_filter") }

// CoefficientFilter returns the compiled coefficient filter entity type.
func CoefficientFilter() *model.EntityType { return mustType("coefficient_filter") }

func mustType(name string) *model.EntityType {
	t, ok := Default().Type(name)
	if !ok {
		panic(fmt.Sprintf("standard entity %s is not registered", name))
	}
	return t
}

// XMLPlan returns the fixed XML dialect plan for a standard entity, or nil
// when the entity serializes with default element placement.
func XMLPlan(name string) *codec.XMLPlan {
	return xmlPlans[name]
}
