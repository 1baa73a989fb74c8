package standards

import "github.com/mtstandards/mtmeta/codec"

// xmlPlans are the fixed attribute-vs-element mapping tables for the legacy
// XML dialects the library stays compatible with. Placement is dialect
// specific and deliberately not derived from the field definitions:
// identifier-like and vocabulary fields ride as attributes, free text and
// lists as child elements, and renamed elements follow the dialect.
var xmlPlans = map[string]*codec.XMLPlan{
	"station": {
		Root:       "Station",
		Attributes: []string{"id", "data_type"},
		Aliases: map[string]string{
			"runs":     "Run",
			"location": "Location",
		},
		Children: map[string]*codec.XMLPlan{
			"location": {
				Attributes: []string{"datum"},
			},
			"orientation": {
				Attributes: []string{"method", "reference_frame"},
			},
			"runs": runPlan,
		},
	},
	"run": runPlan,
	"pole_zero_filter": {
		Root:       "Filter",
		Attributes: []string{"name", "type"},
	},
	"coefficient_filter": {
		Root:       "Filter",
		Attributes: []string{"name", "type"},
	},
}

var runPlan = &codec.XMLPlan{
	Root:       "Run",
	Attributes: []string{"id", "sample_rate"},
	Aliases: map[string]string{
		"channels": "Channel",
	},
	Children: map[string]*codec.XMLPlan{
		"channels": {
			Attributes: []string{"component", "type", "units"},
		},
	},
}
