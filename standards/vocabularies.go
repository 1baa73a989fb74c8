package standards

import "github.com/mtstandards/mtmeta/vocab"

// builtinVocabularies are the controlled vocabularies shared across the
// standard entity definitions. They live here, once, so every schema that
// references one by name picks up the same canonical value set.
var builtinVocabularies = map[string][]string{
	"channel_type": {"electric", "magnetic", "auxiliary"},
	"data_type":    {"BBMT", "LPMT", "ULPMT", "AMT", "RMT", "MT"},
	"datum":        {"WGS84", "NAD83", "NAD27", "ETRS89", "GDA94", "other"},
	"orientation_method": {
		"compass", "GPS", "theodolite", "electric compass",
	},
	"reference_frame": {"geographic", "geomagnetic", "site layout"},
	"license_type": {
		"CC0-1.0", "CC-BY-4.0", "CC-BY-SA-4.0", "CC-BY-NC-4.0", "proprietary",
	},
	"filter_type":       {"zpk", "coefficient", "time delay", "fir"},
	"declination_model": {"WMM", "IGRF", "EMAG2", "unknown"},
}

// RegisterVocabularies registers the standard vocabularies into a catalog.
// It must run before loading the standard definitions against that catalog.
func RegisterVocabularies(cat *vocab.Catalog) error {
	for name, values := range builtinVocabularies {
		if err := cat.Register(name, values); err != nil {
			return err
		}
	}
	return nil
}
