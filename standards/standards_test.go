package standards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/vocab"
)

func TestBuiltinVocabulariesRegisteredAtInit(t *testing.T) {
	// Linking this package is enough; Default() need not have run.
	for _, name := range []string{"channel_type", "datum", "filter_type"} {
		_, ok := vocab.Lookup(name)
		assert.True(t, ok, "vocabulary %s should be in the default catalog", name)
	}
}

func TestDefaultLibraryLoads(t *testing.T) {
	lib := Default()

	for _, name := range []string{
		"survey", "station", "run", "channel", "electric", "magnetic",
		"auxiliary", "pole_zero_filter", "coefficient_filter", "location",
	} {
		_, ok := lib.Type(name)
		assert.True(t, ok, "standard entity %s should be registered", name)
	}
}

func TestStationComposition(t *testing.T) {
	station := Station().Schema()

	location, ok := station.Field("location")
	require.True(t, ok)
	assert.True(t, location.Required, "a station always has a location")
	assert.True(t, location.Type.IsEntity())

	runs, ok := station.Field("runs")
	require.True(t, ok)
	assert.True(t, runs.Type.IsEntity())

	run, ok := Station().Nested("runs")
	require.True(t, ok)
	_, ok = run.Schema().Field("channels")
	assert.True(t, ok, "runs carry an ordered channel sequence")
}

func TestElectricExtendsChannel(t *testing.T) {
	electric := Electric().Schema()

	for _, name := range []string{"component", "type", "sample_rate", "dipole_length"} {
		_, ok := electric.Field(name)
		assert.True(t, ok, "electric channel should have %s", name)
	}

	_, ok := Auxiliary().Schema().Field("dipole_length")
	assert.False(t, ok, "auxiliary channels carry no electric fields")
}

func TestStationDocument(t *testing.T) {
	inst, err := Station().New(map[string]any{
		"id":        "mt001",
		"data_type": "bbmt",
		"location":  map[string]any{"lat": 40.2, "lon": -112.3, "elev": 1414.0},
		"runs": []any{
			map[string]any{
				"id":          "mt001a",
				"sample_rate": 256.0,
				"channels": []any{
					map[string]any{"component": "ex", "type": "ELECTRIC"},
				},
			},
		},
	})
	require.NoError(t, err)

	dataType, _ := inst.Get("data_type")
	assert.Equal(t, "BBMT", dataType, "vocabulary values canonicalize to declared case")

	channelType, err := inst.GetPath("runs.0.channels.0.type")
	require.NoError(t, err)
	assert.Equal(t, "electric", channelType)

	datum, err := inst.GetPath("location.datum")
	require.NoError(t, err)
	assert.Equal(t, "WGS84", datum, "datum defaults from the definition document")
}

func TestChannelTypeDefaultsWhenOmitted(t *testing.T) {
	inst, err := Channel().New(map[string]any{"component": "ex"})
	require.NoError(t, err)

	channelType, _ := inst.Get("type")
	assert.Equal(t, "auxiliary", channelType,
		"the definition document declares a default for the required type field")
}

func TestStationRejectsBadVocabulary(t *testing.T) {
	_, err := Station().New(map[string]any{
		"id":        "mt001",
		"data_type": "seismic",
		"location":  map[string]any{"latitude": 40.2, "longitude": -112.3, "elevation": 0.0},
	})
	require.Error(t, err)
}

func TestFilterTypes(t *testing.T) {
	inst, err := PoleZeroFilter().New(map[string]any{
		"name":  "lowpass_magnetic",
		"type":  "ZPK",
		"poles": []any{"-6.28+10.82j", "-6.28-10.82j"},
	})
	require.NoError(t, err)

	filterType, _ := inst.Get("type")
	assert.Equal(t, "zpk", filterType)

	gain, _ := inst.Get("gain")
	assert.Equal(t, 1.0, gain, "gain defaults to unity")
}

func TestXMLPlans(t *testing.T) {
	assert.NotNil(t, XMLPlan("station"))
	assert.NotNil(t, XMLPlan("run"))
	assert.Nil(t, XMLPlan("location"), "entities without a dialect use default placement")
}

func TestStationXMLRoundTrip(t *testing.T) {
	inst, err := Station().New(map[string]any{
		"id":       "mt001",
		"location": map[string]any{"latitude": 40.2, "longitude": -112.3, "elevation": 1414.0},
		"runs": []any{
			map[string]any{
				"id":          "mt001a",
				"sample_rate": 256.0,
				"channels": []any{
					map[string]any{"component": "hx", "type": "magnetic"},
				},
			},
		},
	})
	require.NoError(t, err)

	plan := XMLPlan("station")
	data, err := codec.EncodeXML(inst, plan)
	require.NoError(t, err)

	rebuilt, err := codec.DecodeXML(Station(), plan, data)
	require.NoError(t, err)
	assert.True(t, inst.Equal(rebuilt))
}

func TestSpecDocumentsRoundTrip(t *testing.T) {
	lib := Default()

	s, ok := lib.Registry.Get("channel")
	require.True(t, ok)

	document, err := s.SpecJSON()
	require.NoError(t, err)
	assert.Contains(t, string(document), `"channel_type"`,
		"vocabulary references survive re-emission by name")
}
