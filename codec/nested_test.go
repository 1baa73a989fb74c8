package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtstandards/mtmeta/validate"
)

func TestNestedMapRoundTrip(t *testing.T) {
	station := stationType(t)
	inst := stationInstance(t)

	m := ToNestedMap(inst)
	rebuilt, err := FromNestedMap(station, m)
	require.NoError(t, err)
	assert.True(t, inst.Equal(rebuilt))
}

func TestToNestedMapShape(t *testing.T) {
	m := ToNestedMap(stationInstance(t))

	assert.Equal(t, "mt001", m["id"])
	location, ok := m["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 40.2, location["latitude"])

	channels, ok := m["channels"].([]any)
	require.True(t, ok)
	require.Len(t, channels, 2)
	first, ok := channels[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"lowpass", "gain"}, first["filter_names"])
}

func TestToNestedMapCopiesLists(t *testing.T) {
	inst := stationInstance(t)

	m := ToNestedMap(inst)
	channels := m["channels"].([]any)
	channels[0].(map[string]any)["filter_names"].([]string)[0] = "mutated"

	fresh := ToNestedMap(inst)
	names := fresh["channels"].([]any)[0].(map[string]any)["filter_names"].([]string)
	assert.Equal(t, "lowpass", names[0])
}

func TestFromNestedMapWrapsErrors(t *testing.T) {
	station := stationType(t)

	_, err := FromNestedMap(station, map[string]any{
		"id": "mt001",
		"location": map[string]any{
			"latitude": 40.2,
		},
	})

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "nested", decodeErr.Format)
	assert.Equal(t, "station.location.longitude", decodeErr.Path)

	var missingErr *validate.MissingFieldError
	assert.True(t, errors.As(err, &missingErr), "the cause stays reachable through Unwrap")
}
