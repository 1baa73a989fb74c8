package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONKeyOrder(t *testing.T) {
	out, err := ToJSON(stationInstance(t))
	require.NoError(t, err)

	want := `{"id":"mt001","sample_count":4096,` +
		`"location":{"latitude":40.2,"longitude":-112.3},` +
		`"channels":[` +
		`{"component":"ex","type":"electric","filter_names":["lowpass","gain"]},` +
		`{"component":"hy","type":"magnetic","filter_names":[]}` +
		`]}`
	assert.Equal(t, want, string(out))
}

func TestJSONRoundTrip(t *testing.T) {
	station := stationType(t)
	inst := stationInstance(t)

	out, err := ToJSON(inst)
	require.NoError(t, err)

	rebuilt, err := FromJSON(station, out)
	require.NoError(t, err)
	assert.True(t, inst.Equal(rebuilt))
}

func TestFromJSONPreservesLargeIntegers(t *testing.T) {
	station := stationType(t)

	inst, err := FromJSON(station, []byte(`{
		"id": "mt001",
		"sample_count": 9007199254740993,
		"location": {"latitude": 40.2, "longitude": -112.3}
	}`))
	require.NoError(t, err)

	count, _ := inst.Get("sample_count")
	assert.Equal(t, int64(9007199254740993), count)
}

func TestFromJSONInvalidText(t *testing.T) {
	station := stationType(t)

	_, err := FromJSON(station, []byte(`{"id": `))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "json", decodeErr.Format)
}

func TestFromJSONValidationFailure(t *testing.T) {
	station := stationType(t)

	_, err := FromJSON(station, []byte(`{
		"id": "mt001",
		"location": {"latitude": 40.2, "longitude": -112.3},
		"channels": [{"component": "ex", "type": "thermal"}]
	}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "station.channels.0.type", decodeErr.Path)
}

func TestToJSONNullFields(t *testing.T) {
	station := stationType(t)
	inst, err := station.New(map[string]any{
		"id":       "mt001",
		"location": map[string]any{"latitude": 40.2, "longitude": -112.3},
	})
	require.NoError(t, err)

	out, err := ToJSON(inst)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"sample_count":null`)
	assert.Contains(t, string(out), `"channels":null`)
}
