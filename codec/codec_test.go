package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/schema"
)

// stationType compiles the fixture schema shared by the codec tests: a
// station with a nested location and an ordered channel sequence.
func stationType(t *testing.T) *model.EntityType {
	t.Helper()

	location := schema.NewEntitySchema("location")
	require.NoError(t, location.AddField(&schema.FieldDescriptor{
		Name: "latitude", Type: schema.ValueType{Kind: schema.KindFloat},
		Required: true, Aliases: []string{"lat"},
	}))
	require.NoError(t, location.AddField(&schema.FieldDescriptor{
		Name: "longitude", Type: schema.ValueType{Kind: schema.KindFloat},
		Required: true, Aliases: []string{"lon"},
	}))

	channel := schema.NewEntitySchema("channel")
	require.NoError(t, channel.AddField(&schema.FieldDescriptor{
		Name: "component", Type: schema.ValueType{Kind: schema.KindString},
		Required: true,
	}))
	require.NoError(t, channel.AddField(&schema.FieldDescriptor{
		Name: "type", Type: schema.ValueType{Kind: schema.KindString},
		Vocabulary: []string{"electric", "magnetic", "auxiliary"},
		Default:    "auxiliary",
	}))
	require.NoError(t, channel.AddField(&schema.FieldDescriptor{
		Name: "filter_names", Type: schema.ValueType{Kind: schema.KindList, Elem: schema.KindString},
		Default: []string{},
	}))

	station := schema.NewEntitySchema("station")
	require.NoError(t, station.AddField(&schema.FieldDescriptor{
		Name: "id", Type: schema.ValueType{Kind: schema.KindString},
		Required: true, Aliases: []string{"station_id"},
	}))
	require.NoError(t, station.AddField(&schema.FieldDescriptor{
		Name: "sample_count", Type: schema.ValueType{Kind: schema.KindInteger},
	}))
	require.NoError(t, station.AddEntityField("location", location, true))
	require.NoError(t, station.AddEntityListField("channels", channel, false))

	return model.MustCompile(station)
}

func stationInstance(t *testing.T) *model.Instance {
	t.Helper()
	inst, err := stationType(t).New(map[string]any{
		"id":           "mt001",
		"sample_count": int64(4096),
		"location":     map[string]any{"latitude": 40.2, "longitude": -112.3},
		"channels": []any{
			map[string]any{"component": "ex", "type": "electric", "filter_names": []any{"lowpass", "gain"}},
			map[string]any{"component": "hy", "type": "magnetic"},
		},
	})
	require.NoError(t, err)
	return inst
}
