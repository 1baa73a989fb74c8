package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/vocab"
)

func writeSchema(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReloadLoadsDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "sensor.json", `{"id": {"type": "string", "required": true}}`)
	writeSchema(t, dir, "notes.txt", `not a schema`)
	writeSchema(t, dir, ".hidden.json", `{broken`)

	registry := schema.NewRegistry()
	sw, err := NewSchemaWatcher([]string{dir}, registry, vocab.NewCatalog(), zap.NewNop())
	require.NoError(t, err)
	defer sw.Stop()

	require.NoError(t, sw.Reload())
	assert.Equal(t, []string{"sensor"}, registry.Names())
}

func TestReloadKeepsPreviousSetOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "sensor.json", `{"id": {"type": "string"}}`)

	registry := schema.NewRegistry()
	sw, err := NewSchemaWatcher([]string{dir}, registry, vocab.NewCatalog(), zap.NewNop())
	require.NoError(t, err)
	defer sw.Stop()

	require.NoError(t, sw.Reload())
	require.Equal(t, []string{"sensor"}, registry.Names())

	writeSchema(t, dir, "broken.json", `{"id": {"type": "decimal"}}`)
	require.Error(t, sw.Reload())
	assert.Equal(t, []string{"sensor"}, registry.Names(),
		"a failed reload must not disturb the registry")
}

func TestReloadRejectsDuplicateSchemaNames(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeSchema(t, dirA, "sensor.json", `{"id": {"type": "string"}}`)
	writeSchema(t, dirB, "sensor.json", `{"id": {"type": "string"}}`)

	registry := schema.NewRegistry()
	sw, err := NewSchemaWatcher([]string{dirA, dirB}, registry, vocab.NewCatalog(), zap.NewNop())
	require.NoError(t, err)
	defer sw.Stop()

	err = sw.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one watched directory")
}

func TestWatcherPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "sensor.json", `{"id": {"type": "string"}}`)

	registry := schema.NewRegistry()
	sw, err := NewSchemaWatcher([]string{dir}, registry, vocab.NewCatalog(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sw.Start())
	defer sw.Stop()

	require.Equal(t, []string{"sensor"}, registry.Names())

	writeSchema(t, dir, "filter.json", `{"name": {"type": "string"}}`)

	deadline := time.After(3 * time.Second)
	for {
		if len(registry.Names()) == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("registry never picked up the new schema: %v", registry.Names())
		case <-time.After(20 * time.Millisecond):
		}
	}
	assert.Equal(t, []string{"filter", "sensor"}, registry.Names())
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	calls := make(chan []string, 1)
	d.SetCallback(func(files []string) {
		calls <- files
	})

	d.Add("a.json")
	d.Add("b.json")
	d.Add("a.json")

	select {
	case files := <-calls:
		assert.Len(t, files, 2)
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}

	select {
	case <-calls:
		t.Fatal("debouncer fired twice for one burst")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRelevantEvents(t *testing.T) {
	sw := &SchemaWatcher{}

	cases := []struct {
		name string
		file string
		want bool
	}{
		{"json write", "station.json", true},
		{"hidden file", ".station.json.swp", false},
		{"other extension", "station.yaml", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tc.file, Op: fsnotify.Write}
			assert.Equal(t, tc.want, sw.relevant(event))
		})
	}

	chmod := fsnotify.Event{Name: "station.json", Op: fsnotify.Chmod}
	assert.False(t, sw.relevant(chmod), "chmod alone never triggers a reload")
}
