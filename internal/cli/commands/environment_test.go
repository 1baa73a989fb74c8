package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtstandards/mtmeta/schema"
)

func writeSchemaFile(t *testing.T, dir, name, document string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(document), 0o644))
}

func TestLoadSchemaDirResolvesBuiltinVocabulary(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "gps.json", `{
		"datum": {
			"type": "string",
			"required": false,
			"style": "controlled vocabulary",
			"units": "",
			"description": "Reference datum of the fix",
			"options": "datum",
			"alias": [],
			"example": "WGS84",
			"default": "WGS84"
		}
	}`)

	registry := schema.NewRegistry()
	require.NoError(t, loadSchemaDir(registry, dir))

	s, ok := registry.Get("gps")
	require.True(t, ok)
	d, ok := s.Field("datum")
	require.True(t, ok)
	assert.Contains(t, d.Vocabulary, "NAD83")
}

func TestLoadSchemaDirReportsBadDocument(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "bad.json", `{"id": {"type": "tensor"}}`)

	registry := schema.NewRegistry()
	err := loadSchemaDir(registry, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}
