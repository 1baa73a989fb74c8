package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mtstandards/mtmeta/internal/cli/config"
	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/standards"
	"github.com/mtstandards/mtmeta/vocab"
)

// environment bundles the schema sources every command works against:
// user field-spec documents from the configured directories plus the
// built-in standard library.
type environment struct {
	config   *config.Config
	registry *schema.Registry
	library  *standards.Library
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	registry := schema.NewRegistry()
	for _, dir := range cfg.SchemaDirs {
		if err := loadSchemaDir(registry, dir); err != nil {
			return nil, err
		}
	}

	return &environment{
		config:   cfg,
		registry: registry,
		library:  standards.Default(),
	}, nil
}

func loadSchemaDir(registry *schema.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		s, err := schema.LoadFile(filepath.Join(dir, entry.Name()), vocab.Default())
		if err != nil {
			return err
		}
		if err := registry.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// entityType resolves a schema name to a compiled type, preferring user
// schemas over the standard library.
func (e *environment) entityType(name string) (*model.EntityType, error) {
	if s, ok := e.registry.Get(name); ok {
		return model.Compile(s)
	}
	if t, ok := e.library.Type(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown schema %q, run 'mtmeta inspect schemas' to list the available ones", name)
}

// entitySchema resolves a schema name to its field definitions.
func (e *environment) entitySchema(name string) (*schema.EntitySchema, error) {
	if s, ok := e.registry.Get(name); ok {
		return s, nil
	}
	if t, ok := e.library.Type(name); ok {
		return t.Schema(), nil
	}
	return nil, fmt.Errorf("unknown schema %q, run 'mtmeta inspect schemas' to list the available ones", name)
}

// schemaNames returns the merged, sorted schema name list.
func (e *environment) schemaNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range e.registry.Names() {
		seen[name] = true
		names = append(names, name)
	}
	for name := range e.library.Types() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// readDocument reads a JSON document from a file, preserving numeric
// precision.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return record, nil
}
