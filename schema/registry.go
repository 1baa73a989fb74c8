package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the entity schemas known to the process. It is safe for
// concurrent use; ReplaceAll swaps the full schema set atomically, which is
// how hot reload installs a fresh set without readers observing a partial
// state.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*EntitySchema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*EntitySchema),
	}
}

// Register adds a schema, rejecting duplicates.
func (r *Registry) Register(s *EntitySchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Name]; exists {
		return fmt.Errorf("schema %s is already registered", s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

// Get retrieves a schema by name.
func (r *Registry) Get(name string) (*EntitySchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.schemas[name]
	return s, exists
}

// Names returns the sorted names of all registered schemas.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the registered schema map.
func (r *Registry) All() map[string]*EntitySchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*EntitySchema, len(r.schemas))
	for name, s := range r.schemas {
		out[name] = s
	}
	return out
}

// ReplaceAll atomically swaps the registered schema set.
func (r *Registry) ReplaceAll(schemas map[string]*EntitySchema) {
	next := make(map[string]*EntitySchema, len(schemas))
	for name, s := range schemas {
		next[name] = s
	}

	r.mu.Lock()
	r.schemas = next
	r.mu.Unlock()
}
