// Package vocab provides the process-wide enumeration catalog: named
// controlled vocabularies shared by multiple entity schemas. The catalog is
// populated once at startup and read-only afterwards.
package vocab

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog holds named controlled-vocabulary definitions. Registration is
// only permitted before Freeze is called; lookups are safe from any
// goroutine.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string][]string
	frozen  bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string][]string),
	}
}

// Register adds a named vocabulary to the catalog. It fails if the catalog
// has been frozen, if the name is already registered, or if the value set
// is empty.
func (c *Catalog) Register(name string, values []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("vocabulary catalog is frozen, cannot register %q", name)
	}
	if name == "" {
		return fmt.Errorf("vocabulary name must not be empty")
	}
	if len(values) == 0 {
		return fmt.Errorf("vocabulary %q must have at least one value", name)
	}
	if _, exists := c.entries[name]; exists {
		return fmt.Errorf("vocabulary %q is already registered", name)
	}

	c.entries[name] = append([]string(nil), values...)
	return nil
}

// Lookup returns a copy of the named vocabulary's allowed values.
func (c *Catalog) Lookup(name string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// Names returns the sorted names of all registered vocabularies.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Freeze marks the catalog read-only. Further Register calls fail.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog. Standard vocabularies are
// registered into it at startup.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds a vocabulary to the default catalog.
func Register(name string, values []string) error {
	return defaultCatalog.Register(name, values)
}

// Lookup reads a vocabulary from the default catalog.
func Lookup(name string) ([]string, bool) {
	return defaultCatalog.Lookup(name)
}
