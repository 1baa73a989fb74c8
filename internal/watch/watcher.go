// Package watch reloads schema directories on change. Edited
// field-definition documents are loaded into a fresh schema set and swapped
// into the registry atomically; a set that fails to load keeps the previous
// one in place.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/vocab"
)

// SchemaWatcher monitors schema directories and reloads the registry when
// field-definition documents change.
type SchemaWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	dirs      []string
	registry  *schema.Registry
	catalog   *vocab.Catalog
	log       *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewSchemaWatcher creates a watcher over the given directories, reloading
// into registry with vocabulary references resolved against cat.
func NewSchemaWatcher(dirs []string, registry *schema.Registry, cat *vocab.Catalog, log *zap.Logger) (*SchemaWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create schema watcher: %w", err)
	}

	sw := &SchemaWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(debounceInterval),
		dirs:      dirs,
		registry:  registry,
		catalog:   cat,
		log:       log,
		stopChan:  make(chan struct{}),
	}

	sw.debouncer.SetCallback(func(files []string) {
		if err := sw.Reload(); err != nil {
			sw.log.Error("schema reload failed, keeping previous set",
				zap.Strings("changed", files),
				zap.Error(err))
			return
		}
		sw.log.Info("schemas reloaded",
			zap.Strings("changed", files),
			zap.Strings("schemas", sw.registry.Names()))
	})

	return sw, nil
}

// Start performs an initial load and begins watching.
func (sw *SchemaWatcher) Start() error {
	if err := sw.Reload(); err != nil {
		return err
	}

	for _, dir := range sw.dirs {
		if err := sw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		sw.log.Info("watching schema directory", zap.String("dir", dir))
	}

	sw.wg.Add(1)
	go sw.watch()
	return nil
}

// Stop stops the watcher.
func (sw *SchemaWatcher) Stop() error {
	sw.stopOnce.Do(func() {
		close(sw.stopChan)
	})
	sw.wg.Wait()
	sw.debouncer.Stop()
	return sw.watcher.Close()
}

// Reload loads every *.json document in the watched directories into a
// fresh schema set and swaps it into the registry. Any load failure aborts
// the swap, leaving the previous set untouched.
func (sw *SchemaWatcher) Reload() error {
	next := make(map[string]*schema.EntitySchema)

	for _, dir := range sw.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read schema directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
				continue
			}
			s, err := schema.LoadFile(filepath.Join(dir, name), sw.catalog)
			if err != nil {
				return err
			}
			if _, dup := next[s.Name]; dup {
				return fmt.Errorf("schema %s defined in more than one watched directory", s.Name)
			}
			next[s.Name] = s
		}
	}

	sw.registry.ReplaceAll(next)
	return nil
}

func (sw *SchemaWatcher) watch() {
	defer sw.wg.Done()

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(event) {
				continue
			}
			sw.log.Debug("schema file changed", zap.String("file", event.Name))
			sw.debouncer.Add(event.Name)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("schema watcher error", zap.Error(err))

		case <-sw.stopChan:
			return
		}
	}
}

func (sw *SchemaWatcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".json" {
		return false
	}
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	return event.Op&ops != 0
}
