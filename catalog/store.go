// Package catalog persists named filter definitions in a local SQLite
// database. Channels reference filters by name only; the catalog is the
// lookup that resolves those identifier references, it never owns the
// channel side of the relationship.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/model"
)

// ErrNotFound is returned when no filter with the requested name exists.
var ErrNotFound = errors.New("filter not found")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS filters (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	entity     TEXT NOT NULL,
	document   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Store is a filter catalog backed by SQLite. Filters are stored as their
// JSON document form together with the entity name they validate against.
type Store struct {
	db    *sql.DB
	types map[string]*model.EntityType
}

// Open opens (creating if necessary) a catalog database at path. The types
// map declares which entity types stored documents may validate against,
// keyed by entity name.
func Open(path string, types map[string]*model.EntityType) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter catalog: %w", err)
	}
	store, err := New(db, types)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing database handle, creating the filters table when
// missing.
func New(db *sql.DB, types map[string]*model.EntityType) (*Store, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize filter catalog: %w", err)
	}
	return &Store{db: db, types: types}, nil
}

// Put inserts or replaces a filter under its "name" field, lower-cased so
// lookups are case-insensitive. The instance must carry a non-empty name
// and be of one of the store's entity types.
func (s *Store) Put(inst *model.Instance) error {
	entity := inst.Type().Name()
	if _, ok := s.types[entity]; !ok {
		return fmt.Errorf("entity %s is not a catalog filter type", entity)
	}

	name, err := filterName(inst)
	if err != nil {
		return err
	}

	document, err := codec.ToJSON(inst)
	if err != nil {
		return fmt.Errorf("failed to serialize filter %s: %w", name, err)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO filters (id, name, entity, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     entity = excluded.entity,
		     document = excluded.document,
		     updated_at = excluded.updated_at`,
		uuid.NewString(), name, entity, string(document), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to store filter %s: %w", name, err)
	}
	return nil
}

// GetByName looks a filter up by name and rebuilds its validated instance.
func (s *Store) GetByName(name string) (*model.Instance, error) {
	var entity, document string
	err := s.db.QueryRow(
		`SELECT entity, document FROM filters WHERE name = ?`, strings.ToLower(name),
	).Scan(&entity, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read filter %s: %w", name, err)
	}

	t, ok := s.types[entity]
	if !ok {
		return nil, fmt.Errorf("filter %s has unknown entity %s", name, entity)
	}
	return codec.FromJSON(t, []byte(document))
}

// Names lists the stored filter names in alphabetical order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM filters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a filter by name.
func (s *Store) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM filters WHERE name = ?`, strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Resolve looks up every name in order, reporting the first missing one.
// Channel metadata stores filter references as a name list; this resolves
// such a list against the catalog.
func (s *Store) Resolve(names []string) ([]*model.Instance, error) {
	out := make([]*model.Instance, len(names))
	for i, name := range names {
		inst, err := s.GetByName(name)
		if err != nil {
			return nil, err
		}
		out[i] = inst
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func filterName(inst *model.Instance) (string, error) {
	v, ok := inst.Get("name")
	if !ok || v == nil {
		return "", fmt.Errorf("filter instance has no name")
	}
	name, ok := v.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("filter instance has no name")
	}
	return strings.ToLower(name), nil
}
