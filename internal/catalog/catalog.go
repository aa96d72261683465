// Package catalog registers searchable collections and the engines that serve them.
package catalog

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain"
)

// ErrCollectionNotFound is returned for unregistered collection names.
var ErrCollectionNotFound = fmt.Errorf("collection %w", domain.ErrNotFound)

// Collection binds a name to its schemas and engine.
type Collection struct {
	Name string
	// Surface is the type callers write criteria against.
	Surface reflect.Type
	// Storage is the type the engine evaluates; equal to Surface when no translation applies.
	Storage reflect.Type
	// IDField is the storage path identifying a record, used by IndexOf.
	IDField string
	// Source is the backend collection the records live in. Defaults to Name.
	Source string
	Engine db.Engine
}

// Translated reports whether criteria need translation before compilation.
func (c Collection) Translated() bool {
	return c.Surface != nil && c.Storage != nil && c.Surface != c.Storage
}

// Catalog is a concurrency-safe collection registry.
type Catalog struct {
	mu    sync.RWMutex
	colls map[string]Collection
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{colls: make(map[string]Collection)}
}

// Register adds or replaces a collection. Storage defaults to Surface, IDField to "ID"
// and Source to Name.
func (c *Catalog) Register(col Collection) error {
	if col.Name == "" {
		return fmt.Errorf("%w: collection name is required", domain.ErrInvalidRequest)
	}
	if col.Surface == nil {
		return fmt.Errorf("%w: collection %q has no surface type", domain.ErrInvalidRequest, col.Name)
	}
	if col.Engine == nil {
		return fmt.Errorf("%w: collection %q has no engine", domain.ErrInvalidRequest, col.Name)
	}
	if col.Storage == nil {
		col.Storage = col.Surface
	}
	if col.IDField == "" {
		col.IDField = "ID"
	}
	if col.Source == "" {
		col.Source = col.Name
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.colls[strings.ToLower(col.Name)] = col
	return nil
}

// Get returns a collection by case-insensitive name.
func (c *Catalog) Get(_ context.Context, name string) (Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.colls[strings.ToLower(name)]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}
	return col, nil
}

// List returns all collections sorted by name.
func (c *Catalog) List() []Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Collection, 0, len(c.colls))
	for _, col := range c.colls {
		out = append(out, col)
	}
	slices.SortFunc(out, func(a, b Collection) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of registered collections.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.colls)
}
