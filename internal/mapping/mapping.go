// Package mapping loads surface-to-storage field correspondences from YAML.
package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

// File is the on-disk layout of a mapping file.
type File struct {
	Mappings []Entry `yaml:"mappings"`
}

// Entry maps the fields of one surface type onto one storage type.
type Entry struct {
	Surface string            `yaml:"surface"`
	Storage string            `yaml:"storage"`
	Fields  map[string]string `yaml:"fields"`
}

type pairKey struct {
	surface string
	storage string
}

// Table implements schema.CorrespondenceProvider over explicit field pairs.
// Types are matched by their Go type name.
type Table struct {
	reg      *schema.Registry
	identity bool

	mu    sync.RWMutex
	pairs map[pairKey]map[string]string
}

// Option configures a Table.
type Option func(*Table)

// WithIdentity makes unmapped surface fields fall back to a storage field of the same name.
func WithIdentity(reg *schema.Registry) Option {
	return func(t *Table) {
		t.identity = true
		if reg != nil {
			t.reg = reg
		}
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		reg:   schema.NewRegistry(),
		pairs: make(map[pairKey]map[string]string),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Add registers field pairs for a (surface, storage) type pair. Later pairs override earlier ones.
func (t *Table) Add(surface, storage string, fields map[string]string) {
	key := pairKey{surface: surface, storage: storage}
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.pairs[key]
	if !ok {
		m = make(map[string]string, len(fields))
		t.pairs[key] = m
	}
	for from, to := range fields {
		m[strings.ToLower(from)] = to
	}
}

// Load decodes a mapping file and adds every entry.
func (t *Table) Load(r io.Reader) error {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode mapping: %w", err)
	}
	for i, e := range f.Mappings {
		if e.Surface == "" || e.Storage == "" {
			return fmt.Errorf("mapping %d: surface and storage are required", i)
		}
		for from, to := range e.Fields {
			if err := schema.ValidateIdentifier(from); err != nil {
				return fmt.Errorf("mapping %s->%s: %w", e.Surface, e.Storage, err)
			}
			// An empty target drops the field, even under identity fallback.
			if to == "" {
				continue
			}
			if err := schema.ValidateIdentifier(to); err != nil {
				return fmt.Errorf("mapping %s->%s: %w", e.Surface, e.Storage, err)
			}
		}
		t.Add(e.Surface, e.Storage, e.Fields)
	}
	return nil
}

// LoadFile reads a mapping file from disk.
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open mapping %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return t.Load(f)
}

// Lookup returns the storage field name for a surface field.
func (t *Table) Lookup(surface, storage reflect.Type, field string) (string, bool) {
	surface, storage = schema.Indirect(surface), schema.Indirect(storage)
	key := pairKey{surface: surface.Name(), storage: storage.Name()}

	t.mu.RLock()
	to, ok := t.pairs[key][strings.ToLower(field)]
	t.mu.RUnlock()
	if ok {
		return to, to != ""
	}

	if !t.identity {
		return "", false
	}
	seg, ok := t.reg.Field(storage, field)
	if !ok {
		return "", false
	}
	return seg.Name, true
}
