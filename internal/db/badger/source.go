// Package badger stores JSON records in an embedded BadgerDB under
// <collection>/<id> keys and serves them as a memory.Source.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/memory"
)

// Compile-time check: Source is a memory.Source.
var _ memory.Source = (*Source)(nil)

// Config holds storage parameters.
type Config struct {
	Path     string
	InMemory bool
}

// Source wraps a BadgerDB instance.
type Source struct {
	db *badger.DB
}

// zapAdapter adapts zap to the badger.Logger interface.
type zapAdapter struct {
	log *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, items ...any)   { a.log.Errorf(msg, items...) }
func (a *zapAdapter) Warningf(msg string, items ...any) { a.log.Warnf(msg, items...) }
func (a *zapAdapter) Infof(msg string, items ...any)    { a.log.Infof(msg, items...) }
func (a *zapAdapter) Debugf(msg string, items ...any)   { a.log.Debugf(msg, items...) }

// Open opens the database, creating the directory when needed.
func Open(cfg Config, log *zap.Logger) (*Source, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = &zapAdapter{log: log.Named("badger").Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Source{db: bdb}, nil
}

// Close closes the database.
func (s *Source) Close() error {
	return s.db.Close()
}

func prefix(collection string) []byte {
	return []byte(collection + "/")
}

// Put stores record as JSON.
func (s *Source) Put(_ context.Context, collection, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	key := append(prefix(collection), id...)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return nil
}

// Records returns every record of collection in key order.
func (s *Source) Records(ctx context.Context, collection string, t reflect.Type) ([]any, error) {
	var out []any
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix(collection)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rec, err := db.Decode(val, t)
				if err != nil {
					return fmt.Errorf("key %s: %w", item.Key(), err)
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpView, Err: err}
	}
	return out, nil
}
