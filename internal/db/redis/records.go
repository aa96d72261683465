package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/memory"
)

// Compile-time check: Store is a memory.Source.
var _ memory.Source = (*Store)(nil)

const (
	scanCount = 100
	mgetBatch = 100
)

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func (s *Store) key(collection, id string) string {
	return s.prefix + collection + ":" + id
}

// Put stores record as JSON.
func (s *Store) Put(ctx context.Context, collection, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	cmd := s.b().Set().Key(s.key(collection, id)).Value(string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Records loads every record of collection, ordered by key.
func (s *Store) Records(ctx context.Context, collection string, t reflect.Type) ([]any, error) {
	keys, err := s.scan(ctx, globEscaper.Replace(s.prefix+collection+":")+"*")
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)

	out := make([]any, 0, len(keys))
	for chunk := range slices.Chunk(keys, mgetBatch) {
		cmd := s.b().Mget().Key(chunk...).Build()
		msgs, err := s.do(ctx, cmd).ToArray()
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Err: err}
		}
		for i, msg := range msgs {
			if msg.IsNil() {
				continue
			}
			data, err := msg.AsBytes()
			if err != nil {
				return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("key %s: %w", chunk[i], err)}
			}
			rec, err := db.Decode(data, t)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", chunk[i], err)
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// scan iterates keys matching a pattern.
func (s *Store) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
