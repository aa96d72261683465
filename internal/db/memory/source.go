package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Source supplies the records of a collection in a stable order.
type Source interface {
	Records(ctx context.Context, collection string, t reflect.Type) ([]any, error)
}

// StaticSource holds records in process memory.
type StaticSource struct {
	mu          sync.RWMutex
	collections map[string][]any
}

// NewStaticSource creates an empty source.
func NewStaticSource() *StaticSource {
	return &StaticSource{collections: make(map[string][]any)}
}

// Add appends records to a collection. records must be a slice or array.
func (s *StaticSource) Add(collection string, records any) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("records must be a slice, got %T", records)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range v.Len() {
		s.collections[collection] = append(s.collections[collection], v.Index(i).Interface())
	}
	return nil
}

// Records returns the records of collection. Records whose type is neither t nor *t are skipped.
func (s *StaticSource) Records(_ context.Context, collection string, t reflect.Type) ([]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.collections[collection]
	out := make([]any, 0, len(all))
	for _, r := range all {
		rt := reflect.TypeOf(r)
		if t == nil || rt == t || (rt != nil && rt.Kind() == reflect.Pointer && rt.Elem() == t) {
			out = append(out, r)
		}
	}
	return out, nil
}
