package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/kailas-cloud/sieve/internal/domain"
)

// DefaultFullTextDepth bounds full-text path discovery.
const DefaultFullTextDepth = 10

// Segment is one resolved token of a dotted field path.
type Segment struct {
	// Name is the Go field name.
	Name string
	// Key is the serialized (JSON) name of the field.
	Key string
	// Index is the reflect index sequence relative to the enclosing struct.
	Index []int
	// Collection is set when the field holds a slice or array.
	Collection bool
	// Type is the field type with pointers unwrapped; the element type for collections.
	Type reflect.Type
	Kind Kind
}

type field struct {
	seg    Segment
	tag    string
	tagged bool
}

type typeInfo struct {
	byName map[string]*field
	fields []*field
	// anyTagged is set when at least one field carries a fulltext tag.
	anyTagged bool
}

type pathKey struct {
	t    reflect.Type
	path string
}

// Registry caches reflected field metadata, resolved paths and full-text paths.
// Only paths that resolve are cached, keyed case-insensitively, so the path
// cache is bounded by the schema rather than by caller input.
// Safe for concurrent use.
type Registry struct {
	maxDepth int

	mu       sync.RWMutex
	types    map[reflect.Type]*typeInfo
	paths    map[pathKey][]Segment
	fullText map[reflect.Type][]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithFullTextDepth sets the recursion ceiling for full-text discovery.
func WithFullTextDepth(depth int) Option {
	return func(r *Registry) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		maxDepth: DefaultFullTextDepth,
		types:    make(map[reflect.Type]*typeInfo),
		paths:    make(map[pathKey][]Segment),
		fullText: make(map[reflect.Type][]string),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// FullTextDepth returns the discovery recursion ceiling.
func (r *Registry) FullTextDepth() int { return r.maxDepth }

// Resolve maps a dotted path on root to its segments.
// Collection segments continue against their element type.
func (r *Registry) Resolve(root reflect.Type, path string) ([]Segment, error) {
	if err := ValidateIdentifier(path); err != nil {
		return nil, err
	}
	root = Indirect(root)
	key := pathKey{t: root, path: strings.ToLower(path)}

	r.mu.RLock()
	segs, ok := r.paths[key]
	r.mu.RUnlock()
	if ok {
		return segs, nil
	}

	segs, err := r.resolve(root, path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.paths[key]; ok {
		return cached, nil
	}
	r.paths[key] = segs
	return segs, nil
}

func (r *Registry) resolve(root reflect.Type, path string) ([]Segment, error) {
	parts := strings.Split(path, ".")
	segs := make([]Segment, 0, len(parts))
	cur := root
	for i, part := range parts {
		unknown := &domain.UnknownFieldError{Type: typeName(root), Path: path, Segment: part}
		if part == "" || cur == nil || cur.Kind() != reflect.Struct {
			return nil, unknown
		}
		f := r.info(cur).lookup(part)
		if f == nil {
			return nil, unknown
		}
		if i < len(parts)-1 && f.seg.Kind != KindStruct {
			return nil, &domain.UnknownFieldError{Type: typeName(root), Path: path, Segment: parts[i+1]}
		}
		segs = append(segs, f.seg)
		cur = f.seg.Type
	}
	return segs, nil
}

// Field looks up a single field of struct type t case-insensitively.
func (r *Registry) Field(t reflect.Type, name string) (Segment, bool) {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return Segment{}, false
	}
	f := r.info(t).lookup(name)
	if f == nil {
		return Segment{}, false
	}
	return f.seg, true
}

func (r *Registry) info(t reflect.Type) *typeInfo {
	r.mu.RLock()
	ti, ok := r.types[t]
	r.mu.RUnlock()
	if ok {
		return ti
	}

	built := buildTypeInfo(t)

	r.mu.Lock()
	defer r.mu.Unlock()
	if ti, ok := r.types[t]; ok {
		return ti
	}
	r.types[t] = built
	return built
}

func (ti *typeInfo) lookup(name string) *field {
	return ti.byName[strings.ToLower(name)]
}

func buildTypeInfo(t reflect.Type) *typeInfo {
	ti := &typeInfo{byName: make(map[string]*field)}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		key, skip := jsonKey(sf)
		if skip {
			continue
		}
		ft, coll := elementOf(sf.Type)
		tag, tagged := sf.Tag.Lookup("fulltext")
		f := &field{
			seg: Segment{
				Name:       sf.Name,
				Key:        key,
				Index:      sf.Index,
				Collection: coll,
				Type:       ft,
				Kind:       KindOf(ft),
			},
			tag:    strings.TrimSpace(tag),
			tagged: tagged,
		}
		ti.fields = append(ti.fields, f)
		ti.anyTagged = ti.anyTagged || tagged
		for _, n := range []string{strings.ToLower(sf.Name), strings.ToLower(key)} {
			if _, dup := ti.byName[n]; !dup {
				ti.byName[n] = f
			}
		}
	}
	return ti
}

func jsonKey(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
