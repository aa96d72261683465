package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/criteria"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
)

// CorrespondenceProvider supplies storage-side field names for surface-side fields.
// Field names are matched case-insensitively.
type CorrespondenceProvider interface {
	Lookup(surface, storage reflect.Type, field string) (string, bool)
}

type lookupKey struct {
	surface reflect.Type
	storage reflect.Type
	field   string
}

// Translator rewrites surface-schema paths into storage-schema paths.
type Translator struct {
	reg      *Registry
	provider CorrespondenceProvider

	mu sync.RWMutex
	// cache holds found correspondences only.
	cache map[lookupKey]string
}

// NewTranslator creates a translator backed by provider.
func NewTranslator(reg *Registry, provider CorrespondenceProvider) *Translator {
	return &Translator{
		reg:      reg,
		provider: provider,
		cache:    make(map[lookupKey]string),
	}
}

// Translate walks surfacePath segment by segment and returns the storage path.
// Segments without a correspondence are dropped. The result is empty when every
// segment drops.
func (t *Translator) Translate(surfacePath string, surface, storage reflect.Type) string {
	surface, storage = Indirect(surface), Indirect(storage)
	out := make([]string, 0, strings.Count(surfacePath, ".")+1)
	for _, part := range strings.Split(surfacePath, ".") {
		name := part
		var next reflect.Type
		if seg, ok := t.reg.Field(surface, part); ok {
			name = seg.Name
			next = seg.Type
		}
		mapped, ok := t.lookup(surface, storage, name)
		surface = next
		if !ok {
			continue
		}
		out = append(out, mapped)
		if seg, ok := t.reg.Field(storage, mapped); ok {
			storage = seg.Type
		} else {
			storage = nil
		}
	}
	return strings.Join(out, ".")
}

// TranslateNode rewrites every key in n and its descendants.
func (t *Translator) TranslateNode(n criteria.Node, surface, storage reflect.Type) (criteria.Node, error) {
	if len(n.Keys()) > 0 {
		keys := make([]string, 0, len(n.Keys()))
		for _, k := range n.Keys() {
			mapped, err := t.translateKey(k, surface, storage)
			if err != nil {
				return criteria.Node{}, err
			}
			keys = append(keys, mapped)
		}
		n = n.WithKeys(keys)
	}
	if len(n.Children()) > 0 {
		children := make([]criteria.Node, 0, len(n.Children()))
		for _, c := range n.Children() {
			tc, err := t.TranslateNode(c, surface, storage)
			if err != nil {
				return criteria.Node{}, err
			}
			children = append(children, tc)
		}
		n = n.WithChildren(children)
	}
	return n, nil
}

// TranslateRequest rewrites criteria keys and order keys of req.
// Identical surface and storage types return req unchanged.
func (t *Translator) TranslateRequest(
	req request.Request, surface, storage reflect.Type,
) (request.Request, error) {
	if Indirect(surface) == Indirect(storage) {
		return req, nil
	}
	root, err := t.TranslateNode(req.Root(), surface, storage)
	if err != nil {
		return request.Request{}, err
	}
	order := make([]request.Order, 0, len(req.Order()))
	for _, o := range req.Order() {
		mapped, err := t.translateKey(o.Key(), surface, storage)
		if err != nil {
			return request.Request{}, err
		}
		no, err := request.NewOrder(mapped, o.Ascending())
		if err != nil {
			return request.Request{}, err
		}
		order = append(order, no)
	}
	return req.WithRoot(root).WithOrder(order), nil
}

func (t *Translator) translateKey(key string, surface, storage reflect.Type) (string, error) {
	if err := ValidateIdentifier(key); err != nil {
		return "", err
	}
	mapped := t.Translate(key, surface, storage)
	if mapped == "" {
		return "", &domain.UnknownFieldError{Type: typeName(Indirect(surface)), Path: key}
	}
	return mapped, nil
}

func (t *Translator) lookup(surface, storage reflect.Type, field string) (string, bool) {
	if surface == nil || storage == nil {
		return "", false
	}
	key := lookupKey{surface: surface, storage: storage, field: strings.ToLower(field)}

	t.mu.RLock()
	name, ok := t.cache[key]
	t.mu.RUnlock()
	if ok {
		return name, true
	}

	name, ok = t.provider.Lookup(surface, storage, field)
	if !ok {
		return "", false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if cached, ok := t.cache[key]; ok {
		return cached, true
	}
	t.cache[key] = name
	return name, true
}
