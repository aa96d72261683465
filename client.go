package sieve

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
	"github.com/kailas-cloud/sieve/internal/mapping"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
)

// Client is the sieve SDK entry point. It holds in-process collections and a
// compiler whose schema caches are shared by every search.
type Client struct {
	catalog  *catalog.Catalog
	source   *memory.StaticSource
	engine   *memory.Engine
	search   *searchuc.Service
	maxLimit int
}

// Page is one page of matching records.
type Page struct {
	// Count is the total number of matches across all pages.
	Count int
	Data  []any
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		maxLimit:      request.MaxLimit,
		fullTextDepth: schema.DefaultFullTextDepth,
		identity:      true,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	reg := schema.NewRegistry(schema.WithFullTextDepth(cfg.fullTextDepth))

	var mopts []mapping.Option
	if cfg.identity {
		mopts = append(mopts, mapping.WithIdentity(reg))
	}
	table := mapping.New(mopts...)
	for _, m := range cfg.mappings {
		table.Add(m.surface, m.storage, m.fields)
	}
	for _, path := range cfg.mappingFiles {
		if err := table.LoadFile(path); err != nil {
			return nil, fmt.Errorf("sieve: %w", err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := catalog.New()
	source := memory.NewStaticSource()
	return &Client{
		catalog:  cat,
		source:   source,
		engine:   memory.NewEngine(source),
		search:   searchuc.New(cat, compile.New(reg), schema.NewTranslator(reg, table), logger),
		maxLimit: cfg.maxLimit,
	}, nil
}

// Register adds records under a collection name. records must be a slice of structs
// or struct pointers; registering the same name again appends records.
func (c *Client) Register(name string, records any, opts ...CollectionOption) error {
	t := reflect.TypeOf(records)
	if t == nil || (t.Kind() != reflect.Slice && t.Kind() != reflect.Array) {
		return fmt.Errorf("sieve: register %q: records must be a slice, got %T", name, records)
	}
	storage := schema.Indirect(t.Elem())
	if storage.Kind() != reflect.Struct {
		return fmt.Errorf("sieve: register %q: records must be structs, got %s", name, storage)
	}

	cfg := &collectionConfig{}
	for _, o := range opts {
		o(cfg)
	}
	surface := storage
	if cfg.surface != nil {
		surface = schema.Indirect(cfg.surface)
	}

	if err := c.source.Add(name, records); err != nil {
		return fmt.Errorf("sieve: register %q: %w", name, err)
	}
	if err := c.catalog.Register(catalog.Collection{
		Name:    name,
		Surface: surface,
		Storage: storage,
		IDField: cfg.idField,
		Engine:  c.engine,
	}); err != nil {
		return fmt.Errorf("sieve: register %q: %w", name, err)
	}
	return nil
}

// Search returns one page of records in collection matching q.
func (c *Client) Search(ctx context.Context, collection string, q *Query) (Page, error) {
	req, err := q.build(c.maxLimit)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	page, err := c.search.Search(ctx, collection, &req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	n, _ := page.Count()
	return Page{Count: n, Data: page.Data()}, nil
}

// IndexOf returns the 0-based position of the record with the given id among all
// matches of q, or -1 when it does not match.
func (c *Client) IndexOf(ctx context.Context, collection string, q *Query, id string) (int, error) {
	req, err := q.build(c.maxLimit)
	if err != nil {
		return 0, fmt.Errorf("index of: %w", err)
	}
	pos, err := c.search.IndexOf(ctx, collection, &req, id)
	if err != nil {
		return 0, fmt.Errorf("index of: %w", err)
	}
	return pos, nil
}

// Explain returns the compiled predicate of q and its parameters.
func (c *Client) Explain(ctx context.Context, collection string, q *Query) (string, []any, error) {
	req, err := q.build(c.maxLimit)
	if err != nil {
		return "", nil, fmt.Errorf("explain: %w", err)
	}
	plan, err := c.search.Explain(ctx, collection, &req)
	if err != nil {
		return "", nil, fmt.Errorf("explain: %w", err)
	}
	return plan.Predicate.Expr.String(), plan.Predicate.Params, nil
}

// Items returns the records of p that are T or *T.
func Items[T any](p Page) []T {
	out := make([]T, 0, len(p.Data))
	for _, d := range p.Data {
		switch v := d.(type) {
		case T:
			out = append(out, v)
		case *T:
			if v != nil {
				out = append(out, *v)
			}
		}
	}
	return out
}
