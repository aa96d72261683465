package request

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
)

// Paging limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Order is one explicit sort key.
type Order struct {
	key       string
	ascending bool
}

// NewOrder creates an order entry. The key is a dotted field path.
func NewOrder(key string, ascending bool) (Order, error) {
	if key == "" {
		return Order{}, fmt.Errorf("order key is required")
	}
	return Order{key: key, ascending: ascending}, nil
}

// Key returns the field path.
func (o Order) Key() string { return o.key }

// Ascending reports the sort direction.
func (o Order) Ascending() bool { return o.ascending }

// Params holds the raw request parameters.
type Params struct {
	Root             criteria.Node
	Offset           int
	Limit            int
	Order            []Order
	RankByMatchCount bool
	// DefaultLimit overrides the package DefaultLimit when positive.
	DefaultLimit int
	// MaxLimit overrides the package MaxLimit when positive.
	MaxLimit int
}

// Request is a validated search request.
type Request struct {
	root             criteria.Node
	offset           int
	limit            int
	order            []Order
	rankByMatchCount bool
}

// New validates and normalizes search parameters.
// Defaults: limit=20. Limit is clamped to the max limit.
func New(p Params) (Request, error) {
	if p.Offset < 0 {
		return Request{}, fmt.Errorf("offset must be non-negative")
	}
	maxLimit := p.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	defaultLimit := p.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	limit := p.Limit
	if limit <= 0 {
		limit = min(defaultLimit, maxLimit)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Request{
		root:             p.Root,
		offset:           p.Offset,
		limit:            limit,
		order:            slices.Clone(p.Order),
		rankByMatchCount: p.RankByMatchCount,
	}, nil
}

// Root returns the root criteria node.
func (r Request) Root() criteria.Node { return r.root }

// Offset returns the number of matches to skip.
func (r Request) Offset() int { return r.offset }

// Limit returns the maximum page size.
func (r Request) Limit() int { return r.limit }

// Order returns the explicit sort keys.
func (r Request) Order() []Order { return r.order }

// RankByMatchCount reports whether results are ranked by matching clauses first.
func (r Request) RankByMatchCount() bool { return r.rankByMatchCount }

// WithRoot returns a copy with the root node replaced.
func (r Request) WithRoot(root criteria.Node) Request {
	r.root = root
	return r
}

// WithOrder returns a copy with the order replaced.
func (r Request) WithOrder(order []Order) Request {
	r.order = slices.Clone(order)
	return r
}
