package db

import (
	"context"
	"reflect"

	"github.com/kailas-cloud/sieve/internal/domain/expr"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
)

// Engine executes compiled search queries against a backend.
type Engine interface {
	Finder
	Find(ctx context.Context, q *Query) (*Page, error)
}

// Finder locates a record's position in a query's ordering.
type Finder interface {
	// IndexOf returns the 0-based position of the record with the given id
	// among all matches of q, or -1 when it does not match.
	IndexOf(ctx context.Context, q *Query, id string) (int, error)
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Query is the backend-neutral input of an engine call.
type Query struct {
	Collection string
	// Type is the storage record type; records are decoded into values of it.
	Type      reflect.Type
	Predicate compile.Predicate
	// Rank is nil unless results are ranked by match count.
	Rank   *compile.Rank
	Order  []compile.Order
	Offset int
	Limit  int
	// IDField identifies records for IndexOf.
	IDField    expr.Field
	CountTotal bool
}

// Page is the output of Find.
type Page struct {
	// Count is the total number of matches, nil unless CountTotal was set.
	Count *int
	Data  []any
}
