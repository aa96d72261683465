package sieve

import (
	"fmt"

	"github.com/kailas-cloud/sieve/internal/domain/search/request"
)

type orderKey struct {
	key       string
	ascending bool
}

// Query is criteria plus paging and ordering.
type Query struct {
	where  *Criteria
	offset int
	limit  int
	order  []orderKey
	ranked bool
}

// NewQuery creates a query. A nil where matches everything.
func NewQuery(where *Criteria) *Query {
	return &Query{where: where}
}

// Offset skips the first n matches.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Limit sets the page size. Zero uses the default of 20.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// OrderBy appends an explicit ordering key. Records missing the field sort last.
func (q *Query) OrderBy(key string, ascending bool) *Query {
	q.order = append(q.order, orderKey{key: key, ascending: ascending})
	return q
}

// RankByMatchCount orders results by how many clauses they satisfy before any explicit order.
func (q *Query) RankByMatchCount() *Query {
	q.ranked = true
	return q
}

func (q *Query) build(maxLimit int) (request.Request, error) {
	if q == nil {
		q = &Query{}
	}
	root, err := q.where.Node()
	if err != nil {
		return request.Request{}, err
	}
	order := make([]request.Order, 0, len(q.order))
	for _, o := range q.order {
		ro, err := request.NewOrder(o.key, o.ascending)
		if err != nil {
			return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		order = append(order, ro)
	}
	req, err := request.New(request.Params{
		Root:             root,
		Offset:           q.offset,
		Limit:            q.limit,
		Order:            order,
		RankByMatchCount: q.ranked,
		MaxLimit:         maxLimit,
	})
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}
