// Package memory executes compiled queries by evaluating the expression tree
// directly against Go values.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

// Engine evaluates queries over records supplied by a Source.
// Ordering is rank descending, then explicit orders, then source order.
type Engine struct {
	src Source
}

// NewEngine creates an engine over src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

type match struct {
	record any
	value  reflect.Value
	rank   int
	pos    int
}

// Find returns one page of matches.
func (e *Engine) Find(ctx context.Context, q *db.Query) (*db.Page, error) {
	matches, err := e.matches(ctx, q)
	if err != nil {
		return nil, err
	}
	page := &db.Page{Data: []any{}}
	if q.CountTotal {
		n := len(matches)
		page.Count = &n
	}
	start := min(q.Offset, len(matches))
	end := len(matches)
	if q.Limit > 0 {
		end = min(start+q.Limit, end)
	}
	for _, m := range matches[start:end] {
		page.Data = append(page.Data, m.record)
	}
	return page, nil
}

// IndexOf returns the position of the record whose id field equals id.
func (e *Engine) IndexOf(ctx context.Context, q *db.Query, id string) (int, error) {
	matches, err := e.matches(ctx, q)
	if err != nil {
		return 0, err
	}
	for i, m := range matches {
		v, ok := schema.Normalize(lookup(m.value, q.IDField))
		if ok && schema.Text(v) == id {
			return i, nil
		}
	}
	return -1, nil
}

func (e *Engine) matches(ctx context.Context, q *db.Query) ([]match, error) {
	records, err := e.src.Records(ctx, q.Collection, q.Type)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", q.Collection, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	where := newEvaluator(q.Predicate.Params)
	var rank *evaluator
	if q.Rank != nil {
		rank = newEvaluator(q.Rank.Params)
	}

	out := make([]match, 0, len(records))
	for i, r := range records {
		v := reflect.ValueOf(r)
		if q.Predicate.Expr != nil && !where.holds(q.Predicate.Expr, v) {
			continue
		}
		m := match{record: r, value: v, pos: i}
		if rank != nil {
			m.rank = rank.count(q.Rank.Expr, v)
		}
		out = append(out, m)
	}

	slices.SortStableFunc(out, func(a, b match) int {
		if a.rank != b.rank {
			return b.rank - a.rank
		}
		for _, o := range q.Order {
			if c := compareField(a.value, b.value, o.Field, o.Ascending); c != 0 {
				return c
			}
		}
		return a.pos - b.pos
	})
	return out, nil
}
