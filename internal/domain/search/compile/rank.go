package compile

import (
	"reflect"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
	"github.com/kailas-cloud/sieve/internal/domain/expr"
)

// CompileRank compiles n into a hit-count expression over values of type root.
//
// Every atomic comparison contributes 1 when it holds and combination is always
// addition. A path crossing a collection sums over its elements. Negation flips the
// hit mapping of every leaf beneath the negated node; an even number of negations
// along a path cancels out.
func (c *Compiler) CompileRank(n criteria.Node, root reflect.Type) (Rank, error) {
	p := &params{}
	e, err := c.rank(n, root, false, p)
	if err != nil {
		return Rank{}, err
	}
	return Rank{Expr: e, Params: p.values}, nil
}

func (c *Compiler) rank(n criteria.Node, root reflect.Type, inverted bool, p *params) (expr.Num, error) {
	if n.IsEmpty() {
		return expr.Zero{}, nil
	}
	inverted = inverted != n.Negate()

	terms := make([]expr.Num, 0, len(n.Children())+1)
	for _, child := range n.Children() {
		if child.IsEmpty() {
			continue
		}
		t, err := c.rank(child, root, inverted, p)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if n.HasClause() {
		groups, _, err := c.clause(n, root, p)
		if err != nil {
			return nil, err
		}
		for _, group := range groups {
			for _, a := range group {
				terms = append(terms, hits(a, inverted))
			}
		}
	}
	return expr.Add(terms), nil
}

// hits turns the atom into a Hit summed once per element of every crossed collection.
func hits(a atom, inverted bool) expr.Num {
	var e expr.Num = expr.Hit{Cond: a.cond, Inverted: inverted}
	for i := len(a.over) - 1; i >= 0; i-- {
		e = expr.SumEach{Over: a.over[i], X: e}
	}
	return e
}
