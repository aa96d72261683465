package compile

import (
	"reflect"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
	"github.com/kailas-cloud/sieve/internal/domain/expr"
)

// Compile compiles n into a boolean predicate over values of type root.
func (c *Compiler) Compile(n criteria.Node, root reflect.Type) (Predicate, error) {
	p := &params{}
	e, err := c.predicate(n, root, p)
	if err != nil {
		return Predicate{}, err
	}
	if e == nil {
		e = expr.True{}
	}
	return Predicate{Expr: e, Params: p.values}, nil
}

// predicate returns nil when n contributes nothing: it is empty, its clause has
// keys but no values, or every child is itself a no-op. Such nodes are left out
// of their parent's terms and are never negated.
func (c *Compiler) predicate(n criteria.Node, root reflect.Type, p *params) (expr.Bool, error) {
	if n.IsEmpty() {
		return nil, nil
	}

	terms := make([]expr.Bool, 0, len(n.Children())+1)
	for _, child := range n.Children() {
		t, err := c.predicate(child, root, p)
		if err != nil {
			return nil, err
		}
		if t != nil {
			terms = append(terms, t)
		}
	}
	if n.HasClause() {
		t, err := c.clausePredicate(n, root, p)
		if err != nil {
			return nil, err
		}
		if t != nil {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	e := combine(n.ChildrenLogic(), terms)
	if n.Negate() {
		return expr.Not{X: e}, nil
	}
	return e, nil
}

func (c *Compiler) clausePredicate(n criteria.Node, root reflect.Type, p *params) (expr.Bool, error) {
	groups, none, err := c.clause(n, root, p)
	if err != nil {
		return nil, err
	}
	if none {
		return expr.False{}, nil
	}
	if groups == nil {
		return nil, nil
	}
	keysLogic := n.KeysLogic()
	if n.IsFullText() {
		keysLogic = criteria.Any
	}
	perKey := make([]expr.Bool, 0, len(groups))
	for _, group := range groups {
		perValue := make([]expr.Bool, 0, len(group))
		for _, a := range group {
			perValue = append(perValue, exists(a))
		}
		perKey = append(perKey, combine(n.ValuesLogic(), perValue))
	}
	return combine(keysLogic, perKey), nil
}

// exists wraps the atom's comparison in one Any per crossed collection, innermost last.
func exists(a atom) expr.Bool {
	e := a.cond
	for i := len(a.over) - 1; i >= 0; i-- {
		e = expr.Any{Over: a.over[i], Cond: e}
	}
	return e
}

func combine(l criteria.Logic, terms []expr.Bool) expr.Bool {
	if l == criteria.Any {
		return expr.Disj(terms)
	}
	return expr.Conj(terms)
}
