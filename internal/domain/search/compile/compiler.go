// Package compile turns criteria trees into predicate and ranking expressions.
package compile

import (
	"reflect"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/criteria"
	"github.com/kailas-cloud/sieve/internal/domain/expr"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
)

// Predicate is a compiled boolean filter with its positional parameters.
type Predicate struct {
	Expr   expr.Bool
	Params []any
}

// Rank is a compiled hit-count expression with its positional parameters.
type Rank struct {
	Expr   expr.Num
	Params []any
}

// Order is a resolved explicit sort key.
type Order struct {
	Field     expr.Field
	Ascending bool
}

// Compiler compiles criteria against Go struct types. Safe for concurrent use.
type Compiler struct {
	reg *schema.Registry
}

// New creates a compiler over reg. A nil reg gets a fresh registry.
func New(reg *schema.Registry) *Compiler {
	if reg == nil {
		reg = schema.NewRegistry()
	}
	return &Compiler{reg: reg}
}

// Registry returns the schema registry the compiler resolves against.
func (c *Compiler) Registry() *schema.Registry { return c.reg }

// params accumulates positional parameters for one compilation.
type params struct {
	values []any
}

func (p *params) add(v any) int {
	p.values = append(p.values, v)
	return len(p.values) - 1
}

// atom is one (key, value) comparison before collection quantifiers are applied.
type atom struct {
	cond expr.Bool
	// over holds the collection references crossed by the path, outermost first.
	over []expr.Field
}

// clause compiles the key/value clause of n into atoms grouped per key.
// A nil result with no error means the clause is a no-op.
func (c *Compiler) clause(n criteria.Node, root reflect.Type, p *params) ([][]atom, bool, error) {
	if len(n.Values()) == 0 {
		return nil, false, nil
	}
	keys := n.Keys()
	if n.IsFullText() {
		keys = c.reg.FullTextPaths(root)
		if len(keys) == 0 {
			return nil, true, nil
		}
	}
	groups := make([][]atom, 0, len(keys))
	for _, key := range keys {
		segs, err := c.reg.Resolve(root, key)
		if err != nil {
			return nil, false, err
		}
		group := make([]atom, 0, len(n.Values()))
		for _, raw := range n.Values() {
			a, err := c.atom(key, segs, n.Operator(), raw, p)
			if err != nil {
				return nil, false, err
			}
			group = append(group, a)
		}
		groups = append(groups, group)
	}
	return groups, false, nil
}

func (c *Compiler) atom(path string, segs []schema.Segment, op criteria.Operator, raw string, p *params) (atom, error) {
	last := segs[len(segs)-1]
	if !last.Kind.IsScalar() {
		return atom{}, &domain.UnsupportedOperatorError{
			Path: path, Operator: string(op), Reason: "field is not comparable",
		}
	}

	var over []expr.Field
	start := 0
	for i, s := range segs {
		if s.Collection {
			over = append(over, expr.Field{Path: segs[start : i+1], Kind: s.Kind})
			start = i + 1
		}
	}
	f := expr.Field{Path: segs[start:], Kind: last.Kind}

	var cond expr.Bool
	switch op {
	case criteria.Contains, criteria.Wildcard:
		if last.Kind == schema.KindBool {
			return atom{}, &domain.UnsupportedOperatorError{
				Path: path, Operator: string(op), Reason: "pattern match on a boolean field",
			}
		}
		pattern := "%" + escapeLike(raw) + "%"
		if op == criteria.Wildcard {
			pattern = wildcardPattern(raw)
		}
		cond = expr.Like{Field: f, Param: p.add(pattern)}
	default:
		cmp := comparison(op)
		if cmp != expr.Eq && !last.Kind.IsOrdered() {
			return atom{}, &domain.UnsupportedOperatorError{
				Path: path, Operator: string(op), Reason: string(last.Kind) + " fields are not ordered",
			}
		}
		v, ok := schema.CoerceKind(last.Kind, raw)
		if !ok {
			return atom{}, &domain.InvalidFilterValueError{Path: path, Value: raw, Type: string(last.Kind)}
		}
		cond = expr.Compare{Field: f, Op: cmp, Param: p.add(v)}
	}
	return atom{cond: cond, over: over}, nil
}

// ResolveField resolves path to a field reference that does not cross a collection.
func (c *Compiler) ResolveField(root reflect.Type, path string) (expr.Field, error) {
	segs, err := c.reg.Resolve(root, path)
	if err != nil {
		return expr.Field{}, err
	}
	last := segs[len(segs)-1]
	for _, s := range segs {
		if s.Collection {
			return expr.Field{}, &domain.UnsupportedOperatorError{
				Path: path, Operator: "ORDER", Reason: "path crosses a collection",
			}
		}
	}
	if !last.Kind.IsScalar() {
		return expr.Field{}, &domain.UnsupportedOperatorError{
			Path: path, Operator: "ORDER", Reason: "field is not comparable",
		}
	}
	return expr.Field{Path: segs, Kind: last.Kind}, nil
}

// CompileOrder resolves explicit order keys.
func (c *Compiler) CompileOrder(orders []request.Order, root reflect.Type) ([]Order, error) {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		f, err := c.ResolveField(root, o.Key())
		if err != nil {
			return nil, err
		}
		out = append(out, Order{Field: f, Ascending: o.Ascending()})
	}
	return out, nil
}

func comparison(op criteria.Operator) expr.Op {
	switch op {
	case criteria.LT:
		return expr.Lt
	case criteria.LTE:
		return expr.Lte
	case criteria.GT:
		return expr.Gt
	case criteria.GTE:
		return expr.Gte
	}
	return expr.Eq
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the pattern metacharacters so raw matches literally.
func escapeLike(raw string) string {
	return likeEscaper.Replace(raw)
}

// wildcardPattern translates * and ? into an anchored LIKE pattern.
func wildcardPattern(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 4)
	for _, r := range raw {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '\\', '%', '_':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
