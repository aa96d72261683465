package postgres

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain/expr"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
)

// rootScope is the JSONB document column of the queried table.
const rootScope = "t.doc"

// Fragments are the rendered SQL parts of a compiled query.
type Fragments struct {
	Where string
	// Rank is empty unless the query is ranked.
	Rank    string
	OrderBy string
	Args    []any
}

// renderer turns expression trees into SQL over a JSONB column.
// JSON keys are only ever emitted as quoted string literals.
type renderer struct {
	args  []any
	base  int
	alias int
}

// Render produces the WHERE, rank and ORDER BY fragments for a compiled query.
// Predicate parameters come first in Args, followed by rank parameters.
func Render(pred compile.Predicate, rank *compile.Rank, order []compile.Order) (Fragments, error) {
	r := &renderer{}
	var f Fragments

	r.bind(pred.Params)
	where := pred.Expr
	if where == nil {
		where = expr.True{}
	}
	var err error
	if f.Where, err = r.bool(where, rootScope); err != nil {
		return Fragments{}, err
	}

	keys := make([]string, 0, len(order)+2)
	if rank != nil {
		r.bind(rank.Params)
		if f.Rank, err = r.num(rank.Expr, rootScope); err != nil {
			return Fragments{}, err
		}
		keys = append(keys, "rank DESC")
	}
	for _, o := range order {
		dir := "ASC"
		if !o.Ascending {
			dir = "DESC"
		}
		keys = append(keys, fmt.Sprintf("%s %s NULLS LAST", typed(o.Field, rootScope), dir))
	}
	keys = append(keys, "t.id ASC")
	f.OrderBy = strings.Join(keys, ", ")
	f.Args = r.args
	return f, nil
}

// bind appends params and makes following placeholders relative to them.
func (r *renderer) bind(params []any) {
	r.base = len(r.args)
	r.args = append(r.args, params...)
}

func (r *renderer) placeholder(param int) string {
	return fmt.Sprintf("$%d", r.base+param+1)
}

func (r *renderer) nextAlias() string {
	r.alias++
	return fmt.Sprintf("e%d", r.alias)
}

func (r *renderer) bool(b expr.Bool, scope string) (string, error) {
	switch n := b.(type) {
	case expr.True:
		return "TRUE", nil
	case expr.False:
		return "FALSE", nil
	case expr.Not:
		x, err := r.bool(n.X, scope)
		if err != nil {
			return "", err
		}
		return "NOT (" + x + ")", nil
	case expr.And:
		return r.join(n.Terms, " AND ", scope)
	case expr.Or:
		return r.join(n.Terms, " OR ", scope)
	case expr.Compare:
		return fmt.Sprintf("COALESCE(%s %s %s, FALSE)", typed(n.Field, scope), n.Op, r.placeholder(n.Param)), nil
	case expr.Like:
		return fmt.Sprintf(`COALESCE(%s ILIKE %s ESCAPE '\', FALSE)`, text(n.Field, scope), r.placeholder(n.Param)), nil
	case expr.Any:
		alias := r.nextAlias()
		cond, err := r.bool(n.Cond, alias+".value")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s AS %s WHERE %s)", elements(n.Over, scope), alias, cond), nil
	}
	return "", fmt.Errorf("unsupported predicate node %T", b)
}

func (r *renderer) join(terms []expr.Bool, sep, scope string) (string, error) {
	parts := make([]string, len(terms))
	for i, t := range terms {
		s, err := r.bool(t, scope)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (r *renderer) num(n expr.Num, scope string) (string, error) {
	switch x := n.(type) {
	case expr.Zero:
		return "0", nil
	case expr.Hit:
		cond, err := r.bool(x.Cond, scope)
		if err != nil {
			return "", err
		}
		if x.Inverted {
			return "(CASE WHEN " + cond + " THEN 0 ELSE 1 END)", nil
		}
		return "(CASE WHEN " + cond + " THEN 1 ELSE 0 END)", nil
	case expr.Sum:
		parts := make([]string, len(x.Terms))
		for i, t := range x.Terms {
			s, err := r.num(t, scope)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, " + ") + ")", nil
	case expr.SumEach:
		alias := r.nextAlias()
		inner, err := r.num(x.X, alias+".value")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(SELECT COALESCE(SUM(%s), 0) FROM %s AS %s)", inner, elements(x.Over, scope), alias), nil
	}
	return "", fmt.Errorf("unsupported rank node %T", n)
}

// jsonPath renders the jsonb value of f, or its text when asText is set.
func jsonPath(f expr.Field, scope string, asText bool) string {
	if f.IsSelf() {
		if asText {
			return "(" + scope + " #>> '{}')"
		}
		return scope
	}
	var b strings.Builder
	b.WriteString(scope)
	for i, seg := range f.Path {
		if asText && i == len(f.Path)-1 {
			b.WriteString("->>")
		} else {
			b.WriteString("->")
		}
		b.WriteString(quoteLiteral(seg.Key))
	}
	return "(" + b.String() + ")"
}

func text(f expr.Field, scope string) string {
	return jsonPath(f, scope, true)
}

// typed renders the field cast to the SQL type matching its kind.
func typed(f expr.Field, scope string) string {
	t := text(f, scope)
	switch f.Kind {
	case schema.KindInt, schema.KindUint, schema.KindFloat, schema.KindDecimal:
		return t + "::numeric"
	case schema.KindBool:
		return t + "::boolean"
	case schema.KindTime:
		return t + "::timestamptz"
	case schema.KindUUID:
		return t + "::uuid"
	}
	return t
}

// elements renders the set-returning expansion of a JSON array field.
// Non-array values expand to no rows.
func elements(f expr.Field, scope string) string {
	v := jsonPath(f, scope, false)
	return fmt.Sprintf("jsonb_array_elements(CASE WHEN jsonb_typeof(%s) = 'array' THEN %s ELSE '[]'::jsonb END)", v, v)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdentifier double-quotes a table name.
func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
