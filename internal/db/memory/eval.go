package memory

import (
	"bytes"
	"cmp"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/sieve/internal/domain/expr"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

// evaluator walks compiled trees against Go values.
type evaluator struct {
	params   []any
	patterns map[int]*regexp.Regexp
}

func newEvaluator(params []any) *evaluator {
	return &evaluator{params: params, patterns: make(map[int]*regexp.Regexp)}
}

func (ev *evaluator) holds(b expr.Bool, scope reflect.Value) bool {
	switch n := b.(type) {
	case expr.True:
		return true
	case expr.False:
		return false
	case expr.Not:
		return !ev.holds(n.X, scope)
	case expr.And:
		for _, t := range n.Terms {
			if !ev.holds(t, scope) {
				return false
			}
		}
		return true
	case expr.Or:
		for _, t := range n.Terms {
			if ev.holds(t, scope) {
				return true
			}
		}
		return false
	case expr.Compare:
		v, ok := schema.Normalize(lookup(scope, n.Field))
		if !ok {
			return false
		}
		c, ok := compareValues(v, ev.params[n.Param])
		return ok && n.Op.Holds(c)
	case expr.Like:
		v, ok := schema.Normalize(lookup(scope, n.Field))
		if !ok {
			return false
		}
		return ev.pattern(n.Param).MatchString(schema.Text(v))
	case expr.Any:
		found := false
		each(lookup(scope, n.Over), func(elem reflect.Value) bool {
			found = ev.holds(n.Cond, elem)
			return !found
		})
		return found
	}
	return false
}

func (ev *evaluator) count(n expr.Num, scope reflect.Value) int {
	switch x := n.(type) {
	case expr.Zero:
		return 0
	case expr.Hit:
		if ev.holds(x.Cond, scope) != x.Inverted {
			return 1
		}
		return 0
	case expr.Sum:
		total := 0
		for _, t := range x.Terms {
			total += ev.count(t, scope)
		}
		return total
	case expr.SumEach:
		total := 0
		each(lookup(scope, x.Over), func(elem reflect.Value) bool {
			total += ev.count(x.X, elem)
			return true
		})
		return total
	}
	return 0
}

func (ev *evaluator) pattern(param int) *regexp.Regexp {
	if re, ok := ev.patterns[param]; ok {
		return re
	}
	p, _ := ev.params[param].(string)
	re := likeRegexp(p)
	ev.patterns[param] = re
	return re
}

// likeRegexp compiles a LIKE pattern (% any run, _ one character, \ escape)
// into a case-insensitive anchored regular expression.
func likeRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(`.*`)
		case r == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(`\\`)
	}
	b.WriteString(`$`)
	return regexp.MustCompile(b.String())
}

// lookup follows f from scope. The zero Value is returned when any step is missing.
func lookup(scope reflect.Value, f expr.Field) reflect.Value {
	v := scope
	for _, seg := range f.Path {
		v = indirect(v)
		if !v.IsValid() || v.Kind() != reflect.Struct {
			return reflect.Value{}
		}
		for _, i := range seg.Index {
			v = indirect(v)
			if !v.IsValid() || v.Kind() != reflect.Struct {
				return reflect.Value{}
			}
			v = v.Field(i)
		}
	}
	return v
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// each calls fn for every element of a slice or array until fn returns false.
func each(v reflect.Value, fn func(reflect.Value) bool) {
	v = indirect(v)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return
	}
	for i := range v.Len() {
		if !fn(v.Index(i)) {
			return
		}
	}
}

// compareValues compares two normalized values of the same kind.
func compareValues(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return strings.Compare(x, y), ok
	case int64:
		y, ok := b.(int64)
		return cmp.Compare(x, y), ok
	case uint64:
		y, ok := b.(uint64)
		return cmp.Compare(x, y), ok
	case float64:
		y, ok := b.(float64)
		return cmp.Compare(x, y), ok
	case bool:
		y, ok := b.(bool)
		if x == y {
			return 0, ok
		}
		if !x {
			return -1, ok
		}
		return 1, ok
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return x.Cmp(y), ok
	case time.Time:
		y, ok := b.(time.Time)
		return x.Compare(y), ok
	case uuid.UUID:
		y, ok := b.(uuid.UUID)
		return bytes.Compare(x[:], y[:]), ok
	}
	return 0, false
}
