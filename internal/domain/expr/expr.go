// Package expr is the compiled form of search criteria: a boolean predicate tree
// and a numeric ranking tree with positional parameters. Engines render or evaluate it.
package expr

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

// Field references a leaf relative to the current scope: the root record, or the
// collection element bound by the nearest enclosing Any or SumEach.
// An empty Path refers to the element itself.
type Field struct {
	Path []schema.Segment
	Kind schema.Kind
}

// IsSelf reports whether the field is the scope value itself.
func (f Field) IsSelf() bool { return len(f.Path) == 0 }

func (f Field) String() string {
	if f.IsSelf() {
		return "@"
	}
	names := make([]string, len(f.Path))
	for i, s := range f.Path {
		names[i] = s.Name
	}
	return strings.Join(names, ".")
}

// Op is a typed comparison.
type Op string

// Op constants.
const (
	Eq  Op = "="
	Lt  Op = "<"
	Lte Op = "<="
	Gt  Op = ">"
	Gte Op = ">="
)

// Holds reports whether a three-way comparison result satisfies the operator.
func (o Op) Holds(cmp int) bool {
	switch o {
	case Eq:
		return cmp == 0
	case Lt:
		return cmp < 0
	case Lte:
		return cmp <= 0
	case Gt:
		return cmp > 0
	case Gte:
		return cmp >= 0
	}
	return false
}

// Bool is a node of the predicate tree.
type Bool interface {
	fmt.Stringer
	isBool()
}

// True always holds.
type True struct{}

// False never holds.
type False struct{}

// Not inverts X.
type Not struct{ X Bool }

// And holds when every term holds.
type And struct{ Terms []Bool }

// Or holds when at least one term holds.
type Or struct{ Terms []Bool }

// Compare tests Field against the typed parameter Param.
// A missing or null field never satisfies a comparison.
type Compare struct {
	Field Field
	Op    Op
	Param int
}

// Like is a case-insensitive pattern match of the field's textual form against
// parameter Param. % matches any run, _ any single character, \ escapes.
type Like struct {
	Field Field
	Param int
}

// Any holds when Cond holds for at least one element of the collection Over.
type Any struct {
	Over Field
	Cond Bool
}

func (True) isBool()    {}
func (False) isBool()   {}
func (Not) isBool()     {}
func (And) isBool()     {}
func (Or) isBool()      {}
func (Compare) isBool() {}
func (Like) isBool()    {}
func (Any) isBool()     {}

func (True) String() string  { return "TRUE" }
func (False) String() string { return "FALSE" }
func (n Not) String() string { return "NOT " + n.X.String() }
func (a And) String() string { return join(a.Terms, " AND ") }
func (o Or) String() string  { return join(o.Terms, " OR ") }

func (c Compare) String() string {
	return fmt.Sprintf("%s %s $%d", c.Field, c.Op, c.Param+1)
}

func (l Like) String() string {
	return fmt.Sprintf("%s ILIKE $%d", l.Field, l.Param+1)
}

func (a Any) String() string {
	return fmt.Sprintf("ANY %s (%s)", a.Over, a.Cond)
}

func join(terms []Bool, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Conj combines terms with AND. No terms yield True; one term is returned as is.
func Conj(terms []Bool) Bool {
	switch len(terms) {
	case 0:
		return True{}
	case 1:
		return terms[0]
	}
	return And{Terms: terms}
}

// Disj combines terms with OR. No terms yield True; one term is returned as is.
func Disj(terms []Bool) Bool {
	switch len(terms) {
	case 0:
		return True{}
	case 1:
		return terms[0]
	}
	return Or{Terms: terms}
}
