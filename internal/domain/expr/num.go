package expr

import (
	"fmt"
	"strings"
)

// Num is a node of the ranking tree. Every node evaluates to a non-negative integer.
type Num interface {
	fmt.Stringer
	isNum()
}

// Zero contributes nothing.
type Zero struct{}

// Hit is 1 when Cond holds and 0 otherwise, or the reverse when Inverted.
// A condition over missing or null data counts as not holding.
type Hit struct {
	Cond     Bool
	Inverted bool
}

// Sum adds its terms.
type Sum struct{ Terms []Num }

// SumEach adds X evaluated once per element of the collection Over.
type SumEach struct {
	Over Field
	X    Num
}

func (Zero) isNum()    {}
func (Hit) isNum()     {}
func (Sum) isNum()     {}
func (SumEach) isNum() {}

func (Zero) String() string { return "0" }

func (h Hit) String() string {
	if h.Inverted {
		return "MISS(" + h.Cond.String() + ")"
	}
	return "HIT(" + h.Cond.String() + ")"
}

func (s Sum) String() string {
	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

func (s SumEach) String() string {
	return fmt.Sprintf("SUM %s (%s)", s.Over, s.X)
}

// Add sums terms, dropping zeros. No terms yield Zero; one term is returned as is.
func Add(terms []Num) Num {
	kept := terms[:0:0]
	for _, t := range terms {
		if _, zero := t.(Zero); !zero {
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return Zero{}
	case 1:
		return kept[0]
	}
	return Sum{Terms: kept}
}

// Walk calls fn for every Bool node in b in depth-first order.
func Walk(b Bool, fn func(Bool)) {
	fn(b)
	switch n := b.(type) {
	case Not:
		Walk(n.X, fn)
	case And:
		for _, t := range n.Terms {
			Walk(t, fn)
		}
	case Or:
		for _, t := range n.Terms {
			Walk(t, fn)
		}
	case Any:
		Walk(n.Cond, fn)
	}
}
