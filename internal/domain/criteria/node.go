package criteria

import (
	"fmt"
	"slices"
)

// Default combinators applied when Params leaves them empty.
const (
	DefaultOperator      = Equals
	DefaultKeysLogic     = Any
	DefaultValuesLogic   = Any
	DefaultChildrenLogic = All
)

// MaxDepth bounds the nesting of children.
const MaxDepth = 32

// Params is the mutable input used to build a Node.
type Params struct {
	Keys          []string
	Values        []string
	Operator      Operator
	KeysLogic     Logic
	ValuesLogic   Logic
	ChildrenLogic Logic
	Negate        bool
	Children      []Node
}

// Node is an immutable, recursively nested filter clause.
type Node struct {
	keys          []string
	values        []string
	op            Operator
	keysLogic     Logic
	valuesLogic   Logic
	childrenLogic Logic
	negate        bool
	children      []Node
}

// New validates params and creates a Node. Slices are copied.
func New(p Params) (Node, error) {
	if p.Operator == "" {
		p.Operator = DefaultOperator
	}
	if !p.Operator.IsValid() {
		return Node{}, fmt.Errorf("invalid operator %q", p.Operator)
	}
	if p.KeysLogic == "" {
		p.KeysLogic = DefaultKeysLogic
	}
	if p.ValuesLogic == "" {
		p.ValuesLogic = DefaultValuesLogic
	}
	if p.ChildrenLogic == "" {
		p.ChildrenLogic = DefaultChildrenLogic
	}
	for _, l := range []Logic{p.KeysLogic, p.ValuesLogic, p.ChildrenLogic} {
		if !l.IsValid() {
			return Node{}, fmt.Errorf("invalid logic %q", l)
		}
	}
	n := Node{
		keys:          slices.Clone(p.Keys),
		values:        slices.Clone(p.Values),
		op:            p.Operator,
		keysLogic:     p.KeysLogic,
		valuesLogic:   p.ValuesLogic,
		childrenLogic: p.ChildrenLogic,
		negate:        p.Negate,
		children:      slices.Clone(p.Children),
	}
	if d := n.Depth(); d > MaxDepth {
		return Node{}, fmt.Errorf("criteria nested too deep (%d levels, max %d)", d, MaxDepth)
	}
	return n, nil
}

// MustNew calls New and panics on error.
func MustNew(p Params) Node {
	n, err := New(p)
	if err != nil {
		panic(err)
	}
	return n
}

// Keys returns the field paths.
func (n Node) Keys() []string { return n.keys }

// Values returns the literal values.
func (n Node) Values() []string { return n.values }

// Operator returns the comparison operator.
func (n Node) Operator() Operator { return n.orDefault(n.op, DefaultOperator) }

// KeysLogic returns how multiple keys combine.
func (n Node) KeysLogic() Logic { return n.logicOr(n.keysLogic, DefaultKeysLogic) }

// ValuesLogic returns how multiple values combine.
func (n Node) ValuesLogic() Logic { return n.logicOr(n.valuesLogic, DefaultValuesLogic) }

// ChildrenLogic returns how children combine.
func (n Node) ChildrenLogic() Logic { return n.logicOr(n.childrenLogic, DefaultChildrenLogic) }

// Negate reports whether the node's compiled expression is inverted.
func (n Node) Negate() bool { return n.negate }

// Children returns the nested nodes.
func (n Node) Children() []Node { return n.children }

// IsEmpty reports whether the node has no keys, no values and no children.
func (n Node) IsEmpty() bool {
	return len(n.keys) == 0 && len(n.values) == 0 && len(n.children) == 0
}

// HasClause reports whether the node carries its own key/value clause.
func (n Node) HasClause() bool {
	return len(n.keys) > 0 || len(n.values) > 0
}

// IsFullText reports whether the clause searches the default full-text paths.
func (n Node) IsFullText() bool {
	return len(n.keys) == 0 && len(n.values) > 0
}

// Depth returns the nesting depth, 1 for a node without children.
func (n Node) Depth() int {
	d := 0
	for _, c := range n.children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// WithKeys returns a copy of the node with keys replaced.
func (n Node) WithKeys(keys []string) Node {
	n.keys = slices.Clone(keys)
	return n
}

// WithKeysLogic returns a copy of the node with keysLogic replaced.
func (n Node) WithKeysLogic(l Logic) Node {
	n.keysLogic = l
	return n
}

// WithChildren returns a copy of the node with children replaced.
func (n Node) WithChildren(children []Node) Node {
	n.children = slices.Clone(children)
	return n
}

// Clause returns the node's own key/value clause as a standalone node without children.
func (n Node) Clause() Node {
	n.children = nil
	n.negate = false
	return n
}

func (n Node) orDefault(o, def Operator) Operator {
	if o == "" {
		return def
	}
	return o
}

func (n Node) logicOr(l, def Logic) Logic {
	if l == "" {
		return def
	}
	return l
}
