package sieve

import (
	"fmt"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
)

// Criteria is a fluent builder for one node of a criteria tree.
// Builders are not safe for concurrent mutation.
type Criteria struct {
	keys          []string
	values        []string
	op            criteria.Operator
	keysLogic     criteria.Logic
	valuesLogic   criteria.Logic
	childrenLogic criteria.Logic
	negate        bool
	children      []*Criteria
}

// Where starts a clause over the given field paths.
func Where(keys ...string) *Criteria {
	return &Criteria{keys: keys}
}

// Text starts a full-text clause over the schema's default string paths.
func Text(values ...string) *Criteria {
	return &Criteria{values: values, op: criteria.Contains}
}

// All combines children so that every child must hold.
func All(children ...*Criteria) *Criteria {
	return &Criteria{children: children, childrenLogic: criteria.All}
}

// AnyOf combines children so that at least one child must hold.
func AnyOf(children ...*Criteria) *Criteria {
	return &Criteria{children: children, childrenLogic: criteria.Any}
}

func (c *Criteria) set(op criteria.Operator, values []string) *Criteria {
	c.op = op
	c.values = values
	return c
}

// Equals matches fields exactly equal to any of values.
func (c *Criteria) Equals(values ...string) *Criteria { return c.set(criteria.Equals, values) }

// Contains matches fields containing any of values, case-insensitively.
func (c *Criteria) Contains(values ...string) *Criteria { return c.set(criteria.Contains, values) }

// Like matches fields against wildcard patterns: * is any run, ? is one character.
func (c *Criteria) Like(patterns ...string) *Criteria { return c.set(criteria.Wildcard, patterns) }

// Lt matches fields below any of values.
func (c *Criteria) Lt(values ...string) *Criteria { return c.set(criteria.LT, values) }

// Lte matches fields at or below any of values.
func (c *Criteria) Lte(values ...string) *Criteria { return c.set(criteria.LTE, values) }

// Gt matches fields above any of values.
func (c *Criteria) Gt(values ...string) *Criteria { return c.set(criteria.GT, values) }

// Gte matches fields at or above any of values.
func (c *Criteria) Gte(values ...string) *Criteria { return c.set(criteria.GTE, values) }

// AllKeys requires every key to match instead of any.
func (c *Criteria) AllKeys() *Criteria {
	c.keysLogic = criteria.All
	return c
}

// AllValues requires every value to match instead of any.
func (c *Criteria) AllValues() *Criteria {
	c.valuesLogic = criteria.All
	return c
}

// Not negates the node, children included.
func (c *Criteria) Not() *Criteria {
	c.negate = !c.negate
	return c
}

// And returns a node requiring c and every other.
func (c *Criteria) And(others ...*Criteria) *Criteria {
	return All(append([]*Criteria{c}, others...)...)
}

// Or returns a node requiring c or any other.
func (c *Criteria) Or(others ...*Criteria) *Criteria {
	return AnyOf(append([]*Criteria{c}, others...)...)
}

// Node validates the builder and returns the immutable criteria node.
func (c *Criteria) Node() (criteria.Node, error) {
	if c == nil {
		return criteria.Node{}, nil
	}
	children := make([]criteria.Node, 0, len(c.children))
	for i, child := range c.children {
		n, err := child.Node()
		if err != nil {
			return criteria.Node{}, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, n)
	}
	n, err := criteria.New(criteria.Params{
		Keys:          c.keys,
		Values:        c.values,
		Operator:      c.op,
		KeysLogic:     c.keysLogic,
		ValuesLogic:   c.valuesLogic,
		ChildrenLogic: c.childrenLogic,
		Negate:        c.negate,
		Children:      children,
	})
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return n, nil
}
