// Package dto defines the JSON wire shapes of the search API and their conversion
// into domain requests.
package dto

import (
	"fmt"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/criteria"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
)

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeCollectionNotFound  ErrorCode = "collection_not_found"
	CodeUnknownField        ErrorCode = "unknown_field"
	CodeInvalidIdentifier   ErrorCode = "invalid_identifier"
	CodeInvalidFilterValue  ErrorCode = "invalid_filter_value"
	CodeUnsupportedOperator ErrorCode = "unsupported_operator"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Criteria is one node of the criteria tree.
type Criteria struct {
	Keys          []string   `json:"keys,omitempty"`
	Values        []string   `json:"values,omitempty"`
	Operator      string     `json:"operator,omitempty"`
	KeysLogic     string     `json:"keysLogic,omitempty"`
	ValuesLogic   string     `json:"valuesLogic,omitempty"`
	ChildrenLogic string     `json:"childrenLogic,omitempty"`
	Negate        bool       `json:"negate,omitempty"`
	Children      []Criteria `json:"children,omitempty"`
}

// Order is one explicit ordering key.
type Order struct {
	Key       string `json:"key"`
	Ascending bool   `json:"ascending"`
}

// SearchRequest is the root criteria plus paging and ordering.
type SearchRequest struct {
	Criteria
	Offset           int     `json:"offset,omitempty"`
	Limit            int     `json:"limit,omitempty"`
	Order            []Order `json:"order,omitempty"`
	RankByMatchCount bool    `json:"rankByMatchCount,omitempty"`
}

// PageResponse is one page of matching records.
type PageResponse struct {
	Count *int  `json:"count"`
	Data  []any `json:"data"`
}

// IndexOfResponse is the position of a record among all matches, -1 when absent.
type IndexOfResponse struct {
	Position int `json:"position"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ToRequest validates the wire request and builds a domain request.
// Enum strings are case-insensitive. Non-positive limits use the request package defaults.
func (r SearchRequest) ToRequest(defaultLimit, maxLimit int) (request.Request, error) {
	root, err := r.Criteria.ToNode()
	if err != nil {
		return request.Request{}, err
	}

	order := make([]request.Order, 0, len(r.Order))
	for i, o := range r.Order {
		ro, err := request.NewOrder(o.Key, o.Ascending)
		if err != nil {
			return request.Request{}, fmt.Errorf("%w: order[%d]: %w", domain.ErrInvalidRequest, i, err)
		}
		order = append(order, ro)
	}

	req, err := request.New(request.Params{
		Root:             root,
		Offset:           r.Offset,
		Limit:            r.Limit,
		Order:            order,
		RankByMatchCount: r.RankByMatchCount,
		DefaultLimit:     defaultLimit,
		MaxLimit:         maxLimit,
	})
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

// ToNode converts the criteria tree into a domain node.
func (c Criteria) ToNode() (criteria.Node, error) {
	return c.toNode(1)
}

func (c Criteria) toNode(depth int) (criteria.Node, error) {
	if depth > criteria.MaxDepth {
		return criteria.Node{}, fmt.Errorf("%w: criteria nested deeper than %d levels",
			domain.ErrInvalidRequest, criteria.MaxDepth)
	}

	op, err := criteria.ParseOperator(c.Operator)
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	keysLogic, err := criteria.ParseLogic(c.KeysLogic, criteria.DefaultKeysLogic)
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: keysLogic: %w", domain.ErrInvalidRequest, err)
	}
	valuesLogic, err := criteria.ParseLogic(c.ValuesLogic, criteria.DefaultValuesLogic)
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: valuesLogic: %w", domain.ErrInvalidRequest, err)
	}
	childrenLogic, err := criteria.ParseLogic(c.ChildrenLogic, criteria.DefaultChildrenLogic)
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: childrenLogic: %w", domain.ErrInvalidRequest, err)
	}

	children := make([]criteria.Node, 0, len(c.Children))
	for _, child := range c.Children {
		n, err := child.toNode(depth + 1)
		if err != nil {
			return criteria.Node{}, err
		}
		children = append(children, n)
	}

	n, err := criteria.New(criteria.Params{
		Keys:          c.Keys,
		Values:        c.Values,
		Operator:      op,
		KeysLogic:     keysLogic,
		ValuesLogic:   valuesLogic,
		ChildrenLogic: childrenLogic,
		Negate:        c.Negate,
		Children:      children,
	})
	if err != nil {
		return criteria.Node{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return n, nil
}

// FromNode converts a domain node back to its wire shape.
func FromNode(n criteria.Node) Criteria {
	c := Criteria{
		Keys:          n.Keys(),
		Values:        n.Values(),
		Operator:      string(n.Operator()),
		KeysLogic:     string(n.KeysLogic()),
		ValuesLogic:   string(n.ValuesLogic()),
		ChildrenLogic: string(n.ChildrenLogic()),
		Negate:        n.Negate(),
	}
	for _, child := range n.Children() {
		c.Children = append(c.Children, FromNode(child))
	}
	return c
}
