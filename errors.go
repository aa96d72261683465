package sieve

import (
	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrCollectionNotFound  = catalog.ErrCollectionNotFound
	ErrUnknownField        = domain.ErrUnknownField
	ErrInvalidIdentifier   = domain.ErrInvalidIdentifier
	ErrInvalidFilterValue  = domain.ErrInvalidFilterValue
	ErrUnsupportedOperator = domain.ErrUnsupportedOperator
	ErrInvalidRequest      = domain.ErrInvalidRequest
)

// Structured error types. Use errors.As() to inspect.
type (
	UnknownFieldError        = domain.UnknownFieldError
	InvalidIdentifierError   = domain.InvalidIdentifierError
	InvalidFilterValueError  = domain.InvalidFilterValueError
	UnsupportedOperatorError = domain.UnsupportedOperatorError
)
