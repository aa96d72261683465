package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownField signals a field path that does not resolve against the schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidIdentifier signals a field path with characters outside [A-Za-z0-9_.].
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidFilterValue signals a value that cannot be coerced to the comparison type.
	ErrInvalidFilterValue = errors.New("invalid filter value")
	// ErrUnsupportedOperator signals an operator that cannot apply to the field.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrInvalidRequest signals a malformed search request (paging, enums).
	ErrInvalidRequest = errors.New("invalid request")
)

// UnknownFieldError reports the path and the first segment that failed to resolve.
type UnknownFieldError struct {
	Type    string
	Path    string
	Segment string
}

func (e *UnknownFieldError) Error() string {
	if e.Segment == "" || e.Segment == e.Path {
		return fmt.Sprintf("%s: %q on %s", ErrUnknownField.Error(), e.Path, e.Type)
	}
	return fmt.Sprintf("%s: %q on %s (segment %q)", ErrUnknownField.Error(), e.Path, e.Type, e.Segment)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// InvalidIdentifierError reports a rejected field path.
type InvalidIdentifierError struct {
	Path string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidIdentifier.Error(), e.Path)
}

func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// InvalidFilterValueError reports a value that failed coercion for an exact or ordering operator.
type InvalidFilterValueError struct {
	Path  string
	Value string
	Type  string
}

func (e *InvalidFilterValueError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid %s for %q", ErrInvalidFilterValue.Error(), e.Value, e.Type, e.Path)
}

func (e *InvalidFilterValueError) Unwrap() error { return ErrInvalidFilterValue }

// UnsupportedOperatorError reports an operator that cannot be applied to a field.
type UnsupportedOperatorError struct {
	Path     string
	Operator string
	Reason   string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("%s: %s on %q: %s", ErrUnsupportedOperator.Error(), e.Operator, e.Path, e.Reason)
}

func (e *UnsupportedOperatorError) Unwrap() error { return ErrUnsupportedOperator }
