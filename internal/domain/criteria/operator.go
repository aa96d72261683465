package criteria

import (
	"fmt"
	"strings"
)

// Operator is the comparison applied between a key and a value.
type Operator string

// Operator constants.
const (
	Equals   Operator = "EQUALS"
	Contains Operator = "CONTAINS"
	// Wildcard treats * as any run of characters and ? as any single character.
	Wildcard Operator = "WILDCARD"
	LT       Operator = "LT"
	LTE      Operator = "LTE"
	GT       Operator = "GT"
	GTE      Operator = "GTE"
)

// IsValid checks if the operator is one of the supported values.
func (o Operator) IsValid() bool {
	switch o {
	case Equals, Contains, Wildcard, LT, LTE, GT, GTE:
		return true
	}
	return false
}

// IsPattern reports whether the operator matches substrings rather than typed values.
func (o Operator) IsPattern() bool {
	return o == Contains || o == Wildcard
}

// ParseOperator parses an operator name case-insensitively. Empty input yields Equals.
func ParseOperator(s string) (Operator, error) {
	if s == "" {
		return Equals, nil
	}
	o := Operator(strings.ToUpper(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid operator %q", s)
	}
	return o, nil
}

// Logic is how several keys, values or children combine.
type Logic string

// Logic constants.
const (
	All Logic = "ALL"
	Any Logic = "ANY"
)

// IsValid checks if the logic is ALL or ANY.
func (l Logic) IsValid() bool {
	return l == All || l == Any
}

// ParseLogic parses a logic name case-insensitively. Empty input yields def.
func ParseLogic(s string, def Logic) (Logic, error) {
	if s == "" {
		return def, nil
	}
	l := Logic(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("invalid logic %q", s)
	}
	return l, nil
}
