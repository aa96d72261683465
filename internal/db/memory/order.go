package memory

import (
	"reflect"

	"github.com/kailas-cloud/sieve/internal/domain/expr"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

// compareField orders a and b by f. Missing values sort last in both directions.
func compareField(a, b reflect.Value, f expr.Field, ascending bool) int {
	av, aok := schema.Normalize(lookup(a, f))
	bv, bok := schema.Normalize(lookup(b, f))
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	c, ok := compareValues(av, bv)
	if !ok {
		return 0
	}
	if !ascending {
		c = -c
	}
	return c
}
