package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/sieve/internal/domain"
)

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{&domain.UnknownFieldError{Path: "x"}, "unknown_field"},
		{fmt.Errorf("wrapped: %w", &domain.InvalidIdentifierError{Path: "a b"}), "invalid_identifier"},
		{&domain.InvalidFilterValueError{}, "invalid_filter_value"},
		{&domain.UnsupportedOperatorError{}, "unsupported_operator"},
		{domain.ErrInvalidRequest, "invalid_request"},
		{domain.ErrNotFound, "not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserveCompile(t *testing.T) {
	before := testutil.ToFloat64(CompileErrorsTotal.WithLabelValues("unknown_field"))
	ObserveCompile(KindPredicate, time.Now(), &domain.UnknownFieldError{Path: "x"})
	ObserveCompile(KindPredicate, time.Now(), nil)

	if got := testutil.ToFloat64(CompileErrorsTotal.WithLabelValues("unknown_field")); got != before+1 {
		t.Errorf("compile_errors_total = %f, want %f", got, before+1)
	}
	if testutil.CollectAndCount(CompileDuration) == 0 {
		t.Error("expected compile duration observations")
	}
}
