package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/sieve/internal/domain"
)

// Compile kinds.
const (
	KindPredicate = "predicate"
	KindRank      = "rank"
	KindOrder     = "order"
	KindTranslate = "translate"
)

// Search Prometheus metrics.
var (
	CompileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "compile_duration_seconds",
			Help:      "Criteria compilation duration in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"kind"},
	)

	CompileErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "compile_errors_total",
			Help:      "Total criteria compilation failures",
		},
		[]string{"reason"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "search_requests_total",
			Help:      "Total search and index-of requests",
		},
		[]string{"collection", "status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompileDuration)
	prometheus.MustRegister(CompileErrorsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	searchMetricsRegistered = true
}

// ObserveCompile records one compilation of the given kind.
func ObserveCompile(kind string, start time.Time, err error) {
	CompileDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		CompileErrorsTotal.WithLabelValues(Reason(err)).Inc()
	}
}

// Reason maps an error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, domain.ErrInvalidFilterValue):
		return "invalid_filter_value"
	case errors.Is(err, domain.ErrUnsupportedOperator):
		return "unsupported_operator"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "internal"
}
