package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/collections/{collection}/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, name := range []string{"books", "authors"} {
		req := httptest.NewRequest(http.MethodPost, "/collections/"+name+"/search", http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/collections/{collection}/search", "200"))
	if got < 2 {
		t.Errorf("http_requests_total = %f, want >= 2 under one route label", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Get("/bad", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadRequest) })

	tests := []struct {
		path   string
		status string
	}{
		{"/ok", "200"},
		{"/bad", "400"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status)); v < 1 {
				t.Errorf("requests_total{%s,%s} = %f", tc.path, tc.status, v)
			}
		})
	}
}

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(""); got != "unmatched" {
		t.Errorf("routeLabel(\"\") = %q", got)
	}
	if got := routeLabel("/health"); got != "/health" {
		t.Errorf("routeLabel(/health) = %q", got)
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	SearchRequestsTotal.WithLabelValues("books", "ok").Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "sieve_search_requests_total") {
		t.Error("expected sieve_search_requests_total in output")
	}
}
