package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
	"github.com/kailas-cloud/sieve/internal/metrics"
	"github.com/kailas-cloud/sieve/internal/transport/dto"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
)

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultLimit  int
	maxLimit      int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxLimit <= 0 uses request.MaxLimit.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	maxLimit int,
	logger *zap.Logger,
) *Server {
	if maxLimit <= 0 {
		maxLimit = request.MaxLimit
	}
	s := &Server{
		search:   search,
		health:   health,
		logger:   logger,
		maxLimit: maxLimit,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, dto.CodeCollectionNotFound),
		sentinelHandler(domain.ErrInvalidIdentifier, http.StatusBadRequest, dto.CodeInvalidIdentifier),
		sentinelHandler(domain.ErrUnknownField, http.StatusBadRequest, dto.CodeUnknownField),
		sentinelHandler(domain.ErrInvalidFilterValue, http.StatusBadRequest, dto.CodeInvalidFilterValue),
		sentinelHandler(domain.ErrUnsupportedOperator, http.StatusBadRequest, dto.CodeUnsupportedOperator),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, dto.CodeValidationFailed),
	}
	return s
}

// WithDefaultLimit sets the page size used when a request omits limit.
func (s *Server) WithDefaultLimit(n int) *Server {
	s.defaultLimit = n
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/collections/{collection}", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/index-of", s.IndexOf)
	})
}

// Search handles POST /collections/{collection}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	page, err := s.search.Search(r.Context(), chi.URLParam(r, "collection"), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var count *int
	if n, ok := page.Count(); ok {
		count = &n
	}
	writeJSON(w, http.StatusOK, dto.PageResponse{Count: count, Data: page.Data()})
}

// IndexOf handles POST /collections/{collection}/index-of?id=...
func (s *Server) IndexOf(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, dto.CodeValidationFailed, "id query parameter is required")
		return
	}

	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	pos, err := s.search.IndexOf(r.Context(), chi.URLParam(r, "collection"), &req, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.IndexOfResponse{Position: pos})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (request.Request, bool) {
	var body dto.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeBadRequest, "Invalid request body: "+err.Error())
		return request.Request{}, false
	}

	req, err := body.ToRequest(s.defaultLimit, s.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidationFailed, err.Error())
		return request.Request{}, false
	}
	return req, true
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, dto.HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code dto.ErrorCode, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the client-facing message of a domain error.
// Structured errors carry only request-supplied paths and values, so their text is safe.
func safeDomainMessage(err error) string {
	var (
		unknown     *domain.UnknownFieldError
		identifier  *domain.InvalidIdentifierError
		value       *domain.InvalidFilterValueError
		unsupported *domain.UnsupportedOperatorError
	)
	switch {
	case errors.As(err, &unknown):
		return unknown.Error()
	case errors.As(err, &identifier):
		return identifier.Error()
	case errors.As(err, &value):
		return value.Error()
	case errors.As(err, &unsupported):
		return unsupported.Error()
	}

	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownField,
		domain.ErrInvalidIdentifier,
		domain.ErrInvalidFilterValue,
		domain.ErrUnsupportedOperator,
		domain.ErrInvalidRequest,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code dto.ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, dto.CodeInternalError, "internal error")
}
