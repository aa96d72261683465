package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/catalog/books"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
	"github.com/kailas-cloud/sieve/internal/transport/dto"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	src := memory.NewStaticSource()
	if err := src.Add(books.Collection, books.Fixtures()); err != nil {
		t.Fatal(err)
	}
	cat := catalog.New()
	if err := cat.Register(catalog.Collection{
		Name: books.Collection, Surface: books.BookType, Engine: memory.NewEngine(src),
	}); err != nil {
		t.Fatal(err)
	}
	reg := schema.NewRegistry()
	search := searchuc.New(cat, compile.New(reg), schema.NewTranslator(reg, books.Table()), zap.NewNop())
	server := NewServer(search, healthuc.New(nil, cat), 3, zap.NewNop())

	r := chi.NewRouter()
	server.Register(r)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSearch_OK(t *testing.T) {
	h := newTestRouter(t)
	rr := post(t, h, "/collections/books/search",
		`{"keys":["title"],"values":["go"],"operator":"contains","order":[{"key":"year","ascending":false}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp struct {
		Count *int         `json:"count"`
		Data  []books.Book `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Fatalf("count = %v", resp.Count)
	}
	if resp.Data[0].Title != "Concurrency in Go" {
		t.Errorf("first = %q, want newest first", resp.Data[0].Title)
	}
}

func TestSearch_LimitClampedToServerMax(t *testing.T) {
	h := newTestRouter(t)
	rr := post(t, h, "/collections/books/search", `{"limit":50}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp dto.PageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 3 {
		t.Errorf("len(data) = %d, want 3", len(resp.Data))
	}
	if *resp.Count != len(books.Fixtures()) {
		t.Errorf("count = %d", *resp.Count)
	}
}

func TestSearch_Errors(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   dto.ErrorCode
	}{
		{"bad json", "/collections/books/search", `{`, http.StatusBadRequest, dto.CodeBadRequest},
		{"unknown json field", "/collections/books/search", `{"query":"go"}`, http.StatusBadRequest, dto.CodeBadRequest},
		{"bad operator", "/collections/books/search", `{"operator":"regex"}`, http.StatusBadRequest, dto.CodeValidationFailed},
		{"unknown collection", "/collections/films/search", `{}`, http.StatusNotFound, dto.CodeCollectionNotFound},
		{
			"unknown field", "/collections/books/search", `{"keys":["Publisher"],"values":["x"]}`,
			http.StatusBadRequest, dto.CodeUnknownField,
		},
		{
			"injection", "/collections/books/search", `{"keys":["Title'; DROP TABLE books;--"],"values":["x"]}`,
			http.StatusBadRequest, dto.CodeInvalidIdentifier,
		},
		{
			"bad value", "/collections/books/search", `{"keys":["Year"],"values":["soon"],"operator":"LT"}`,
			http.StatusBadRequest, dto.CodeInvalidFilterValue,
		},
		{
			"unsupported", "/collections/books/search", `{"keys":["InPrint"],"values":["true"],"operator":"GT"}`,
			http.StatusBadRequest, dto.CodeUnsupportedOperator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body)
			}
			var resp dto.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", resp.Code, tt.code, resp.Message)
			}
		})
	}
}

func TestIndexOf(t *testing.T) {
	h := newTestRouter(t)
	body := `{"order":[{"key":"Year","ascending":true}]}`

	rr := post(t, h, "/collections/books/index-of?id="+books.NetworkingID.String(), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var resp dto.IndexOfResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Position != 1 {
		t.Errorf("position = %d, want 1", resp.Position)
	}

	rr = post(t, h, "/collections/books/index-of", body)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing id: status = %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp dto.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Checks["catalog"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestSafeDomainMessage_HidesInternals(t *testing.T) {
	if got := safeDomainMessage(json.Unmarshal([]byte("{"), &struct{}{})); got != "internal error" {
		t.Errorf("safeDomainMessage = %q", got)
	}
}
