// Package search compiles search requests and runs them on the collection's engine.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
	"github.com/kailas-cloud/sieve/internal/domain/search/request"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
)

// Service handles criteria search and position lookup over registered collections.
type Service struct {
	colls      CollectionReader
	compiler   *compile.Compiler
	translator *schema.Translator
	logger     *zap.Logger
}

// New creates a search service. translator may be nil when no collection is translated.
func New(
	colls CollectionReader, compiler *compile.Compiler,
	translator *schema.Translator, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{colls: colls, compiler: compiler, translator: translator, logger: logger}
}

// Search returns one page of records matching req.
func (s *Service) Search(
	ctx context.Context, collectionName string, req *request.Request,
) (result.Page, error) {
	col, q, err := s.prepare(ctx, collectionName, req)
	if err != nil {
		s.count(col.Name, err)
		return result.Page{}, err
	}

	page, err := col.Engine.Find(ctx, q)
	s.count(col.Name, err)
	if err != nil {
		return result.Page{}, fmt.Errorf("find: %w", err)
	}
	return result.New(page.Count, page.Data), nil
}

// IndexOf returns the 0-based position of the record with the given id among all
// matches of req, or -1 when the record does not match.
func (s *Service) IndexOf(
	ctx context.Context, collectionName string, req *request.Request, id string,
) (int, error) {
	col, q, err := s.prepare(ctx, collectionName, req)
	if err != nil {
		s.count(col.Name, err)
		return 0, err
	}

	pos, err := col.Engine.IndexOf(ctx, q, id)
	s.count(col.Name, err)
	if err != nil {
		return 0, fmt.Errorf("index of: %w", err)
	}
	return pos, nil
}

// Explain compiles req into the engine query without executing it.
func (s *Service) Explain(
	ctx context.Context, collectionName string, req *request.Request,
) (*db.Query, error) {
	_, q, err := s.prepare(ctx, collectionName, req)
	return q, err
}

func (s *Service) prepare(
	ctx context.Context, collectionName string, req *request.Request,
) (catalog.Collection, *db.Query, error) {
	col, err := s.colls.Get(ctx, collectionName)
	if err != nil {
		return catalog.Collection{}, nil, fmt.Errorf("get collection: %w", err)
	}

	log := logpkg.ForCollection(ctx, s.logger, col.Name)
	q, err := s.plan(col, req)
	if err != nil {
		log.Warn("Search request rejected", zap.Error(err))
		return col, nil, err
	}

	log.Debug("Search compiled",
		zap.Stringer("predicate", q.Predicate.Expr),
		zap.Int("params", len(q.Predicate.Params)),
		zap.Bool("ranked", q.Rank != nil),
	)
	return col, q, nil
}

// plan translates req onto the storage schema and compiles it.
func (s *Service) plan(col catalog.Collection, req *request.Request) (*db.Query, error) {
	storage := col.Storage
	r := *req

	if col.Translated() {
		if s.translator == nil {
			return nil, fmt.Errorf("collection %q requires a translator", col.Name)
		}
		start := time.Now()
		translated, err := s.translator.TranslateRequest(r, col.Surface, storage)
		metrics.ObserveCompile(metrics.KindTranslate, start, err)
		if err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
		r = translated
	}

	start := time.Now()
	pred, err := s.compiler.Compile(r.Root(), storage)
	metrics.ObserveCompile(metrics.KindPredicate, start, err)
	if err != nil {
		return nil, fmt.Errorf("compile predicate: %w", err)
	}

	var rank *compile.Rank
	if r.RankByMatchCount() {
		start = time.Now()
		rk, err := s.compiler.CompileRank(r.Root(), storage)
		metrics.ObserveCompile(metrics.KindRank, start, err)
		if err != nil {
			return nil, fmt.Errorf("compile rank: %w", err)
		}
		rank = &rk
	}

	start = time.Now()
	order, err := s.compiler.CompileOrder(r.Order(), storage)
	metrics.ObserveCompile(metrics.KindOrder, start, err)
	if err != nil {
		return nil, fmt.Errorf("compile order: %w", err)
	}

	idField, err := s.compiler.ResolveField(storage, col.IDField)
	if err != nil {
		return nil, fmt.Errorf("resolve id field: %w", err)
	}

	return &db.Query{
		Collection: col.Source,
		Type:       storage,
		Predicate:  pred,
		Rank:       rank,
		Order:      order,
		Offset:     r.Offset(),
		Limit:      r.Limit(),
		IDField:    idField,
		CountTotal: true,
	}, nil
}

// count records the outcome. Unknown collections share one label.
func (s *Service) count(collection string, err error) {
	if collection == "" {
		collection = "unknown"
	}
	status := "ok"
	if err != nil {
		status = metrics.Reason(err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(collection, status).Inc()
}
