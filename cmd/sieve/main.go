package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/catalog"
	"github.com/kailas-cloud/sieve/internal/catalog/books"
	"github.com/kailas-cloud/sieve/internal/config"
	"github.com/kailas-cloud/sieve/internal/db"
	dbBadger "github.com/kailas-cloud/sieve/internal/db/badger"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/sieve/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/sieve/internal/db/redis"
	"github.com/kailas-cloud/sieve/internal/domain/schema"
	"github.com/kailas-cloud/sieve/internal/domain/search/compile"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/mapping"
	"github.com/kailas-cloud/sieve/internal/metrics"
	chiTransport "github.com/kailas-cloud/sieve/internal/transport/chi"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
	"github.com/kailas-cloud/sieve/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	build := version.Get()
	logger.Info("Starting sieve API server",
		zap.String("built", build.Date),
		zap.String("go", build.GoVersion),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine", cfg.Engine.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open engine", zap.Error(err))
	}
	defer be.close()
	logger.Info("Engine ready", zap.String("driver", cfg.Engine.Driver), zap.Bool("seeded", cfg.Engine.Seed))

	// Schema caches are shared by the compiler and the mapping table.
	reg := schema.NewRegistry(schema.WithFullTextDepth(cfg.Search.FullTextMaxDepth))
	table, err := buildMapping(cfg.Mapping, reg)
	if err != nil {
		logger.Fatal("Failed to load mapping", zap.Error(err))
	}

	cat := catalog.New()
	for _, col := range []catalog.Collection{
		{Name: books.Collection, Surface: books.BookType, Engine: be.engine},
		{
			Name:    books.ViewCollection,
			Surface: books.ListingType,
			Storage: books.BookType,
			Source:  books.Collection,
			Engine:  be.engine,
		},
	} {
		if err := cat.Register(col); err != nil {
			logger.Fatal("Failed to register collection", zap.String("collection", col.Name), zap.Error(err))
		}
	}

	searchSvc := searchuc.New(cat, compile.New(reg), schema.NewTranslator(reg, table), logger)
	healthSvc := healthuc.New(be.pinger, cat)

	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Search.MaxLimit, logger).
		WithDefaultLimit(cfg.Search.DefaultLimit)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// backend is the engine selected by config plus what health and shutdown need from it.
type backend struct {
	engine db.Engine
	// pinger is nil for in-process engines.
	pinger healthuc.EnginePinger
	close  func()
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Engine.Driver {
	case config.DriverMemory:
		src := memory.NewStaticSource()
		if cfg.Engine.Seed {
			if err := src.Add(books.Collection, books.Fixtures()); err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		return &backend{engine: memory.NewEngine(src), close: func() {}}, nil

	case config.DriverPostgres:
		eng, err := dbPostgres.Open(dbPostgres.Config{
			DSN:         cfg.Postgres.DSN,
			TablePrefix: cfg.Postgres.TablePrefix,
		})
		if err != nil {
			return nil, err
		}
		if err := eng.EnsureTable(ctx, books.Collection); err != nil {
			_ = eng.Close()
			return nil, fmt.Errorf("ensure table: %w", err)
		}
		if cfg.Engine.Seed {
			if err := books.Seed(ctx, eng); err != nil {
				_ = eng.Close()
				return nil, err
			}
		}
		return &backend{engine: eng, pinger: eng, close: func() { _ = eng.Close() }}, nil

	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Redis.Addrs,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, err
		}
		if cfg.Engine.Seed {
			if err := books.Seed(ctx, store); err != nil {
				store.Close()
				return nil, err
			}
		}
		return &backend{engine: memory.NewEngine(store), pinger: store, close: store.Close}, nil

	case config.DriverBadger:
		src, err := dbBadger.Open(dbBadger.Config{
			Path:     cfg.Badger.Path,
			InMemory: cfg.Badger.InMemory,
		}, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Engine.Seed {
			if err := books.Seed(ctx, src); err != nil {
				_ = src.Close()
				return nil, err
			}
		}
		return &backend{engine: memory.NewEngine(src), close: func() { _ = src.Close() }}, nil
	}
	return nil, fmt.Errorf("%w: %q", db.ErrUnsupportedDriver, cfg.Engine.Driver)
}

// buildMapping combines the built-in view correspondences with the configured file.
func buildMapping(cfg config.MappingConfig, reg *schema.Registry) (*mapping.Table, error) {
	var opts []mapping.Option
	if cfg.Identity == nil || *cfg.Identity {
		opts = append(opts, mapping.WithIdentity(reg))
	}
	table := mapping.New(opts...)
	for _, e := range books.Mapping() {
		table.Add(e.Surface, e.Storage, e.Fields)
	}
	if cfg.File == "" {
		return table, nil
	}
	if _, err := os.Stat(cfg.File); os.IsNotExist(err) {
		return table, nil
	}
	if err := table.LoadFile(cfg.File); err != nil {
		return nil, err
	}
	return table, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("collection", chi.URLParam(r, "collection")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
