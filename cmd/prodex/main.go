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

	"github.com/vitacart/prodex/internal/config"
	"github.com/vitacart/prodex/internal/db"
	dbRedis "github.com/vitacart/prodex/internal/db/redis"
	"github.com/vitacart/prodex/internal/domain"
	logpkg "github.com/vitacart/prodex/internal/logger"
	"github.com/vitacart/prodex/internal/metrics"
	budgetrepo "github.com/vitacart/prodex/internal/repository/budget"
	catalogrepo "github.com/vitacart/prodex/internal/repository/catalog"
	"github.com/vitacart/prodex/internal/repository/embcache"
	indexrepo "github.com/vitacart/prodex/internal/repository/index"
	chiTransport "github.com/vitacart/prodex/internal/transport/chi"
	openaiEmb "github.com/vitacart/prodex/internal/transport/openai"
	embeddinguc "github.com/vitacart/prodex/internal/usecase/embedding"
	healthuc "github.com/vitacart/prodex/internal/usecase/health"
	pipelineuc "github.com/vitacart/prodex/internal/usecase/pipeline"
	searchuc "github.com/vitacart/prodex/internal/usecase/search"
	"github.com/vitacart/prodex/internal/version"
)

func main() {
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

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.RequestTimeoutSec) * time.Second,
		Logger:     logger,
	})
	soft := buildEmbedder(ctx, cfg, base, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	catalogRepo := catalogrepo.New(store)
	indexRepo := indexrepo.New(store, indexrepo.Config{
		IndexName:       cfg.Search.IndexName,
		Dim:             cfg.Embedding.Dimensions,
		MinShouldMatch:  cfg.Search.MinShouldMatch,
		Fuzzy:           cfg.Search.Fuzzy,
		PhraseBoost:     cfg.Search.PhraseBoost,
		EFRuntime:       cfg.Search.EFRuntime,
		HNSWM:           cfg.Search.HNSWM,
		HNSWEFConstruct: cfg.Search.HNSWEFConstruct,
	})

	searchSvc := searchuc.New(indexRepo, soft)
	pipelineSvc := pipelineuc.New(
		catalogRepo, indexRepo, soft,
		time.Duration(cfg.Embedding.BatchDelayMS)*time.Millisecond,
		logger,
	).WithBatchSize(cfg.Catalog.BatchSize)
	healthSvc := healthuc.New(store, base, indexRepo)

	server := chiTransport.NewServer(
		searchSvc, catalogRepo, pipelineSvc, healthSvc,
		chiTransport.LoadFiles{
			Products:  cfg.Catalog.ProductsFile,
			Customers: cfg.Catalog.CustomersFile,
		},
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Soft.
func buildEmbedder(
	ctx context.Context,
	cfg config.Config,
	base domain.Embedder,
	store db.Store,
	logger *zap.Logger,
) *embeddinguc.SoftEmbedder {
	embedder := base
	if cfg.Embedding.Cache {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Single BudgetTracker shared across the embedder chain.
	var budgetChecker embeddinguc.BudgetChecker
	if cfg.Embedding.BudgetDailyTokens > 0 || cfg.Embedding.BudgetMonthlyTokens > 0 {
		action := embeddinguc.BudgetActionWarn
		if cfg.Embedding.BudgetAction == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget := embeddinguc.NewBudgetTracker(
			"openai", cfg.Embedding.BudgetDailyTokens, cfg.Embedding.BudgetMonthlyTokens, action, logger,
		)
		// Connect persistence store -- loads current counters from DB.
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		budgetChecker = budget
	}

	instrumented := embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Model, budgetChecker, logger,
	)

	return embeddinguc.NewSoftEmbedder(
		instrumented,
		cfg.Embedding.Dimensions,
		cfg.Embedding.Model,
		cfg.Embedding.MaxTextLength,
		logger,
	)
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

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
