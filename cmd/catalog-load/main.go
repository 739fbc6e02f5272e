// Command catalog-load runs the load pipeline from the shell, without
// going through the HTTP admin endpoints.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/config"
	"github.com/vitacart/prodex/internal/db"
	dbRedis "github.com/vitacart/prodex/internal/db/redis"
	"github.com/vitacart/prodex/internal/domain"
	logpkg "github.com/vitacart/prodex/internal/logger"
	"github.com/vitacart/prodex/internal/metrics"
	catalogrepo "github.com/vitacart/prodex/internal/repository/catalog"
	"github.com/vitacart/prodex/internal/repository/embcache"
	indexrepo "github.com/vitacart/prodex/internal/repository/index"
	openaiEmb "github.com/vitacart/prodex/internal/transport/openai"
	embeddinguc "github.com/vitacart/prodex/internal/usecase/embedding"
	pipelineuc "github.com/vitacart/prodex/internal/usecase/pipeline"
)

func main() {
	_ = godotenv.Load()

	var productsFile, customersFile string
	flag.StringVar(&productsFile, "products", "", "Product catalog JSON file (default from config)")
	flag.StringVar(&customersFile, "customers", "", "Customer profiles JSON file, skipped when empty")
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

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
	embedder := embeddinguc.NewSoftEmbedder(
		embeddinguc.NewInstrumentedEmbedder(
			wrapCache(base, cfg, store, logger), cfg.Embedding.Model, nil, logger,
		),
		cfg.Embedding.Dimensions,
		cfg.Embedding.Model,
		cfg.Embedding.MaxTextLength,
		logger,
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

	svc := pipelineuc.New(
		catalogRepo, indexRepo, embedder,
		time.Duration(cfg.Embedding.BatchDelayMS)*time.Millisecond,
		logger,
	).WithBatchSize(cfg.Catalog.BatchSize)

	if productsFile == "" {
		productsFile = cfg.Catalog.ProductsFile
	}

	report, err := svc.LoadProducts(ctx, productsFile)
	if err != nil {
		logger.Fatal("Catalog load failed", zap.Error(err))
	}
	logger.Info("Catalog load report",
		zap.Bool("success", report.Success),
		zap.Int("total", report.Total),
		zap.Int("skipped", report.Skipped),
		zap.Int("stored", report.Store.Succeeded),
		zap.Strings("errors", report.Errors),
	)

	if customersFile != "" {
		custReport, err := svc.LoadCustomers(ctx, customersFile)
		if err != nil {
			logger.Fatal("Customer load failed", zap.Error(err))
		}
		logger.Info("Customer load report",
			zap.Bool("success", custReport.Success),
			zap.Int("total", custReport.Total),
			zap.Int("skipped", custReport.Skipped),
			zap.Int("stored", custReport.Store.Succeeded),
		)
	}

	if !report.Success {
		os.Exit(1)
	}
}

// wrapCache inserts the embedding cache when enabled.
func wrapCache(inner domain.Embedder, cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	if !cfg.Embedding.Cache {
		return inner
	}
	return embcache.New(inner, store, metrics.EmbeddingCacheTotal, logger)
}
