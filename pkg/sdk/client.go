package prodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/db"
	dbRedis "github.com/vitacart/prodex/internal/db/redis"
	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/product"
	"github.com/vitacart/prodex/internal/domain/search/query"
	catalogrepo "github.com/vitacart/prodex/internal/repository/catalog"
	indexrepo "github.com/vitacart/prodex/internal/repository/index"
	embeddinguc "github.com/vitacart/prodex/internal/usecase/embedding"
	healthuc "github.com/vitacart/prodex/internal/usecase/health"
	pipelineuc "github.com/vitacart/prodex/internal/usecase/pipeline"
	searchuc "github.com/vitacart/prodex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Defaults matching the service configuration.
const (
	defaultVectorDimensions = 1024
	defaultMaxTextLen       = 8000
	defaultIndexName        = "products-idx"
	defaultMinShouldMatch   = 0.8
	defaultHNSWM            = 32
	defaultHNSWEFConstruct  = 256
	defaultEFRuntime        = 100
)

var errNoEmbedder = errors.New(
	"prodex: embedder not configured (use WithEmbedder)",
)

// Internal interfaces for test substitution.
type searchUseCase interface {
	Route(ctx context.Context, q *query.Query) (*searchuc.Envelope, error)
}

type catalogReader interface {
	GetProduct(ctx context.Context, id string) (product.Product, error)
	ListProducts(ctx context.Context, limit int) ([]product.Product, error)
}

type loadUseCase interface {
	LoadProducts(ctx context.Context, path string) (*pipelineuc.Report, error)
	LoadCustomers(ctx context.Context, path string) (*pipelineuc.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the prodex SDK entry point.
type Client struct {
	store       db.Store
	searchSvc   searchUseCase
	catalog     catalogReader
	loadSvc     loadUseCase
	healthSvc   healthUseCase
	hasEmbedder bool
	obs         *observer
}

// New creates a prodex Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultVectorDimensions,
		maxTextLen:       defaultMaxTextLen,
		indexName:        defaultIndexName,
		minShouldMatch:   defaultMinShouldMatch,
		hnswM:            defaultHNSWM,
		hnswEFConstruct:  defaultHNSWEFConstruct,
		efRuntime:        defaultEFRuntime,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("prodex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("prodex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("prodex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	catalogRepo := catalogrepo.New(store)
	indexRepo := indexrepo.New(store, indexrepo.Config{
		IndexName:       cfg.indexName,
		Dim:             cfg.vectorDimensions,
		MinShouldMatch:  cfg.minShouldMatch,
		Fuzzy:           true,
		PhraseBoost:     true,
		EFRuntime:       cfg.efRuntime,
		HNSWM:           cfg.hnswM,
		HNSWEFConstruct: cfg.hnswEFConstruct,
	})

	// Embed calls never reach the noop stand-in: vector search and
	// product loads are guarded by hasEmbedder.
	var domEmb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}
	soft := embeddinguc.NewSoftEmbedder(
		domEmb, cfg.vectorDimensions, "custom", cfg.maxTextLen, zap.NewNop(),
	)

	return &Client{
		store:       store,
		searchSvc:   searchuc.New(indexRepo, soft),
		catalog:     catalogRepo,
		loadSvc:     pipelineuc.New(catalogRepo, indexRepo, soft, cfg.embedDelay, zap.NewNop()),
		healthSvc:   healthuc.New(store, nil, indexRepo),
		hasEmbedder: cfg.embedder != nil,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errNoEmbedder
}
