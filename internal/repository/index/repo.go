// Package index maintains the product search index and runs lexical and
// vector queries against it.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitacart/prodex/internal/db"
	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/product"
)

// store is the consumer interface for index maintenance and search (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) []error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Config carries index tuning knobs.
type Config struct {
	IndexName       string
	Dim             int
	MinShouldMatch  float64
	Fuzzy           bool
	PhraseBoost     bool
	EFRuntime       int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements the search index repository.
type Repo struct {
	store store
	cfg   Config
}

// New creates an index repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// EnsureFresh drops any existing index together with its documents and
// creates it anew. Dropping with DD removes the previous load's hashes,
// so products no longer in the catalog cannot survive into the fresh
// index. A missing index on drop is not an error.
func (r *Repo) EnsureFresh(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.cfg.IndexName, true); err != nil {
		if !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", r.cfg.IndexName, err)
		}
	}
	def, err := buildIndexDefinition(r.cfg)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// Exists reports whether the search index is present.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	return r.store.IndexExists(ctx, r.cfg.IndexName)
}

// Count returns the number of indexed products.
func (r *Repo) Count(ctx context.Context) (int, error) {
	return r.store.SearchCount(ctx, r.cfg.IndexName, "*")
}

// BulkIndex writes products into the index keyspace in one pipeline.
// The returned slice has one slot per product; a non-nil slot means that
// product failed to index. Embeddings are padded or truncated to the
// index dimension; a product without one gets a zero vector so it stays
// reachable through lexical search.
func (r *Repo) BulkIndex(ctx context.Context, products []product.Product) []error {
	if len(products) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(products))
	for i := range products {
		emb := products[i].Embedding
		if len(emb) == 0 {
			emb = domain.ZeroVector(r.cfg.Dim)
		} else {
			emb = domain.NormalizeDim(emb, r.cfg.Dim)
		}
		items[i] = db.HashSetItem{
			Key:    searchKey(products[i].ID),
			Fields: buildSearchFields(&products[i], emb),
		}
	}

	return r.store.HSetMulti(ctx, items)
}

func searchKey(id string) string {
	return fmt.Sprintf("%ssearch:product:%s", domain.KeyPrefix, id)
}

func searchKeyPrefix() string {
	return domain.KeyPrefix + "search:product:"
}
