package pipeline

import (
	"context"
	"time"

	"github.com/vitacart/prodex/internal/domain/customer"
	"github.com/vitacart/prodex/internal/domain/product"
)

// Store is the document-store contract: batch upserts with per-item errors.
type Store interface {
	PutProducts(ctx context.Context, products []product.Product) []error
	PutCustomers(ctx context.Context, customers []customer.Customer) []error
}

// Indexer rebuilds and fills the search index.
type Indexer interface {
	EnsureFresh(ctx context.Context) error
	BulkIndex(ctx context.Context, products []product.Product) []error
}

// Embedder vectorizes texts sequentially with an inter-call delay.
type Embedder interface {
	EmbedAll(ctx context.Context, texts []string, delay time.Duration) ([][]float32, int, error)
}
