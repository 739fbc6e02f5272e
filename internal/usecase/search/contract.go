package search

import (
	"context"

	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/search/query"
	"github.com/vitacart/prodex/internal/domain/search/result"
)

// Index is the search-index contract the router needs.
type Index interface {
	Lexical(ctx context.Context, q *query.Query) ([]result.Hit, int, error)
	Vector(ctx context.Context, vector []float32, q *query.Query) ([]result.Hit, error)
}

// Embedder vectorizes query text for vector mode.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
