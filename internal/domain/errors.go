package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals the token budget is spent.
	ErrEmbeddingQuotaExceeded = errors.New("embedding token quota exceeded")
	// ErrCatalogEmpty signals a catalog file with no loadable records.
	ErrCatalogEmpty = errors.New("catalog is empty")
	// ErrIndexUnavailable signals that the search index cannot be reached.
	ErrIndexUnavailable = errors.New("search index unavailable")
)
