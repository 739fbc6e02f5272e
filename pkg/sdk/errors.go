package prodex

import "github.com/vitacart/prodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrProductNotFound        = domain.ErrProductNotFound
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrCatalogEmpty           = domain.ErrCatalogEmpty
	ErrIndexUnavailable       = domain.ErrIndexUnavailable
)
