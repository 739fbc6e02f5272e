package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ZeroVector returns an all-zero embedding of the given dimension.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// NormalizeDim pads with zeros or truncates so that len(vec) == dim.
// A vector that already fits is returned unchanged.
func NormalizeDim(vec []float32, dim int) []float32 {
	switch {
	case len(vec) == dim:
		return vec
	case len(vec) > dim:
		return vec[:dim]
	default:
		out := make([]float32, dim)
		copy(out, vec)
		return out
	}
}

// IsZeroVector reports whether every component of vec is zero.
func IsZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
