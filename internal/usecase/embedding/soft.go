package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/metrics"
)

// SoftEmbedder produces a vector for every input. Empty text and provider
// failures degrade to a zero vector instead of failing the caller, so one
// bad record never aborts a catalog load. Context cancellation still
// propagates; a shutdown must not be swallowed.
type SoftEmbedder struct {
	inner      domain.Embedder
	dim        int
	model      string
	maxTextLen int
	logger     *zap.Logger
}

// NewSoftEmbedder creates a fail-soft embedder.
func NewSoftEmbedder(
	inner domain.Embedder, dim int, model string, maxTextLen int, logger *zap.Logger,
) *SoftEmbedder {
	return &SoftEmbedder{
		inner:      inner,
		dim:        dim,
		model:      model,
		maxTextLen: maxTextLen,
		logger:     logger,
	}
}

// Embed vectorizes one text. The result always has a vector of the
// configured dimension; TotalTokens is zero when the zero-vector fallback
// was taken.
func (s *SoftEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.EmbeddingFallbacksTotal.WithLabelValues(s.model, "empty_text").Inc()
		return domain.EmbeddingResult{Embedding: domain.ZeroVector(s.dim)}, nil
	}

	if s.maxTextLen > 0 {
		if runes := []rune(text); len(runes) > s.maxTextLen {
			text = string(runes[:s.maxTextLen])
		}
	}

	result, err := s.inner.Embed(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", ctx.Err())
		}
		s.logger.Warn("Embedding failed, falling back to zero vector",
			zap.String("model", s.model),
			zap.Error(err),
		)
		metrics.EmbeddingFallbacksTotal.WithLabelValues(s.model, "provider_error").Inc()
		return domain.EmbeddingResult{Embedding: domain.ZeroVector(s.dim)}, nil
	}

	result.Embedding = domain.NormalizeDim(result.Embedding, s.dim)
	return result, nil
}

// EmbedAll vectorizes texts sequentially with a fixed delay between
// provider calls. The returned vectors align with the input order. The
// only error is context cancellation; individual failures degrade per
// the fail-soft policy.
func (s *SoftEmbedder) EmbedAll(
	ctx context.Context, texts []string, delay time.Duration,
) ([][]float32, int, error) {
	if len(texts) == 0 {
		return nil, 0, nil
	}

	vectors := make([][]float32, len(texts))
	totalTokens := 0

	for i, text := range texts {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, totalTokens, fmt.Errorf("embed batch: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := s.Embed(ctx, text)
		if err != nil {
			return nil, totalTokens, err
		}
		vectors[i] = result.Embedding
		totalTokens += result.TotalTokens
	}

	return vectors, totalTokens, nil
}
