// Package search routes a validated query to the lexical or vector
// strategy and shapes the response envelope.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/search/mode"
	"github.com/vitacart/prodex/internal/domain/search/query"
	"github.com/vitacart/prodex/internal/domain/search/result"
	"github.com/vitacart/prodex/internal/metrics"
)

// Envelope is the search response: the echoed query, the strategy that
// served it, the pre-pagination match count, and wall-clock latency.
// In vector mode TotalHits equals len(Results) since KNN has no notion
// of a total beyond the candidate pool.
type Envelope struct {
	Query     string
	Mode      mode.Mode
	TotalHits int
	Results   []result.Hit
	TookMS    int64
}

// Service dispatches searches by mode.
type Service struct {
	index Index
	embed Embedder
}

// New creates a search service.
func New(index Index, embed Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Route executes the query with the strategy its mode selects.
func (s *Service) Route(ctx context.Context, q *query.Query) (*Envelope, error) {
	start := time.Now()

	var (
		hits  []result.Hit
		total int
		err   error
	)

	switch q.Mode() {
	case mode.Lexical:
		hits, total, err = s.index.Lexical(ctx, q)
	case mode.Vector:
		hits, err = s.vector(ctx, q)
		total = len(hits)
	default:
		return nil, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidQuery, q.Mode())
	}

	took := time.Since(start)
	m := string(q.Mode())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(m, "error").Inc()
		return nil, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(m, "success").Inc()
	metrics.SearchDuration.WithLabelValues(m).Observe(took.Seconds())
	metrics.SearchResults.WithLabelValues(m).Observe(float64(len(hits)))

	return &Envelope{
		Query:     q.Text(),
		Mode:      q.Mode(),
		TotalHits: total,
		Results:   hits,
		TookMS:    took.Milliseconds(),
	}, nil
}

// vector embeds the query text and runs filtered KNN. A zero vector from
// the fail-soft embedder still searches; the results are degraded, not an
// error. Normalization and the similarity cut happen here, on the full
// over-fetched candidate set, before the page is taken.
func (s *Service) vector(ctx context.Context, q *query.Query) ([]result.Hit, error) {
	embResult, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.index.Vector(ctx, embResult.Embedding, q)
	if err != nil {
		return nil, err
	}

	hits = result.Normalize(hits)
	hits = result.Threshold(hits, q.MinSimilarity())
	return result.Top(hits, q.Size()), nil
}
