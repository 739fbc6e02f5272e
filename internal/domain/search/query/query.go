// Package query holds the validated search query value.
package query

import (
	"fmt"
	"strings"

	"github.com/vitacart/prodex/internal/domain/search/filter"
	"github.com/vitacart/prodex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultSize    = 10
	MaxSize        = 100
)

// Sort is the result ordering.
type Sort string

// Sort orders.
const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRating    Sort = "rating"
	SortName      Sort = "name"
)

// IsValid checks that the sort is one of the supported orders.
func (s Sort) IsValid() bool {
	switch s {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return true
	default:
		return false
	}
}

// Query is a validated search query.
type Query struct {
	text          string
	searchMode    mode.Mode
	filters       filter.Filters
	size          int
	offset        int
	sort          Sort
	minSimilarity float64
}

// New validates and normalizes search parameters.
// Defaults: mode=lexical, size=10, sort=relevance. Size is capped at 100.
// Offset and non-relevance sorts apply to lexical mode only; the similarity
// threshold applies to vector mode only.
func New(
	text string,
	m mode.Mode,
	filters filter.Filters,
	size, offset int,
	sort Sort,
	minSimilarity float64,
) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, fmt.Errorf("query text is required")
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Lexical
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("offset must be non-negative")
	}
	if sort == "" {
		sort = SortRelevance
	}
	if !sort.IsValid() {
		return Query{}, fmt.Errorf("invalid sort: %q", sort)
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		return Query{}, fmt.Errorf("min_similarity must be between 0 and 1")
	}
	if m == mode.Vector {
		if offset != 0 {
			return Query{}, fmt.Errorf("offset is not supported in vector mode")
		}
		if sort != SortRelevance {
			return Query{}, fmt.Errorf("sort %q is not supported in vector mode", sort)
		}
	}
	if m == mode.Lexical && minSimilarity > 0 {
		return Query{}, fmt.Errorf("min_similarity applies to vector mode only")
	}

	return Query{
		text:          text,
		searchMode:    m,
		filters:       filters,
		size:          size,
		offset:        offset,
		sort:          sort,
		minSimilarity: minSimilarity,
	}, nil
}

// Text returns the search query text.
func (q *Query) Text() string { return q.text }

// Mode returns the search strategy.
func (q *Query) Mode() mode.Mode { return q.searchMode }

// Filters returns the pre-filter set.
func (q *Query) Filters() filter.Filters { return q.filters }

// Size returns the maximum results to return.
func (q *Query) Size() int { return q.size }

// Offset returns the pagination offset.
func (q *Query) Offset() int { return q.offset }

// Sort returns the result ordering.
func (q *Query) Sort() Sort { return q.sort }

// MinSimilarity returns the normalized similarity threshold.
func (q *Query) MinSimilarity() float64 { return q.minSimilarity }
