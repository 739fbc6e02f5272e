package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitacart/prodex/internal/db"
	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/search/query"
	"github.com/vitacart/prodex/internal/domain/search/result"
)

// knnOverFetchFloor is the minimum candidate pool for a KNN search, so
// the similarity threshold has enough candidates to cut from.
const knnOverFetchFloor = 50

// Lexical runs a full-text search and returns scored hits plus the total
// match count before pagination.
func (r *Repo) Lexical(ctx context.Context, q *query.Query) ([]result.Hit, int, error) {
	queryStr := buildLexicalQuery(q.Text(), q.Filters(), r.cfg)
	sortField, sortDesc := sortFieldFor(q.Sort())

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.cfg.IndexName,
		Query:        queryStr,
		Offset:       q.Offset(),
		Limit:        q.Size(),
		SortBy:       sortField,
		SortDesc:     sortDesc,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("lexical search: %w", err)
	}

	return parseHits(sr), sr.Total, nil
}

// Vector runs a KNN similarity search. The query vector must match the
// index dimension exactly; padding a caller-supplied vector would silently
// change its meaning. The pool is over-fetched past the page size so the
// similarity threshold applied upstream still leaves a full page.
func (r *Repo) Vector(ctx context.Context, vector []float32, q *query.Query) ([]result.Hit, error) {
	if len(vector) != r.cfg.Dim {
		return nil, fmt.Errorf("%w: got %d, index dimension %d",
			domain.ErrVectorDimMismatch, len(vector), r.cfg.Dim)
	}

	k := 3 * q.Size()
	if k < knnOverFetchFloor {
		k = knnOverFetchFloor
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		Filter:       buildFilterExpr(q.Filters()),
		Vector:       vector,
		K:            k,
		EFRuntime:    r.cfg.EFRuntime,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return parseHits(sr), nil
}

func parseHits(sr *db.SearchResult) []result.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		p := parseSearchFields(entry.Fields)
		if p.ID == "" {
			p.ID = strings.TrimPrefix(entry.Key, searchKeyPrefix())
		}
		hits = append(hits, result.New(p, entry.Score))
	}
	return hits
}
