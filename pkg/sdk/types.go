package prodex

import (
	"github.com/vitacart/prodex/internal/domain/batch"
	"github.com/vitacart/prodex/internal/domain/product"
	"github.com/vitacart/prodex/internal/domain/search/result"
	pipelineuc "github.com/vitacart/prodex/internal/usecase/pipeline"
	searchuc "github.com/vitacart/prodex/internal/usecase/search"
)

// SearchMode selects the ranking strategy.
type SearchMode string

// Search mode constants.
const (
	// ModeLexical ranks by keyword relevance with field boosts.
	ModeLexical SearchMode = "lexical"
	// ModeVector ranks by embedding cosine similarity.
	ModeVector SearchMode = "vector"
)

// SearchRequest describes one search query. Query is required; all other
// fields are optional. Offset and Sort apply to lexical mode only,
// MinSimilarity to vector mode only.
type SearchRequest struct {
	Query         string
	Mode          SearchMode
	Filters       *Filters
	Size          int
	Offset        int
	Sort          string
	MinSimilarity float64
}

// Filters narrows search results by catalog attributes.
// Nil pointer fields are not applied.
type Filters struct {
	Category  string
	Brand     string
	PriceMin  *float64
	PriceMax  *float64
	RatingMin *float64
	InStock   *bool
}

// Product is a catalog product.
type Product struct {
	ID                  string
	Name                string
	Category            string
	Brand               string
	Description         string
	DetailedDescription string
	Ingredients         []string
	Benefits            []string
	Certifications      []string
	Warnings            []string
	Directions          string
	Price               float64
	Rating              float64
	ReviewsCount        int
	InStock             bool
	StockStatus         string
	ImageURL            string
}

// Hit is a single search hit. Score is the raw engine value; Similarity
// is the min-max normalized score, populated in vector mode only.
type Hit struct {
	Product    Product
	Score      float64
	Similarity float64
}

// SearchResponse carries the hits plus query echo and timing.
type SearchResponse struct {
	Query     string
	Mode      SearchMode
	TotalHits int
	Hits      []Hit
	TookMS    int64
}

// BatchReport summarizes one write phase of a load. Errors holds at most
// a few samples; Failed is the true failure count.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    int
	Errors    []string
}

// LoadReport is the outcome of one catalog load run. Index is nil for
// customer loads, which are stored but not indexed.
type LoadReport struct {
	Success bool
	Total   int
	Skipped int
	Store   BatchReport
	Index   *BatchReport
	Errors  []string
}

func productFromDomain(p product.Product) Product {
	return Product{
		ID:                  p.ID,
		Name:                p.Name,
		Category:            p.Category,
		Brand:               p.Brand,
		Description:         p.Description,
		DetailedDescription: p.DetailedDescription,
		Ingredients:         p.Ingredients,
		Benefits:            p.Benefits,
		Certifications:      p.Certifications,
		Warnings:            p.Warnings,
		Directions:          p.Directions,
		Price:               p.Price,
		Rating:              p.Rating,
		ReviewsCount:        p.ReviewsCount,
		InStock:             p.InStock,
		StockStatus:         p.StockStatus,
		ImageURL:            p.ImageURL,
	}
}

func hitFromDomain(h *result.Hit) Hit {
	out := Hit{
		Product: productFromDomain(h.Product()),
		Score:   h.Score(),
	}
	if h.Normalized() {
		out.Similarity = h.Similarity()
	}
	return out
}

func responseFromEnvelope(env *searchuc.Envelope) *SearchResponse {
	hits := make([]Hit, len(env.Results))
	for i := range env.Results {
		hits[i] = hitFromDomain(&env.Results[i])
	}
	return &SearchResponse{
		Query:     env.Query,
		Mode:      SearchMode(env.Mode),
		TotalHits: env.TotalHits,
		Hits:      hits,
		TookMS:    env.TookMS,
	}
}

func batchReportFromDomain(r batch.Report) BatchReport {
	return BatchReport{
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Errors:    r.Errors,
	}
}

func reportFromPipeline(r *pipelineuc.Report) *LoadReport {
	out := &LoadReport{
		Success: r.Success,
		Total:   r.Total,
		Skipped: r.Skipped,
		Store:   batchReportFromDomain(r.Store),
		Errors:  r.Errors,
	}
	if r.Index != nil {
		idx := batchReportFromDomain(*r.Index)
		out.Index = &idx
	}
	return out
}
