package chi

import (
	"github.com/vitacart/prodex/internal/domain/product"
	"github.com/vitacart/prodex/internal/domain/search/filter"
	"github.com/vitacart/prodex/internal/domain/search/mode"
	"github.com/vitacart/prodex/internal/domain/search/query"
	"github.com/vitacart/prodex/internal/domain/search/result"
	searchuc "github.com/vitacart/prodex/internal/usecase/search"
)

// searchRequest is the POST /search body.
type searchRequest struct {
	Query         string         `json:"query"`
	Mode          string         `json:"mode,omitempty"`
	Filters       *filterRequest `json:"filters,omitempty"`
	Size          int            `json:"size,omitempty"`
	Offset        int            `json:"offset,omitempty"`
	Sort          string         `json:"sort,omitempty"`
	MinSimilarity float64        `json:"min_similarity,omitempty"`
}

type filterRequest struct {
	Category  string   `json:"category,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	PriceMin  *float64 `json:"price_min,omitempty"`
	PriceMax  *float64 `json:"price_max,omitempty"`
	RatingMin *float64 `json:"rating_min,omitempty"`
	InStock   *bool    `json:"in_stock,omitempty"`
}

func (r *searchRequest) toQuery() (query.Query, error) {
	var filters filter.Filters
	if r.Filters != nil {
		f, err := filter.New(
			r.Filters.Category, r.Filters.Brand,
			r.Filters.PriceMin, r.Filters.PriceMax,
			r.Filters.RatingMin, r.Filters.InStock,
		)
		if err != nil {
			return query.Query{}, err
		}
		filters = f
	}

	return query.New(
		r.Query, mode.Mode(r.Mode), filters,
		r.Size, r.Offset, query.Sort(r.Sort), r.MinSimilarity,
	)
}

// searchResultItem is one hit in the response: the product projection
// plus scoring. Similarity and raw score appear in vector mode only.
type searchResultItem struct {
	product.Product
	Score      float64  `json:"_score"`
	Similarity *float64 `json:"similarity,omitempty"`
	RawScore   *float64 `json:"raw_score,omitempty"`
}

type searchResponse struct {
	Query     string             `json:"query"`
	Mode      string             `json:"mode"`
	TotalHits int                `json:"total_hits"`
	Results   []searchResultItem `json:"results"`
	TookMS    int64              `json:"took_ms"`
}

func searchResponseFromEnvelope(env *searchuc.Envelope) searchResponse {
	items := make([]searchResultItem, len(env.Results))
	for i := range env.Results {
		items[i] = resultItem(&env.Results[i])
	}
	return searchResponse{
		Query:     env.Query,
		Mode:      string(env.Mode),
		TotalHits: env.TotalHits,
		Results:   items,
		TookMS:    env.TookMS,
	}
}

func resultItem(h *result.Hit) searchResultItem {
	item := searchResultItem{
		Product: h.Product().WithoutEmbedding(),
		Score:   h.Score(),
	}
	if h.Normalized() {
		sim := h.Similarity()
		raw := h.Score()
		item.Similarity = &sim
		item.RawScore = &raw
	}
	return item
}

// productListResponse is the GET /products body.
type productListResponse struct {
	Products []product.Product `json:"products"`
	Count    int               `json:"count"`
}

// loadRequest optionally overrides the configured catalog file.
type loadRequest struct {
	File string `json:"file,omitempty"`
}
