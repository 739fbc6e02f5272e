package prodex

import (
	"context"
	"fmt"
	"time"

	"github.com/vitacart/prodex/internal/domain/search/filter"
	"github.com/vitacart/prodex/internal/domain/search/mode"
	"github.com/vitacart/prodex/internal/domain/search/query"
)

// Search executes a lexical or vector search over the product catalog.
// Validation failures wrap ErrInvalidQuery.
func (c *Client) Search(ctx context.Context, req SearchRequest) (res *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if req.Mode == ModeVector && !c.hasEmbedder {
		return nil, errNoEmbedder
	}

	q, err := c.buildQuery(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	env, err := c.searchSvc.Route(ctx, &q)
	if err != nil {
		return nil, err
	}
	return responseFromEnvelope(env), nil
}

func (c *Client) buildQuery(req SearchRequest) (query.Query, error) {
	var filters filter.Filters
	if req.Filters != nil {
		f, err := filter.New(
			req.Filters.Category, req.Filters.Brand,
			req.Filters.PriceMin, req.Filters.PriceMax,
			req.Filters.RatingMin, req.Filters.InStock,
		)
		if err != nil {
			return query.Query{}, err
		}
		filters = f
	}

	return query.New(
		req.Query, mode.Mode(req.Mode), filters,
		req.Size, req.Offset, query.Sort(req.Sort), req.MinSimilarity,
	)
}

// GetProduct fetches one product by id.
// Returns ErrProductNotFound when the id is unknown.
func (c *Client) GetProduct(ctx context.Context, id string) (p Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_product", start, err) }()

	dom, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return productFromDomain(dom), nil
}

// ListProducts returns up to limit products in unspecified order.
func (c *Client) ListProducts(ctx context.Context, limit int) (ps []Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_products", start, err) }()

	dom, err := c.catalog.ListProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Product, len(dom))
	for i := range dom {
		out[i] = productFromDomain(dom[i])
	}
	return out, nil
}

// LoadCatalog loads a product catalog JSON file into the document store
// and the search index. Requires an embedder.
func (c *Client) LoadCatalog(ctx context.Context, path string) (rep *LoadReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("load_catalog", start, err) }()

	if !c.hasEmbedder {
		return nil, errNoEmbedder
	}

	report, err := c.loadSvc.LoadProducts(ctx, path)
	if err != nil {
		return nil, err
	}
	return reportFromPipeline(report), nil
}

// LoadCustomers loads a customer profiles JSON file into the document
// store. Customers are stored but not indexed, so no embedder is needed.
func (c *Client) LoadCustomers(ctx context.Context, path string) (rep *LoadReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("load_customers", start, err) }()

	report, err := c.loadSvc.LoadCustomers(ctx, path)
	if err != nil {
		return nil, err
	}
	return reportFromPipeline(report), nil
}
