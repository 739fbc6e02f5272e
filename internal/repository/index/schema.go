package index

import (
	"github.com/vitacart/prodex/internal/db"
)

// Text field boosts. Name dominates the ranker; secondary copy fields
// contribute less the further they sit from the product identity.
const (
	weightName        = 4.0
	weightTaxonomy    = 2.0
	weightIngredients = 1.5
	weightBody        = 1.0
	weightFinePrint   = 0.5
)

// buildIndexDefinition declares the product index schema.
// name, category and brand are indexed twice: as weighted TEXT for
// ranking and under a *_kw TAG alias for exact filtering and sorting.
func buildIndexDefinition(cfg Config) (*db.IndexDefinition, error) {
	return db.NewIndex(cfg.IndexName).
		OnHash().
		Prefix(searchKeyPrefix()).
		TextWeighted("name", weightName).
		TextWeighted("category", weightTaxonomy).
		TextWeighted("brand", weightTaxonomy).
		TextWeighted("ingredients", weightIngredients).
		TextWeighted("description", weightBody).
		TextWeighted("detailed_description", weightBody).
		TextWeighted("benefits", weightBody).
		TextWeighted("certifications", weightBody).
		TextWeighted("warnings", weightFinePrint).
		TextWeighted("directions", weightFinePrint).
		TagSortableAs("name", "name_kw").
		TagSortableAs("category", "category_kw").
		TagSortableAs("brand", "brand_kw").
		Tag("product_id").
		Tag("in_stock").
		Tag("stock_status").
		NumericSortable("price").
		NumericSortable("rating").
		NumericSortable("reviews_count").
		VectorHNSW("embedding", cfg.Dim, db.DistanceCosine, cfg.HNSWM, cfg.HNSWEFConstruct).
		Build()
}
