package filter

import "fmt"

// Filters is the fixed set of hard pre-filters a search query may carry.
// Category and brand are exact matches; price bounds are inclusive;
// rating is a minimum. Filters narrow the candidate set before ranking
// and never affect scores.
type Filters struct {
	category  string
	brand     string
	priceMin  *float64
	priceMax  *float64
	ratingMin *float64
	inStock   *bool
}

// New validates and creates Filters.
func New(category, brand string, priceMin, priceMax, ratingMin *float64, inStock *bool) (Filters, error) {
	if priceMin != nil && *priceMin < 0 {
		return Filters{}, fmt.Errorf("price_min must be non-negative")
	}
	if priceMax != nil && *priceMax < 0 {
		return Filters{}, fmt.Errorf("price_max must be non-negative")
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return Filters{}, fmt.Errorf("price_min %v exceeds price_max %v", *priceMin, *priceMax)
	}
	if ratingMin != nil && (*ratingMin < 0 || *ratingMin > 5) {
		return Filters{}, fmt.Errorf("rating_min must be between 0 and 5")
	}
	return Filters{
		category:  category,
		brand:     brand,
		priceMin:  priceMin,
		priceMax:  priceMax,
		ratingMin: ratingMin,
		inStock:   inStock,
	}, nil
}

// Category returns the exact category match, empty when unset.
func (f Filters) Category() string { return f.category }

// Brand returns the exact brand match, empty when unset.
func (f Filters) Brand() string { return f.brand }

// PriceMin returns the inclusive lower price bound.
func (f Filters) PriceMin() *float64 { return f.priceMin }

// PriceMax returns the inclusive upper price bound.
func (f Filters) PriceMax() *float64 { return f.priceMax }

// RatingMin returns the minimum rating.
func (f Filters) RatingMin() *float64 { return f.ratingMin }

// InStock returns the availability filter, nil when unset.
func (f Filters) InStock() *bool { return f.inStock }

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.category == "" && f.brand == "" &&
		f.priceMin == nil && f.priceMax == nil &&
		f.ratingMin == nil && f.inStock == nil
}
