// Package product holds the catalog product model and the raw-record transform.
package product

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// DefaultRating is assumed for records without a rating.
const DefaultRating = 4.0

// inStockVocabulary maps stock_status values to availability.
var inStockVocabulary = map[string]bool{
	"in stock":  true,
	"available": true,
	"yes":       true,
	"true":      true,
}

// Product is a normalized catalog product.
// Embedding is populated only on the path into the search index and
// is never serialized in API responses or the document store.
type Product struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Category            string   `json:"category,omitempty"`
	Brand               string   `json:"brand,omitempty"`
	Description         string   `json:"description,omitempty"`
	DetailedDescription string   `json:"detailed_description,omitempty"`
	Ingredients         []string `json:"ingredients,omitempty"`
	Benefits            []string `json:"benefits,omitempty"`
	Certifications      []string `json:"certifications,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`
	Directions          string   `json:"directions,omitempty"`
	Price               float64  `json:"price"`
	Rating              float64  `json:"rating"`
	ReviewsCount        int      `json:"reviews_count"`
	InStock             bool     `json:"in_stock"`
	StockStatus         string   `json:"stock_status,omitempty"`
	ImageURL            string   `json:"image_url,omitempty"`

	Embedding []float32 `json:"-"`
}

// Record is one raw catalog entry as it appears in the source JSON file.
// Loosely typed fields tolerate the inconsistencies of real catalog exports.
type Record struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Brand               string          `json:"brand"`
	Description         string          `json:"description"`
	DetailedDescription string          `json:"detailed_description"`
	Ingredients         []string        `json:"ingredients"`
	Benefits            []string        `json:"benefits"`
	Certifications      []string        `json:"certifications"`
	Warnings            []string        `json:"warnings"`
	Directions          string          `json:"directions"`
	Price               json.RawMessage `json:"price"`
	Rating              *float64        `json:"rating"`
	ReviewsCount        *int            `json:"reviews_count"`
	StockStatus         string          `json:"stock_status"`
	ImageURL            string          `json:"image_url"`
}

// FromRecord normalizes a raw record into a Product.
// Identity falls back to a hash of the name; a record with neither id nor name
// cannot be addressed and is rejected.
func FromRecord(rec Record) (Product, error) {
	id := rec.ID
	if id == "" {
		id = rec.ProductID
	}
	if id == "" {
		if strings.TrimSpace(rec.Name) == "" {
			return Product{}, fmt.Errorf("record has neither id nor name")
		}
		id = fallbackID(rec.Name)
	}

	rating := DefaultRating
	if rec.Rating != nil {
		rating = *rec.Rating
	}

	reviews := 0
	if rec.ReviewsCount != nil && *rec.ReviewsCount > 0 {
		reviews = *rec.ReviewsCount
	}

	return Product{
		ID:                  id,
		Name:                rec.Name,
		Category:            rec.Category,
		Brand:               rec.Brand,
		Description:         rec.Description,
		DetailedDescription: rec.DetailedDescription,
		Ingredients:         rec.Ingredients,
		Benefits:            rec.Benefits,
		Certifications:      rec.Certifications,
		Warnings:            rec.Warnings,
		Directions:          rec.Directions,
		Price:               coercePrice(rec.Price),
		Rating:              rating,
		ReviewsCount:        reviews,
		InStock:             inStock(rec.StockStatus),
		StockStatus:         rec.StockStatus,
		ImageURL:            normalizeImageURL(rec.ImageURL),
	}, nil
}

// SearchText builds the deterministic text fed to the embedding model.
// Field order is fixed so that re-embedding an unchanged product yields
// the same input text.
func (p Product) SearchText() string {
	parts := make([]string, 0, 8)
	appendPart := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	appendPart(p.Name)
	appendPart(p.Description)
	appendPart(p.DetailedDescription)
	if p.Category != "" {
		appendPart("Category: " + p.Category)
	}
	if p.Brand != "" {
		appendPart("Brand: " + p.Brand)
	}
	if len(p.Ingredients) > 0 {
		appendPart("Ingredients: " + strings.Join(p.Ingredients, ", "))
	}
	if len(p.Benefits) > 0 {
		appendPart("Benefits: " + strings.Join(p.Benefits, ", "))
	}
	if len(p.Certifications) > 0 {
		appendPart("Certifications: " + strings.Join(p.Certifications, ", "))
	}

	return strings.Join(parts, " ")
}

// WithoutEmbedding returns a copy safe for API responses and the document store.
func (p Product) WithoutEmbedding() Product {
	p.Embedding = nil
	return p
}

func fallbackID(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("PROD_%d", h.Sum32())
}

// coercePrice accepts a JSON number or a numeric string (with optional
// currency prefix). Anything unparsable or negative becomes 0.0.
func coercePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0.0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num < 0 {
			return 0.0
		}
		return num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0.0
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	num, err := strconv.ParseFloat(s, 64)
	if err != nil || num < 0 {
		return 0.0
	}
	return num
}

// inStock derives availability from the stock_status vocabulary.
// An absent status means the product is sellable.
func inStock(status string) bool {
	if status == "" {
		return true
	}
	return inStockVocabulary[strings.ToLower(strings.TrimSpace(status))]
}

// normalizeImageURL rewrites any source URL shape to a local /images/ path.
func normalizeImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	name := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		name = u.Path
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return "/images/" + base
}
