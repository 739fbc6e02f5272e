package index

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/vitacart/prodex/internal/domain/product"
)

const listSeparator = ", "

// buildSearchFields flattens a product into the hash the FT index reads.
// List fields are joined to plain text so TEXT indexing tokenizes them.
func buildSearchFields(p *product.Product, embedding []float32) map[string]string {
	m := map[string]string{
		"product_id":    p.ID,
		"name":          p.Name,
		"price":         strconv.FormatFloat(p.Price, 'f', -1, 64),
		"rating":        strconv.FormatFloat(p.Rating, 'f', -1, 64),
		"reviews_count": strconv.Itoa(p.ReviewsCount),
		"in_stock":      strconv.FormatBool(p.InStock),
		"embedding":     vectorToBytes(embedding),
	}

	putIfSet := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	putIfSet("category", p.Category)
	putIfSet("brand", p.Brand)
	putIfSet("description", p.Description)
	putIfSet("detailed_description", p.DetailedDescription)
	putIfSet("directions", p.Directions)
	putIfSet("stock_status", p.StockStatus)
	putIfSet("image_url", p.ImageURL)
	putIfSet("ingredients", strings.Join(p.Ingredients, listSeparator))
	putIfSet("benefits", strings.Join(p.Benefits, listSeparator))
	putIfSet("certifications", strings.Join(p.Certifications, listSeparator))
	putIfSet("warnings", strings.Join(p.Warnings, listSeparator))

	return m
}

// parseSearchFields reconstructs a product from returned hash fields.
// The embedding is never parsed back.
func parseSearchFields(m map[string]string) product.Product {
	p := product.Product{
		ID:                  m["product_id"],
		Name:                m["name"],
		Category:            m["category"],
		Brand:               m["brand"],
		Description:         m["description"],
		DetailedDescription: m["detailed_description"],
		Directions:          m["directions"],
		StockStatus:         m["stock_status"],
		ImageURL:            m["image_url"],
		Ingredients:         splitList(m["ingredients"]),
		Benefits:            splitList(m["benefits"]),
		Certifications:      splitList(m["certifications"]),
		Warnings:            splitList(m["warnings"]),
	}

	if f, err := strconv.ParseFloat(m["price"], 64); err == nil {
		p.Price = f
	}
	if f, err := strconv.ParseFloat(m["rating"], 64); err == nil {
		p.Rating = f
	}
	if n, err := strconv.Atoi(m["reviews_count"]); err == nil {
		p.ReviewsCount = n
	}
	if b, err := strconv.ParseBool(m["in_stock"]); err == nil {
		p.InStock = b
	}

	return p
}

// returnFields lists everything a search response needs, embedding excluded.
var returnFields = []string{
	"product_id", "name", "category", "brand",
	"description", "detailed_description",
	"ingredients", "benefits", "certifications", "warnings", "directions",
	"price", "rating", "reviews_count",
	"in_stock", "stock_status", "image_url",
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
