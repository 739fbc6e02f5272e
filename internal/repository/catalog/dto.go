package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/vitacart/prodex/internal/domain/customer"
	"github.com/vitacart/prodex/internal/domain/product"
)

// buildProductFields converts a Product into a flat map[string]string for HSET.
// List fields are stored as JSON arrays. The embedding never enters the
// document store. An empty createdAt stamps the document as new.
func buildProductFields(p *product.Product, createdAt string, now int64) map[string]string {
	if createdAt == "" {
		createdAt = strconv.FormatInt(now, 10)
	}
	m := map[string]string{
		"product_id":    p.ID,
		"name":          p.Name,
		"price":         strconv.FormatFloat(p.Price, 'f', -1, 64),
		"rating":        strconv.FormatFloat(p.Rating, 'f', -1, 64),
		"reviews_count": strconv.Itoa(p.ReviewsCount),
		"in_stock":      strconv.FormatBool(p.InStock),
		"created_at":    createdAt,
		"updated_at":    strconv.FormatInt(now, 10),
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
	putIfSet("ingredients", marshalList(p.Ingredients))
	putIfSet("benefits", marshalList(p.Benefits))
	putIfSet("certifications", marshalList(p.Certifications))
	putIfSet("warnings", marshalList(p.Warnings))

	return m
}

// parseProductFields converts a flat hash map back into a Product.
func parseProductFields(m map[string]string) product.Product {
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
		Ingredients:         unmarshalList(m["ingredients"]),
		Benefits:            unmarshalList(m["benefits"]),
		Certifications:      unmarshalList(m["certifications"]),
		Warnings:            unmarshalList(m["warnings"]),
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

// buildCustomerFields converts a Customer into a flat map[string]string for HSET.
func buildCustomerFields(c *customer.Customer, createdAt string, now int64) map[string]string {
	if createdAt == "" {
		createdAt = strconv.FormatInt(now, 10)
	}
	m := map[string]string{
		"customer_id":  c.CustomerID,
		"total_orders": strconv.Itoa(c.TotalOrders),
		"total_spent":  strconv.FormatFloat(c.TotalSpent, 'f', -1, 64),
		"created_at":   createdAt,
		"updated_at":   strconv.FormatInt(now, 10),
	}
	if c.Name != "" {
		m["name"] = c.Name
	}
	if c.Email != "" {
		m["email"] = c.Email
	}
	if c.Age > 0 {
		m["age"] = strconv.Itoa(c.Age)
	}
	if c.City != "" {
		m["city"] = c.City
	}
	if c.HealthScore > 0 {
		m["health_score"] = strconv.FormatFloat(c.HealthScore, 'f', -1, 64)
	}
	if list := marshalList(c.FavoriteCategories); list != "" {
		m["favorite_categories"] = list
	}
	return m
}

// parseCustomerFields converts a flat hash map back into a Customer.
func parseCustomerFields(m map[string]string) customer.Customer {
	c := customer.Customer{
		CustomerID:         m["customer_id"],
		Name:               m["name"],
		Email:              m["email"],
		City:               m["city"],
		FavoriteCategories: unmarshalList(m["favorite_categories"]),
	}
	if n, err := strconv.Atoi(m["age"]); err == nil {
		c.Age = n
	}
	if n, err := strconv.Atoi(m["total_orders"]); err == nil {
		c.TotalOrders = n
	}
	if f, err := strconv.ParseFloat(m["total_spent"], 64); err == nil {
		c.TotalSpent = f
	}
	if f, err := strconv.ParseFloat(m["health_score"], 64); err == nil {
		c.HealthScore = f
	}
	return c
}

func marshalList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}
