// Package customer holds the customer profile model loaded alongside the catalog.
package customer

import "fmt"

// Customer is a flattened customer profile.
type Customer struct {
	CustomerID         string   `json:"customer_id"`
	Name               string   `json:"name,omitempty"`
	Email              string   `json:"email,omitempty"`
	Age                int      `json:"age,omitempty"`
	City               string   `json:"city,omitempty"`
	TotalOrders        int      `json:"total_orders"`
	TotalSpent         float64  `json:"total_spent"`
	FavoriteCategories []string `json:"favorite_categories,omitempty"`
	HealthScore        float64  `json:"health_score,omitempty"`
}

// Record is one raw profile entry from the source JSON file. The source
// nests personal, purchase and health data under sub-objects; FromRecord
// flattens them onto Customer.
type Record struct {
	CustomerID   string `json:"customer_id"`
	PersonalInfo struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Age     int    `json:"age"`
		Address struct {
			City string `json:"city"`
		} `json:"address"`
	} `json:"personal_info"`
	PurchasePatterns struct {
		TotalOrders        int      `json:"total_orders"`
		TotalSpent         float64  `json:"total_spent"`
		FavoriteCategories []string `json:"favorite_categories"`
	} `json:"purchase_patterns"`
	HealthInsights struct {
		HealthScore float64 `json:"health_score"`
	} `json:"health_insights"`
}

// FromRecord validates a raw record and flattens the nested sub-objects.
// Unlike products, customers have no derivable identity, so a missing
// customer_id rejects the record.
func FromRecord(rec Record) (Customer, error) {
	if rec.CustomerID == "" {
		return Customer{}, fmt.Errorf("customer_id is required")
	}
	return Customer{
		CustomerID:         rec.CustomerID,
		Name:               rec.PersonalInfo.Name,
		Email:              rec.PersonalInfo.Email,
		Age:                rec.PersonalInfo.Age,
		City:               rec.PersonalInfo.Address.City,
		TotalOrders:        rec.PurchasePatterns.TotalOrders,
		TotalSpent:         rec.PurchasePatterns.TotalSpent,
		FavoriteCategories: rec.PurchasePatterns.FavoriteCategories,
		HealthScore:        rec.HealthInsights.HealthScore,
	}, nil
}
