package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vitacart/prodex/internal/domain/customer"
	"github.com/vitacart/prodex/internal/domain/product"
)

// catalogFile mirrors the product catalog export layout.
type catalogFile struct {
	Products []product.Record `json:"products"`
}

// customerFile mirrors the customer profiles export layout. The extra
// nesting level comes from the export tool.
type customerFile struct {
	CustomerProfiles struct {
		Customers []customer.Record `json:"customers"`
	} `json:"customer_profiles"`
}

func loadProductRecords(path string) ([]product.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return file.Products, nil
}

func loadCustomerRecords(path string) ([]customer.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read customer file: %w", err)
	}

	var file customerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse customer file: %w", err)
	}
	return file.CustomerProfiles.Customers, nil
}
