// Package catalog persists products and customers as Redis hashes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vitacart/prodex/internal/db"
	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/customer"
	"github.com/vitacart/prodex/internal/domain/product"
)

// store is the consumer interface for the catalog document store (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) []error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the product and customer document store.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// PutProducts writes products in one pipeline. The returned slice has one
// slot per product; a non-nil slot means that product failed to persist.
// Re-upserted products keep their original created_at.
func (r *Repo) PutProducts(ctx context.Context, products []product.Product) []error {
	if len(products) == 0 {
		return nil
	}

	keys := make([]string, len(products))
	for i := range products {
		keys[i] = productKey(products[i].ID)
	}
	created := r.existingCreatedAt(ctx, keys)

	now := r.now().Unix()
	items := make([]db.HashSetItem, len(products))
	for i := range products {
		items[i] = db.HashSetItem{
			Key:    keys[i],
			Fields: buildProductFields(&products[i], created[i], now),
		}
	}

	return r.store.HSetMulti(ctx, items)
}

// existingCreatedAt fetches the created_at field for each key so upserts
// keep the original insert time. A failed or short read leaves the slot
// empty, which stamps the document as newly created.
func (r *Repo) existingCreatedAt(ctx context.Context, keys []string) []string {
	out := make([]string, len(keys))
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return out
	}
	for i := range keys {
		if i < len(maps) {
			out[i] = maps[i]["created_at"]
		}
	}
	return out
}

// GetProduct returns a product by ID.
func (r *Repo) GetProduct(ctx context.Context, id string) (product.Product, error) {
	key := productKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return product.Product{}, domain.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return product.Product{}, domain.ErrProductNotFound
	}
	return parseProductFields(m), nil
}

// ListProducts returns up to limit products ordered by ID.
func (r *Repo) ListProducts(ctx context.Context, limit int) ([]product.Product, error) {
	keys, err := r.store.Scan(ctx, productKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// SCAN order is arbitrary; sort for a stable listing.
	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall products: %w", err)
	}

	products := make([]product.Product, 0, len(maps))
	for _, m := range maps {
		if len(m) == 0 {
			continue
		}
		products = append(products, parseProductFields(m))
	}
	return products, nil
}

// CountProducts returns the number of stored products.
func (r *Repo) CountProducts(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, productKeyPattern())
	if err != nil {
		return 0, fmt.Errorf("scan products: %w", err)
	}
	return len(keys), nil
}

// PutCustomers writes customers in one pipeline, one error slot per customer.
func (r *Repo) PutCustomers(ctx context.Context, customers []customer.Customer) []error {
	if len(customers) == 0 {
		return nil
	}

	keys := make([]string, len(customers))
	for i := range customers {
		keys[i] = customerKey(customers[i].CustomerID)
	}
	created := r.existingCreatedAt(ctx, keys)

	now := r.now().Unix()
	items := make([]db.HashSetItem, len(customers))
	for i := range customers {
		items[i] = db.HashSetItem{
			Key:    keys[i],
			Fields: buildCustomerFields(&customers[i], created[i], now),
		}
	}

	return r.store.HSetMulti(ctx, items)
}

// GetCustomer returns a customer by ID.
func (r *Repo) GetCustomer(ctx context.Context, id string) (customer.Customer, error) {
	key := customerKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return customer.Customer{}, domain.ErrNotFound
		}
		return customer.Customer{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return customer.Customer{}, domain.ErrNotFound
	}
	return parseCustomerFields(m), nil
}

func productKey(id string) string {
	return fmt.Sprintf("%scatalog:product:%s", domain.KeyPrefix, id)
}

func productKeyPattern() string {
	return domain.KeyPrefix + "catalog:product:*"
}

func customerKey(id string) string {
	return fmt.Sprintf("%scatalog:customer:%s", domain.KeyPrefix, id)
}

// ProductIDFromKey strips the key prefix, for error reporting.
func ProductIDFromKey(key string) string {
	return strings.TrimPrefix(key, domain.KeyPrefix+"catalog:product:")
}
