package catalog

import (
	"context"
	"testing"

	"github.com/vitacart/prodex/internal/db"
	"github.com/vitacart/prodex/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) []error
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) []error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return make([]error, len(items))
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testProduct(id, name string) product.Product {
	return product.Product{
		ID:           id,
		Name:         name,
		Category:     "Vitamins",
		Brand:        "NutriCo",
		Description:  "Daily supplement",
		Ingredients:  []string{"ascorbic acid", "rose hips"},
		Price:        19.99,
		Rating:       4.5,
		ReviewsCount: 120,
		InStock:      true,
		StockStatus:  "In Stock",
		ImageURL:     "/images/vitamin-c.jpg",
	}
}
