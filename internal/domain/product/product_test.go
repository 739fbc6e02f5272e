package product

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFromRecord_Defaults(t *testing.T) {
	p, err := FromRecord(Record{ID: "PROD_1", Name: "Vitamin C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Rating != DefaultRating {
		t.Errorf("expected default rating %v, got %v", DefaultRating, p.Rating)
	}
	if p.ReviewsCount != 0 {
		t.Errorf("expected 0 reviews, got %d", p.ReviewsCount)
	}
	if !p.InStock {
		t.Error("expected in_stock=true when stock_status absent")
	}
	if p.Price != 0.0 {
		t.Errorf("expected price 0.0, got %v", p.Price)
	}
}

func TestFromRecord_IDFallback(t *testing.T) {
	a, err := FromRecord(Record{Name: "Omega 3 Fish Oil"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(a.ID, "PROD_") {
		t.Fatalf("expected PROD_ prefix, got %q", a.ID)
	}

	b, _ := FromRecord(Record{Name: "Omega 3 Fish Oil"})
	if a.ID != b.ID {
		t.Errorf("expected deterministic fallback id, got %q and %q", a.ID, b.ID)
	}

	c, _ := FromRecord(Record{Name: "Different Product"})
	if a.ID == c.ID {
		t.Error("expected different fallback ids for different names")
	}
}

func TestFromRecord_ProductIDAlias(t *testing.T) {
	p, err := FromRecord(Record{ProductID: "PROD_42", Name: "Zinc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "PROD_42" {
		t.Errorf("expected product_id used as id, got %q", p.ID)
	}
}

func TestFromRecord_NoIDNoName(t *testing.T) {
	_, err := FromRecord(Record{Description: "mystery item"})
	if err == nil {
		t.Fatal("expected error for record without id and name")
	}
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `19.99`, 19.99},
		{"integer", `25`, 25},
		{"string number", `"12.50"`, 12.5},
		{"string with currency", `"$9.99"`, 9.99},
		{"malformed string", `"twelve dollars"`, 0.0},
		{"negative", `-5`, 0.0},
		{"negative string", `"-5"`, 0.0},
		{"null", `null`, 0.0},
		{"object", `{"amount": 5}`, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := coercePrice(json.RawMessage(tc.raw))
			if got != tc.want {
				t.Errorf("coercePrice(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestInStock_Vocabulary(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"In Stock", true},
		{"available", true},
		{"YES", true},
		{"true", true},
		{"  in stock  ", true},
		{"out of stock", false},
		{"discontinued", false},
		{"no", false},
		{"", true},
	}

	for _, tc := range tests {
		if got := inStock(tc.status); got != tc.want {
			t.Errorf("inStock(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://cdn.example.com/assets/products/vitamin-c.jpg", "/images/vitamin-c.jpg"},
		{"http://img.shop.io/a/b/c/omega3.png?size=large", "/images/omega3.png"},
		{"local-file.webp", "/images/local-file.webp"},
		{"/already/rooted/pic.jpg", "/images/pic.jpg"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := normalizeImageURL(tc.raw); got != tc.want {
			t.Errorf("normalizeImageURL(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSearchText_OrderAndOmissions(t *testing.T) {
	p := Product{
		Name:                "Vitamin C 1000mg",
		Description:         "High potency vitamin C",
		DetailedDescription: "Supports immune function",
		Category:            "Vitamins",
		Brand:               "NutriLab",
		Ingredients:         []string{"ascorbic acid", "rose hips"},
		Benefits:            []string{"immune support"},
		Certifications:      []string{"non-GMO"},
	}

	got := p.SearchText()
	want := "Vitamin C 1000mg High potency vitamin C Supports immune function " +
		"Category: Vitamins Brand: NutriLab " +
		"Ingredients: ascorbic acid, rose hips " +
		"Benefits: immune support " +
		"Certifications: non-GMO"
	if got != want {
		t.Errorf("unexpected search text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSearchText_SparseProduct(t *testing.T) {
	p := Product{Name: "Plain Aspirin"}
	if got := p.SearchText(); got != "Plain Aspirin" {
		t.Errorf("expected name only, got %q", got)
	}
}

func TestSearchText_Deterministic(t *testing.T) {
	p := Product{Name: "X", Category: "Y", Ingredients: []string{"a", "b"}}
	if p.SearchText() != p.SearchText() {
		t.Error("expected identical text on repeated calls")
	}
}

func TestWithoutEmbedding(t *testing.T) {
	p := Product{ID: "PROD_1", Embedding: []float32{0.1, 0.2}}
	clean := p.WithoutEmbedding()
	if clean.Embedding != nil {
		t.Error("expected embedding stripped")
	}
	if p.Embedding == nil {
		t.Error("expected original untouched")
	}
}

func TestProductJSON_EmbeddingNeverSerialized(t *testing.T) {
	p := Product{ID: "PROD_1", Name: "X", Embedding: []float32{0.5}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "embedding") {
		t.Errorf("embedding leaked into JSON: %s", data)
	}
}
