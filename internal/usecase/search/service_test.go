package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/product"
	"github.com/vitacart/prodex/internal/domain/search/filter"
	"github.com/vitacart/prodex/internal/domain/search/mode"
	"github.com/vitacart/prodex/internal/domain/search/query"
	"github.com/vitacart/prodex/internal/domain/search/result"
	"github.com/vitacart/prodex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockIndex struct {
	lexHits    []result.Hit
	lexTotal   int
	lexErr     error
	vecHits    []result.Hit
	vecErr     error
	lexCalled  bool
	vecCalled  bool
	lastVector []float32
}

func (m *mockIndex) Lexical(_ context.Context, _ *query.Query) ([]result.Hit, int, error) {
	m.lexCalled = true
	return m.lexHits, m.lexTotal, m.lexErr
}

func (m *mockIndex) Vector(
	_ context.Context, vector []float32, _ *query.Query,
) ([]result.Hit, error) {
	m.vecCalled = true
	m.lastVector = vector
	return m.vecHits, m.vecErr
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

// --- Helpers ---

func mustQuery(t *testing.T, text string, m mode.Mode, size int, minSim float64) *query.Query {
	t.Helper()
	q, err := query.New(text, m, filter.Filters{}, size, 0, query.SortRelevance, minSim)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return &q
}

func hit(id string, score float64) result.Hit {
	return result.New(product.Product{ID: id, Name: "product " + id}, score)
}

// --- Tests ---

func TestRoute_Lexical(t *testing.T) {
	idx := &mockIndex{
		lexHits:  []result.Hit{hit("p1", 12.5), hit("p2", 3.1)},
		lexTotal: 42,
	}
	svc := New(idx, &mockEmbedder{})

	env, err := svc.Route(context.Background(), mustQuery(t, "omega 3", mode.Lexical, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !idx.lexCalled {
		t.Error("expected lexical search to be called")
	}
	if idx.vecCalled {
		t.Error("vector search must not run in lexical mode")
	}
	if env.Mode != mode.Lexical {
		t.Errorf("expected lexical mode in envelope, got %q", env.Mode)
	}
	if env.Query != "omega 3" {
		t.Errorf("expected query echoed back, got %q", env.Query)
	}
	if env.TotalHits != 42 {
		t.Errorf("expected total 42, got %d", env.TotalHits)
	}
	if len(env.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(env.Results))
	}
	if env.TookMS < 0 {
		t.Errorf("expected non-negative took_ms, got %d", env.TookMS)
	}
}

func TestRoute_Lexical_Error(t *testing.T) {
	idx := &mockIndex{lexErr: fmt.Errorf("search failed")}
	svc := New(idx, &mockEmbedder{})

	_, err := svc.Route(context.Background(), mustQuery(t, "omega 3", mode.Lexical, 10, 0))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRoute_Vector(t *testing.T) {
	idx := &mockIndex{
		vecHits: []result.Hit{hit("p1", 0.95), hit("p2", 0.80), hit("p3", 0.40)},
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	svc := New(idx, emb)

	env, err := svc.Route(context.Background(), mustQuery(t, "joint support", mode.Vector, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !idx.vecCalled {
		t.Error("expected vector search to be called")
	}
	if len(idx.lastVector) != 3 {
		t.Errorf("expected query vector forwarded to the index, got %v", idx.lastVector)
	}
	if len(env.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(env.Results))
	}
	if env.TotalHits != 3 {
		t.Errorf("expected total to equal hit count in vector mode, got %d", env.TotalHits)
	}

	// Min-max normalization within the candidate set.
	if got := env.Results[0].Similarity(); got != 1.0 {
		t.Errorf("expected top similarity 1.0, got %v", got)
	}
	if got := env.Results[2].Similarity(); got != 0.0 {
		t.Errorf("expected bottom similarity 0.0, got %v", got)
	}
}

func TestRoute_Vector_ThresholdCutsAndCounts(t *testing.T) {
	// Scores 1.0 / 0.5 / 0.0 after normalization.
	idx := &mockIndex{
		vecHits: []result.Hit{hit("p1", 0.9), hit("p2", 0.5), hit("p3", 0.1)},
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	svc := New(idx, emb)

	env, err := svc.Route(context.Background(), mustQuery(t, "collagen", mode.Vector, 10, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Results) != 2 {
		t.Fatalf("expected 2 results at or above threshold, got %d", len(env.Results))
	}
	if env.TotalHits != 2 {
		t.Errorf("expected total after threshold, got %d", env.TotalHits)
	}
	for _, h := range env.Results {
		if h.Similarity() < 0.5 {
			t.Errorf("hit %s below threshold: %v", h.Product().ID, h.Similarity())
		}
	}
}

func TestRoute_Vector_TopCutsToSize(t *testing.T) {
	hits := make([]result.Hit, 8)
	for i := range hits {
		hits[i] = hit(fmt.Sprintf("p%d", i), float64(8-i))
	}
	idx := &mockIndex{vecHits: hits}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	svc := New(idx, emb)

	env, err := svc.Route(context.Background(), mustQuery(t, "magnesium", mode.Vector, 3, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(env.Results))
	}
	if env.Results[0].Product().ID != "p0" {
		t.Errorf("expected order preserved, got %s first", env.Results[0].Product().ID)
	}
}

func TestRoute_Vector_EmbedError(t *testing.T) {
	idx := &mockIndex{}
	emb := &mockEmbedder{err: fmt.Errorf("provider down")}
	svc := New(idx, emb)

	_, err := svc.Route(context.Background(), mustQuery(t, "zinc", mode.Vector, 10, 0))
	if err == nil {
		t.Fatal("expected error")
	}
	if idx.vecCalled {
		t.Error("vector search must not run when embedding fails")
	}
}

func TestRoute_Vector_DimMismatchPropagates(t *testing.T) {
	idx := &mockIndex{vecErr: fmt.Errorf("%w: got 2, index dimension 4", domain.ErrVectorDimMismatch)}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	svc := New(idx, emb)

	_, err := svc.Route(context.Background(), mustQuery(t, "iron", mode.Vector, 10, 0))
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestRoute_Vector_Empty(t *testing.T) {
	idx := &mockIndex{}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	svc := New(idx, emb)

	env, err := svc.Route(context.Background(), mustQuery(t, "niacin", mode.Vector, 10, 0.9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Results) != 0 || env.TotalHits != 0 {
		t.Errorf("expected empty envelope, got %d results / total %d", len(env.Results), env.TotalHits)
	}
}
