package embedding

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/domain"
)

func isZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestSoftEmbedder_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2, 0.3},
		TotalTokens: 7,
	}}
	s := NewSoftEmbedder(inner, 3, "test-model", 8000, zap.NewNop())

	result, err := s.Embed(context.Background(), "omega-3 fish oil")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalTokens != 7 {
		t.Errorf("expected 7 tokens, got %d", result.TotalTokens)
	}
	if isZeroVector(result.Embedding) {
		t.Error("expected real vector, got zero vector")
	}
}

func TestSoftEmbedder_EmptyTextZeroVector(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	s := NewSoftEmbedder(inner, 3, "test-model", 8000, zap.NewNop())

	for _, text := range []string{"", "   ", "\t\n"} {
		result, err := s.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("text %q: unexpected error: %v", text, err)
		}
		if len(result.Embedding) != 3 {
			t.Fatalf("text %q: expected dim 3, got %d", text, len(result.Embedding))
		}
		if !isZeroVector(result.Embedding) {
			t.Errorf("text %q: expected zero vector", text)
		}
		if result.TotalTokens != 0 {
			t.Errorf("text %q: expected 0 tokens, got %d", text, result.TotalTokens)
		}
	}
	if inner.calls != 0 {
		t.Errorf("expected no provider calls for empty text, got %d", inner.calls)
	}
}

func TestSoftEmbedder_ProviderErrorZeroVector(t *testing.T) {
	inner := &mockEmbedder{err: fmt.Errorf("connection refused")}
	s := NewSoftEmbedder(inner, 4, "test-model", 8000, zap.NewNop())

	result, err := s.Embed(context.Background(), "vitamin d3")
	if err != nil {
		t.Fatalf("expected soft fallback, got error: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Fatalf("expected dim 4, got %d", len(result.Embedding))
	}
	if !isZeroVector(result.Embedding) {
		t.Error("expected zero vector on provider error")
	}
}

func TestSoftEmbedder_ContextCancellationPropagates(t *testing.T) {
	inner := &mockEmbedder{err: context.Canceled}
	s := NewSoftEmbedder(inner, 3, "test-model", 8000, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Embed(ctx, "protein powder")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestSoftEmbedder_TruncatesLongText(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.5, 0.5},
	}}
	s := NewSoftEmbedder(inner, 2, "test-model", 10, zap.NewNop())

	_, err := s.Embed(context.Background(), strings.Repeat("a", 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.texts) != 1 {
		t.Fatalf("expected 1 call, got %d", len(inner.texts))
	}
	if got := len(inner.texts[0]); got != 10 {
		t.Errorf("expected text truncated to 10 chars, got %d", got)
	}
}

func TestSoftEmbedder_PadsShortVector(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2},
	}}
	s := NewSoftEmbedder(inner, 4, "test-model", 8000, zap.NewNop())

	result, err := s.Embed(context.Background(), "creatine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Fatalf("expected padded dim 4, got %d", len(result.Embedding))
	}
}

func TestSoftEmbedder_EmbedAll(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 5,
	}}
	s := NewSoftEmbedder(inner, 2, "test-model", 8000, zap.NewNop())

	vectors, tokens, err := s.EmbedAll(context.Background(), []string{"a", "b", "c"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 2 {
			t.Errorf("vector %d: expected dim 2, got %d", i, len(vec))
		}
	}
	if tokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", tokens)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 provider calls, got %d", inner.calls)
	}
}

func TestSoftEmbedder_EmbedAll_Empty(t *testing.T) {
	s := NewSoftEmbedder(&mockEmbedder{}, 2, "test-model", 8000, zap.NewNop())

	vectors, tokens, err := s.EmbedAll(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != nil || tokens != 0 {
		t.Errorf("expected nil vectors and 0 tokens, got %v / %d", vectors, tokens)
	}
}

func TestSoftEmbedder_EmbedAll_CancelledDuringDelay(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2},
	}}
	s := NewSoftEmbedder(inner, 2, "test-model", 8000, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, _, err := s.EmbedAll(ctx, []string{"a", "b"}, time.Minute)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", inner.calls)
	}
}
