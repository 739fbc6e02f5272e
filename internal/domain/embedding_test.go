package domain

import "testing"

func TestNormalizeDim_Pad(t *testing.T) {
	vec := NormalizeDim([]float32{0.1, 0.2}, 4)
	if len(vec) != 4 {
		t.Fatalf("expected len 4, got %d", len(vec))
	}
	if vec[0] != 0.1 || vec[1] != 0.2 {
		t.Errorf("expected leading components preserved, got %v", vec)
	}
	if vec[2] != 0 || vec[3] != 0 {
		t.Errorf("expected zero padding, got %v", vec)
	}
}

func TestNormalizeDim_Truncate(t *testing.T) {
	vec := NormalizeDim([]float32{0.1, 0.2, 0.3, 0.4}, 2)
	if len(vec) != 2 {
		t.Fatalf("expected len 2, got %d", len(vec))
	}
	if vec[0] != 0.1 || vec[1] != 0.2 {
		t.Errorf("expected first components kept, got %v", vec)
	}
}

func TestNormalizeDim_ExactFit(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := NormalizeDim(in, 3)
	if &in[0] != &out[0] {
		t.Error("expected same backing array for exact fit")
	}
}

func TestZeroVector(t *testing.T) {
	vec := ZeroVector(1024)
	if len(vec) != 1024 {
		t.Fatalf("expected len 1024, got %d", len(vec))
	}
	if !IsZeroVector(vec) {
		t.Error("expected all-zero vector")
	}
}

func TestIsZeroVector(t *testing.T) {
	if IsZeroVector([]float32{0, 0.001, 0}) {
		t.Error("expected false for non-zero component")
	}
	if !IsZeroVector(nil) {
		t.Error("expected true for nil vector")
	}
}
