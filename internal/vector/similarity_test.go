package vector

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 2}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_symmetricAndBounded(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{-2.2, 0.7, 1.1, 3.3}
	ab, ba := Cosine(a, b), Cosine(b, a)
	if ab != ba {
		t.Errorf("Cosine not symmetric: %v vs %v", ab, ba)
	}
	if ab < -1 || ab > 1 {
		t.Errorf("Cosine out of range: %v", ab)
	}
}

func TestCosineSimilarity_clampsNegative(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); got != 0 {
		t.Errorf("CosineSimilarity() = %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{1, 1}, []float32{1, 1}); math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity() = %v, want 1", got)
	}
}

func TestInnerProductAndNorm(t *testing.T) {
	if InnerProduct([]float32{1, 2}, []float32{3, 4}) != 11 {
		t.Error("InnerProduct")
	}
	if L2Norm([]float32{3, 4}) != 5 {
		t.Error("L2Norm")
	}
}
