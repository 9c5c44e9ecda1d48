// Package vector provides similarity helpers and the stored encoding for embedding vectors.
package vector

import (
	"math"

	"github.com/hyperjump/talentmatch/pkg/utils"
)

// InnerProduct returns the inner product of two vectors (for normalized vectors equals cosine similarity).
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Vectors of
// different length, empty vectors, and zero-norm vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := L2Norm(a), L2Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := InnerProduct(a, b) / (na * nb)
	// rounding can push identical vectors slightly past 1
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}

// CosineSimilarity is Cosine clamped to [0, 1], the range used for match scores.
func CosineSimilarity(a, b []float32) float64 {
	return utils.Clamp(Cosine(a, b), 0, 1)
}
