// Package embedding turns text into vectors through pluggable providers, with
// caching and failure degradation.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/talentmatch/internal/vector"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// ErrInvalidVector is returned when a provider yields an unusable vector.
var ErrInvalidVector = errors.New("invalid embedding vector")

// ErrEmptyText is returned by providers asked to embed blank text.
var ErrEmptyText = errors.New("text is empty")

// Validate checks v for the expected dimension (when dims > 0), finite
// values, and a non-zero norm.
func Validate(v []float32, dims int) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidVector)
	}
	if dims > 0 && len(v) != dims {
		return fmt.Errorf("%w: got %d dimensions, want %d", ErrInvalidVector, len(v), dims)
	}
	if !utils.Finite(v) {
		return fmt.Errorf("%w: non-finite value", ErrInvalidVector)
	}
	if vector.L2Norm(v) == 0 {
		return fmt.Errorf("%w: zero norm", ErrInvalidVector)
	}
	return nil
}

func providerName(e Embedder) string {
	if n, ok := e.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}

// CheckDimensions embeds a short sample and verifies the provider returns
// vectors of the size it reports. A wrong size wraps ErrInvalidVector; other
// errors come from the provider call itself.
func CheckDimensions(ctx context.Context, e Embedder) error {
	v, err := e.Embed(ctx, "software engineer")
	if err != nil {
		return fmt.Errorf("dimension check: %w", err)
	}
	if err := Validate(v, e.Dimensions()); err != nil {
		return fmt.Errorf("dimension check: %w", err)
	}
	return nil
}
