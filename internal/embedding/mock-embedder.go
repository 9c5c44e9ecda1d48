package embedding

import (
	"context"
	"hash/fnv"

	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests and offline runs. It
// hashes each word into a bucket of a fixed-dimension vector, so texts that
// share words get similar embeddings.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns an embedder that produces deterministic embeddings of the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Name returns the provider name.
func (e *MockEmbedder) Name() string { return "mock" }

// Embed returns a unit-length bag-of-words embedding of text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := keyword.Tokens(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	emb := make([]float32, e.dimensions)
	for _, w := range words {
		h := HashString(w)
		idx := int(h % uint64(e.dimensions))
		if h&(1<<63) != 0 {
			emb[idx] -= 1
		} else {
			emb[idx] += 1
		}
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockEmbedder.
func (e *MockEmbedder) Close() error {
	return nil
}

// HashString returns a deterministic 64-bit FNV-1a hash of s.
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
