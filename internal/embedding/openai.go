package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder embeds text through a langchaingo embeddings client, by
// default the OpenAI embeddings API.
type OpenAIEmbedder struct {
	impl       embeddings.Embedder
	dimensions int
}

// openAIModelDimensions are the native output sizes of the OpenAI embedding
// models. The langchaingo client cannot request a shortened vector, so these
// are the only sizes the API returns.
var openAIModelDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
}

// OpenAIModelDimensions returns the vector size of a known OpenAI embedding model.
func OpenAIModelDimensions(model string) (int, bool) {
	d, ok := openAIModelDimensions[model]
	return d, ok
}

// NewOpenAIEmbedder creates an embedder for the given OpenAI model.
// baseURL may be empty to use the public API. dimensions <= 0 takes the
// model's native size; for a known model any other size is an error.
func NewOpenAIEmbedder(apiKey, model, baseURL string, dimensions int) (*OpenAIEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = "text-embedding-3-large"
	}
	dimensions, err := openAIDimensions(model, dimensions)
	if err != nil {
		return nil, err
	}
	opts := []openai.Option{
		openai.WithEmbeddingModel(model),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to construct openai embedder: %w", err)
	}
	return &OpenAIEmbedder{impl: impl, dimensions: dimensions}, nil
}

func openAIDimensions(model string, dimensions int) (int, error) {
	native, known := openAIModelDimensions[model]
	switch {
	case !known:
		return dimensions, nil
	case dimensions <= 0:
		return native, nil
	case dimensions != native:
		return 0, fmt.Errorf("openai model %s returns %d dimensions, not the configured %d", model, native, dimensions)
	}
	return dimensions, nil
}

// Name returns the provider name.
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Embed returns the embedding of a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	v, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	return v, nil
}

// EmbedBatch embeds texts with as few requests as the client allows.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, ErrEmptyText
		}
	}
	out, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrInvalidVector, len(out), len(texts))
	}
	return out, nil
}

// Dimensions returns the expected output dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
