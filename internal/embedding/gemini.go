package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// contentEmbedder is the part of genai.Models used here.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiEmbedder embeds text with the Gemini API.
type GeminiEmbedder struct {
	models     contentEmbedder
	model      string
	dimensions int
}

// NewGeminiEmbedder creates a Gemini API client for model. dimensions, when
// positive, is requested as the output dimensionality.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimensions int) (*GeminiEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiEmbedder(client.Models, model, dimensions), nil
}

func newGeminiEmbedder(models contentEmbedder, model string, dimensions int) *GeminiEmbedder {
	if model == "" {
		model = "gemini-embedding-001"
	}
	return &GeminiEmbedder{models: models, model: model, dimensions: dimensions}
}

// Name returns the provider name.
func (e *GeminiEmbedder) Name() string { return "gemini" }

// Embed returns the embedding of a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in one request.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, ErrEmptyText
		}
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if e.dimensions > 0 {
		dims := int32(e.dimensions)
		cfg.OutputDimensionality = &dims
	}
	resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned %d embeddings for %d texts", ErrInvalidVector, embeddingCount(resp), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("%w: missing embedding %d", ErrInvalidVector, i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// Dimensions returns the configured output dimension.
func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (e *GeminiEmbedder) Close() error {
	return nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}

// geminiStatus extracts the HTTP status of a genai API error anywhere in err's chain.
func geminiStatus(err error) (int, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch t := any(e).(type) {
		case genai.APIError:
			return t.Code, true
		case *genai.APIError:
			if t != nil {
				return t.Code, true
			}
		}
	}
	return 0, false
}
