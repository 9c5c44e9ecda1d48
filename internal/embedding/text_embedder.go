package embedding

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

const component = "embedding"

// VectorStore persists embeddings across restarts.
type VectorStore interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, bool, error)
	PutEmbedding(ctx context.Context, key, model string, v []float32) error
}

// TextEmbedder wraps an Embedder so that it never fails: blank text, provider
// errors, timeouts, and invalid vectors all produce a nil (absent) vector.
// Results are cached in memory and, when a VectorStore is set, on disk.
// It is safe for concurrent use.
type TextEmbedder struct {
	embedder   Embedder
	provider   string
	model      string
	cache      *EmbeddingCache
	store      VectorStore
	timeout    time.Duration
	maxRetries uint64
	retryDelay time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures a TextEmbedder.
type Option func(*TextEmbedder)

// WithModel names the model for cache keys; vectors from different models never mix.
func WithModel(model string) Option {
	return func(t *TextEmbedder) { t.model = model }
}

// WithCache keeps embeddings in c.
func WithCache(c *EmbeddingCache) Option {
	return func(t *TextEmbedder) { t.cache = c }
}

// WithStore persists embeddings in s.
func WithStore(s VectorStore) Option {
	return func(t *TextEmbedder) { t.store = s }
}

// WithTimeout bounds each provider attempt.
func WithTimeout(d time.Duration) Option {
	return func(t *TextEmbedder) { t.timeout = d }
}

// WithRetry retries transient failures up to maxRetries times with
// exponential backoff starting at delay.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(t *TextEmbedder) {
		if maxRetries >= 0 {
			t.maxRetries = uint64(maxRetries)
		}
		if delay > 0 {
			t.retryDelay = delay
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *TextEmbedder) { t.logger = l }
}

// WithMetrics records provider calls and cache lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *TextEmbedder) { t.metrics = m }
}

// NewTextEmbedder wraps e.
func NewTextEmbedder(e Embedder, opts ...Option) *TextEmbedder {
	t := &TextEmbedder{
		embedder:   e,
		provider:   providerName(e),
		timeout:    15 * time.Second,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.model == "" {
		t.model = t.provider
	}
	t.logger = utils.OrNop(t.logger)
	return t
}

// Dimensions returns the vector length produced by the provider.
func (t *TextEmbedder) Dimensions() int {
	return t.embedder.Dimensions()
}

// Model returns the model name used in cache keys.
func (t *TextEmbedder) Model() string {
	return t.model
}

// Embed returns the embedding of text, or nil when none can be produced.
func (t *TextEmbedder) Embed(ctx context.Context, text string) []float32 {
	text = strings.TrimSpace(text)
	if text == "" {
		t.metrics.ProviderCall(component, t.provider, metrics.OutcomeEmpty)
		return nil
	}
	key := CacheKey(t.model, text)
	if v, ok := t.cached(ctx, key); ok {
		return v
	}

	v, err := t.call(ctx, text)
	if err == nil {
		err = Validate(v, t.embedder.Dimensions())
	}
	if err != nil {
		t.metrics.ProviderCall(component, t.provider, metrics.OutcomeFailed)
		t.logger.Warn("embedding failed, treating text as unembeddable",
			zap.String("provider", t.provider),
			zap.String("text", utils.Truncate(text, 60)),
			zap.Error(err))
		return nil
	}
	t.metrics.ProviderCall(component, t.provider, metrics.OutcomeOK)

	if t.cache != nil {
		t.cache.Set(key, v)
	}
	if t.store != nil {
		if err := t.store.PutEmbedding(ctx, key, t.model, v); err != nil {
			t.logger.Warn("failed to persist embedding", zap.Error(err))
		}
	}
	return v
}

func (t *TextEmbedder) cached(ctx context.Context, key string) ([]float32, bool) {
	if t.cache != nil {
		v, ok := t.cache.Get(key)
		t.metrics.CacheLookup(component, ok)
		if ok {
			return v, true
		}
	}
	if t.store == nil {
		return nil, false
	}
	v, ok, err := t.store.GetEmbedding(ctx, key)
	if err != nil {
		t.logger.Warn("embedding store lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok || Validate(v, t.embedder.Dimensions()) != nil {
		return nil, false
	}
	if t.cache != nil {
		t.cache.Set(key, v)
	}
	return v, true
}

func (t *TextEmbedder) call(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	backoff := retry.WithMaxRetries(t.maxRetries, retry.NewExponential(t.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()
		v, err := t.embedder.Embed(attemptCtx, text)
		if err != nil {
			if ctx.Err() == nil && isTransient(err) {
				t.logger.Debug("retrying embedding", zap.String("provider", t.provider), zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// isTransient reports whether a provider error may clear on retry: rate
// limits, server errors, timeouts, and dropped connections.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if code, ok := geminiStatus(err); ok {
		return code == 429 || code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "status code: 5", "connection reset", "connection refused", "temporary failure", "eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
