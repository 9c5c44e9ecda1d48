package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/embedding"
	"github.com/hyperjump/talentmatch/internal/geo"
	"github.com/hyperjump/talentmatch/internal/jobsearch"
	"github.com/hyperjump/talentmatch/internal/matching"
	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/secrets"
	"github.com/hyperjump/talentmatch/internal/skillgap"
	"github.com/hyperjump/talentmatch/internal/storage"
)

// Components holds initialized services.
type Components struct {
	Records    *storage.Workbook
	Embeddings *storage.SQLiteEmbeddingStore
	Provider   embedding.Embedder
	Embedder   *embedding.TextEmbedder
	Resolver   *geo.Resolver
	Engine     *matching.Engine
	Jobs       *jobsearch.Client
	Skills     skillgap.Analyzer
	Metrics    *metrics.Metrics
}

// Close releases every component that holds resources.
func (c *Components) Close() {
	if c.Records != nil {
		_ = c.Records.Close()
	}
	if c.Embeddings != nil {
		_ = c.Embeddings.Close()
	}
	if c.Provider != nil {
		_ = c.Provider.Close()
	}
	if c.Resolver != nil {
		c.Resolver.Close()
	}
}

// JobSearcher returns the job board client, or nil when it has no credentials.
func (c *Components) JobSearcher() matching.JobSearcher {
	if c.Jobs == nil || !c.Jobs.Configured() {
		return nil
	}
	return c.Jobs
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{Metrics: metrics.New()}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	records, err := storage.OpenWorkbook(cfg.Storage.WorkbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	c.Records = records

	if cfg.Storage.EmbeddingCachePath != "" {
		store, err := storage.NewSQLiteEmbeddingStore(cfg.Storage.EmbeddingCachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedding store: %w", err)
		}
		c.Embeddings = store
	}

	provider, err := newProvider(ctx, &cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	c.Provider = provider
	if err := checkProvider(ctx, provider, cfg.Embedding.Timeout, logger); err != nil {
		return nil, err
	}

	opts := []embedding.Option{
		embedding.WithModel(cfg.Embedding.Model),
		embedding.WithTimeout(cfg.Embedding.Timeout),
		embedding.WithRetry(cfg.Embedding.MaxRetries, cfg.Embedding.RetryDelay),
		embedding.WithLogger(logger),
		embedding.WithMetrics(c.Metrics),
	}
	if cfg.Embedding.CacheSize > 0 {
		cache, err := embedding.NewEmbeddingCache(cfg.Embedding.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding cache: %w", err)
		}
		opts = append(opts, embedding.WithCache(cache))
	}
	if c.Embeddings != nil {
		opts = append(opts, embedding.WithStore(c.Embeddings))
	}
	c.Embedder = embedding.NewTextEmbedder(provider, opts...)

	geocoder, err := newGeocoder(&cfg.Geocoding)
	if err != nil {
		return nil, err
	}
	resolver, err := geo.NewResolver(geocoder,
		geo.WithCache(cfg.Geocoding.CacheSize, cfg.Geocoding.CacheTTL, cfg.Geocoding.NegativeTTL),
		geo.WithRetry(cfg.Geocoding.MaxRetries, cfg.Geocoding.RetryDelay),
		geo.WithTimeout(cfg.Geocoding.Timeout),
		geo.WithLogger(logger),
		geo.WithMetrics(c.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}
	c.Resolver = resolver

	penalty := ranking.PenaltyConfig(cfg.Matching.Penalty)
	if err := penalty.Validate(); err != nil {
		return nil, fmt.Errorf("invalid penalty config: %w", err)
	}
	c.Engine = matching.NewEngine(c.Embedder, c.Resolver, matching.Options{
		TopK:             cfg.Matching.TopK,
		Workers:          cfg.Matching.Workers,
		MinTokenLength:   cfg.Matching.MinTokenLength,
		FallbackReason:   cfg.Matching.FallbackReason,
		Penalty:          &penalty,
		UseStoredVectors: cfg.Matching.UseStoredVectorsOrDefault(),
	}, logger, c.Metrics)

	appKey, err := secrets.Optional(secrets.Source{
		Name:  "adzuna app key",
		Value: cfg.JobSearch.AppKey,
		File:  cfg.JobSearch.AppKeyFile,
	})
	if err != nil {
		return nil, err
	}
	c.Jobs = jobsearch.NewClient(jobsearch.Config{
		BaseURL:        cfg.JobSearch.BaseURL,
		AppID:          cfg.JobSearch.AppID,
		AppKey:         appKey,
		Country:        cfg.JobSearch.Country,
		ResultsPerPage: cfg.JobSearch.ResultsPerPage,
		MaxKeywords:    cfg.JobSearch.MaxKeywords,
		Timeout:        cfg.JobSearch.Timeout,
		MaxRetries:     2,
	})
	if !c.Jobs.Configured() {
		logger.Info("job search credentials not set, candidate matching by email is disabled")
	}

	c.Skills = newSkillAnalyzer(&cfg.Skills)

	logger.Info("components initialized",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", provider.Dimensions()),
		zap.String("geocoding_provider", cfg.Geocoding.Provider),
		zap.String("workbook", cfg.Storage.WorkbookPath))
	ok = true
	return c, nil
}

func newProvider(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimensions), nil
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	apiKey, err := secrets.Load(secrets.Source{
		Name:  cfg.Provider + " api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Provider == "openai" {
		return embedding.NewOpenAIEmbedder(apiKey, cfg.Model, "", cfg.Dimensions)
	}
	return embedding.NewGeminiEmbedder(ctx, apiKey, cfg.Model, cfg.Dimensions)
}

// checkProvider fails start-up when the provider returns vectors of a size
// other than the configured one, since every embedding would then be rejected.
// An unreachable provider only logs a warning.
func checkProvider(ctx context.Context, provider embedding.Embedder, timeout time.Duration, logger *zap.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := embedding.CheckDimensions(ctx, provider)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, embedding.ErrInvalidVector):
		return fmt.Errorf("embedding provider misconfigured: %w", err)
	default:
		logger.Warn("embedding provider check failed, continuing", zap.Error(err))
		return nil
	}
}

func newSkillAnalyzer(cfg *config.SkillsConfig) skillgap.Analyzer {
	return skillgap.Analyzer{
		Limit:           cfg.Limit,
		IgnoreStopWords: cfg.IgnoreStopWordsOrDefault(),
		MaxTypos:        cfg.MaxTypos,
	}
}

// newGeocoder returns nil for "none", which leaves every location unresolved.
func newGeocoder(cfg *config.GeocodingConfig) (geo.Geocoder, error) {
	switch cfg.Provider {
	case "none":
		return nil, nil
	case "static":
		return geo.NewStatic(nil), nil
	case "nominatim":
		return geo.NewNominatim(cfg.BaseURL, cfg.UserAgent, cfg.Email, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
}
