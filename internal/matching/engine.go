// Package matching ranks job postings against a candidate profile by semantic
// similarity adjusted for geographic distance.
package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/talentmatch/internal/embedding"
	"github.com/hyperjump/talentmatch/internal/geo"
	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/vector"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// Defaults for Options.
const (
	DefaultTopK    = 5
	DefaultWorkers = 4
)

// TextEmbedder turns text into a vector, returning nil when it cannot.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) []float32
	Dimensions() int
	// Model names the model, so stored vectors from another model are not reused.
	Model() string
}

// LocationResolver turns a place name into a coordinate, returning
// geo.Unresolved when it cannot.
type LocationResolver interface {
	Resolve(ctx context.Context, location string) geo.Coordinate
}

// Options tunes the engine. Zero values take the defaults.
type Options struct {
	TopK           int
	Workers        int
	MinTokenLength int
	FallbackReason string
	Penalty        *ranking.PenaltyConfig
	// UseStoredVectors lets a candidate's precomputed embedding stand in for a
	// live call when it was computed by the same model from the candidate's
	// current text.
	UseStoredVectors bool
}

// Engine scores postings for a candidate.
type Engine struct {
	embedder    TextEmbedder
	resolver    LocationResolver
	multipliers []ranking.Multiplier
	opts        Options
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewEngine creates a match engine. resolver may be nil, in which case every
// location is unresolved and no distance penalty applies.
func NewEngine(embedder TextEmbedder, resolver LocationResolver, opts Options, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MinTokenLength <= 0 {
		opts.MinTokenLength = DefaultMinTokenLength
	}
	if opts.FallbackReason == "" {
		opts.FallbackReason = DefaultFallbackReason
	}
	return &Engine{
		embedder:    embedder,
		resolver:    resolver,
		multipliers: []ranking.Multiplier{ranking.NewDistanceMultiplier(opts.Penalty)},
		opts:        opts,
		logger:      utils.OrNop(logger),
		metrics:     m,
	}
}

// TopK returns the default result count.
func (e *Engine) TopK() int {
	return e.opts.TopK
}

// Match returns up to topK postings ranked by adjusted score, highest first.
// topK <= 0 uses the configured default. It never fails: an unembeddable
// candidate yields an empty list and postings that cannot be scored are left out.
func (e *Engine) Match(ctx context.Context, candidate models.CandidateProfile, postings []models.JobPosting, topK int) []models.MatchResult {
	start := time.Now()
	if topK <= 0 {
		topK = e.opts.TopK
	}
	log := e.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Int("postings", len(postings)),
	)

	candidateVec := e.candidateVector(ctx, candidate, log)
	if candidateVec == nil {
		log.Info("candidate unembeddable, returning no matches")
		e.metrics.ObserveMatch(time.Since(start), 0, len(postings))
		return []models.MatchResult{}
	}
	candidateLoc := e.resolve(ctx, candidate.Location)
	explainText := candidate.ExplanationText()

	scored := make([]*models.MatchResult, len(postings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range postings {
		if !postings[i].Usable() {
			continue
		}
		i := i
		g.Go(func() error {
			scored[i] = e.score(gctx, candidateVec, candidateLoc, explainText, postings[i])
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.MatchResult, 0, len(postings))
	for _, r := range scored {
		if r != nil {
			results = append(results, *r)
		}
	}
	excluded := len(postings) - len(results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AdjustedScore > results[j].AdjustedScore
	})
	if len(results) > topK {
		results = results[:topK]
	}

	if len(results) == 0 && len(postings) > 0 {
		log.Info("no postings survived scoring")
	} else {
		log.Debug("match complete",
			zap.Int("returned", len(results)),
			zap.Int("excluded", excluded),
			zap.Duration("elapsed", time.Since(start)))
	}
	e.metrics.ObserveMatch(time.Since(start), len(results), excluded)
	return results
}

func (e *Engine) candidateVector(ctx context.Context, c models.CandidateProfile, log *zap.Logger) []float32 {
	if e.embedder == nil || c.Degenerate() {
		return nil
	}
	text := c.MatchText()
	if e.opts.UseStoredVectors && c.StoredEmbedding != "" {
		if v, ok := e.storedVector(c, text, log); ok {
			return v
		}
	}
	return e.embedder.Embed(ctx, text)
}

// storedVector returns the candidate's precomputed embedding when its key
// matches the current model and text and it decodes to the right size.
func (e *Engine) storedVector(c models.CandidateProfile, text string, log *zap.Logger) ([]float32, bool) {
	if c.StoredEmbeddingKey != embedding.CacheKey(e.embedder.Model(), text) {
		log.Debug("ignoring stored embedding computed from other text or model")
		return nil, false
	}
	v, err := vector.Decode(c.StoredEmbedding)
	switch {
	case err != nil:
		log.Debug("ignoring undecodable stored embedding", zap.Error(err))
		return nil, false
	case len(v) != e.embedder.Dimensions():
		log.Debug("ignoring stored embedding with mismatched dimension",
			zap.Int("stored", len(v)), zap.Int("expected", e.embedder.Dimensions()))
		return nil, false
	}
	return v, true
}

func (e *Engine) resolve(ctx context.Context, location string) geo.Coordinate {
	if e.resolver == nil || strings.TrimSpace(location) == "" {
		return geo.Unresolved
	}
	return e.resolver.Resolve(ctx, location)
}

func (e *Engine) score(ctx context.Context, candidateVec []float32, candidateLoc geo.Coordinate, explainText string, p models.JobPosting) *models.MatchResult {
	v := e.embedder.Embed(ctx, p.MatchText())
	if v == nil {
		return nil
	}
	similarity := vector.CosineSimilarity(candidateVec, v)
	sctx := ranking.NewScoringContext(candidateLoc, e.resolve(ctx, p.Location))
	breakdown := ranking.Apply(sctx, similarity, e.multipliers...)
	terms, reason := Explain(explainText, p.Summary, e.opts.MinTokenLength, e.opts.FallbackReason)

	penalty := 1.0
	if f, ok := breakdown.Factors["distance"]; ok {
		penalty = f
	}
	return &models.MatchResult{
		Posting:       p,
		Similarity:    similarity,
		DistanceKM:    sctx.DistanceKM,
		Penalty:       penalty,
		AdjustedScore: breakdown.FinalScore,
		Explanation:   terms,
		Reason:        reason,
		Breakdown:     breakdown.Factors,
	}
}
