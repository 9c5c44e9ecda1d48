// Package indexer precomputes candidate embeddings and stores them in the
// candidates sheet so matching can skip the live embedding call.
package indexer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/embedding"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/internal/vector"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// Embedder returns a vector for text, or nil when the text cannot be embedded.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
	Model() string
}

// Report summarizes one indexing run.
type Report struct {
	Rows     int `json:"rows"`
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

func (r Report) String() string {
	return fmt.Sprintf("%d rows: %d embedded, %d skipped, %d failed", r.Rows, r.Embedded, r.Skipped, r.Failed)
}

// Indexer writes encoded embeddings into the Embedding column of a sheet and
// the key of the model and text they came from into the Embedding Key column.
type Indexer struct {
	store     storage.RecordStore
	embedder  Embedder
	delay     time.Duration
	overwrite bool
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for per-row events.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithDelay waits d after each written row, to stay under provider rate limits.
func WithDelay(d time.Duration) IndexerOption {
	return func(idx *Indexer) { idx.delay = d }
}

// WithOverwrite re-embeds rows whose embedding is already current.
func WithOverwrite(overwrite bool) IndexerOption {
	return func(idx *Indexer) { idx.overwrite = overwrite }
}

// NewIndexer creates an indexer over store.
func NewIndexer(store storage.RecordStore, embedder Embedder, opts ...IndexerOption) *Indexer {
	idx := &Indexer{store: store, embedder: embedder}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = utils.OrNop(idx.logger)
	return idx
}

// IndexCandidates embeds every row of sheet that has a summary and no current
// embedding. An embedding is current when its key matches the row's text and
// the embedder's model, so rows edited since the last run are re-embedded. A
// row that fails is counted and logged; only reading the sheet or cancellation
// stops the run.
func (idx *Indexer) IndexCandidates(ctx context.Context, sheet string) (Report, error) {
	var report Report
	records, err := idx.store.Records(ctx, sheet)
	if err != nil {
		return report, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	report.Rows = len(records)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		row := storage.FirstDataRow + i
		c := models.CandidateFromRecord(rec)
		text := c.MatchText()
		key := embedding.CacheKey(idx.embedder.Model(), text)
		if strings.TrimSpace(c.Summary) == "" || (current(c, key) && !idx.overwrite) {
			report.Skipped++
			continue
		}
		log := idx.logger.With(zap.Int("row", row), zap.String("email", c.Email))

		v := idx.embedder.Embed(ctx, text)
		if v == nil {
			report.Failed++
			log.Warn("candidate embedding failed")
			continue
		}
		encoded, err := vector.Encode(v)
		if err != nil {
			report.Failed++
			log.Warn("candidate embedding could not be encoded", zap.Error(err))
			continue
		}
		if err := idx.store.SetCell(ctx, sheet, row, models.ColumnEmbedding, encoded); err != nil {
			report.Failed++
			log.Warn("failed to store candidate embedding", zap.Error(err))
			continue
		}
		if err := idx.store.SetCell(ctx, sheet, row, models.ColumnEmbeddingKey, key); err != nil {
			report.Failed++
			log.Warn("failed to store candidate embedding key", zap.Error(err))
			continue
		}
		report.Embedded++
		log.Debug("candidate embedded", zap.Int("dimensions", len(v)))

		if idx.delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(idx.delay):
			}
		}
	}
	idx.logger.Info("indexing complete",
		zap.String("sheet", sheet),
		zap.Int("rows", report.Rows),
		zap.Int("embedded", report.Embedded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

func current(c models.CandidateProfile, key string) bool {
	return c.StoredEmbedding != "" && c.StoredEmbeddingKey == key
}
