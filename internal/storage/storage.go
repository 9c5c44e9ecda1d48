// Package storage defines the persistence interfaces for candidate records and embeddings.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/talentmatch/internal/models"
)

// ErrNotFound is returned when a sheet or row does not exist.
var ErrNotFound = errors.New("not found")

// FirstDataRow is the sheet row number of the first record; row 1 holds the headers.
const FirstDataRow = 2

// RecordStore is a set of named sheets of keyed rows.
type RecordStore interface {
	// Records returns every data row of sheet in order. Record i is sheet row
	// FirstDataRow+i.
	Records(ctx context.Context, sheet string) ([]models.Record, error)
	// Find returns the first record whose column equals value, compared
	// trimmed and case-insensitively, and its sheet row number.
	Find(ctx context.Context, sheet, column, value string) (models.Record, int, error)
	// SetCell writes value into column of the given sheet row, adding the
	// column header if it does not exist yet.
	SetCell(ctx context.Context, sheet string, row int, column, value string) error
	// Append adds rec as a new row and returns its row number.
	Append(ctx context.Context, sheet string, rec models.Record) (int, error)
	Close() error
}

// EmbeddingStore persists embedding vectors by cache key.
type EmbeddingStore interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, bool, error)
	PutEmbedding(ctx context.Context, key, model string, v []float32) error
	CountEmbeddings(ctx context.Context) (int64, error)
	Close() error
}
