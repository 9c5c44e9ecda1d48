package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/talentmatch/internal/vector"
)

// SQLiteEmbeddingStore implements EmbeddingStore using SQLite.
type SQLiteEmbeddingStore struct {
	db *sql.DB
}

// NewSQLiteEmbeddingStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteEmbeddingStore(dbPath string) (*SQLiteEmbeddingStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteEmbeddingStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		dims INTEGER NOT NULL,
		vector BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model);
	`
	_, err := db.Exec(schema)
	return err
}

// GetEmbedding returns the vector stored under key. ok is false when there is none.
func (s *SQLiteEmbeddingStore) GetEmbedding(ctx context.Context, key string) ([]float32, bool, error) {
	var (
		dims int
		blob []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT dims, vector FROM embeddings WHERE key = ?`, key,
	).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read embedding: %w", err)
	}
	v := vector.FromBytes(blob)
	if len(v) != dims {
		return nil, false, fmt.Errorf("stored embedding %s has %d values, expected %d", key, len(v), dims)
	}
	return v, true, nil
}

// PutEmbedding stores v under key, replacing any previous vector.
func (s *SQLiteEmbeddingStore) PutEmbedding(ctx context.Context, key, model string, v []float32) error {
	if len(v) == 0 {
		return errors.New("refusing to store empty embedding")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (key, model, dims, vector) VALUES (?, ?, ?, ?)`,
		key, model, len(v), vector.ToBytes(v),
	)
	if err != nil {
		return fmt.Errorf("failed to write embedding: %w", err)
	}
	return nil
}

// CountEmbeddings returns the number of stored vectors.
func (s *SQLiteEmbeddingStore) CountEmbeddings(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteEmbeddingStore) Close() error {
	return s.db.Close()
}
