// Package server provides the HTTP API for talentmatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/matching"
	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/internal/skillgap"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// Server is the HTTP server for the talentmatch API.
type Server struct {
	engine     matching.Ranker
	records    storage.RecordStore
	jobs       matching.JobSearcher
	embeddings storage.EmbeddingStore
	skills     skillgap.Analyzer
	metrics    *metrics.Metrics
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
}

// Option configures optional server dependencies.
type Option func(*Server)

// WithEmbeddingStore reports the persistent embedding cache size in status.
func WithEmbeddingStore(es storage.EmbeddingStore) Option {
	return func(s *Server) { s.embeddings = es }
}

// WithMetrics exposes m on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server with the given dependencies. records and jobs may
// be nil; the endpoints that need them then answer 503.
func NewServer(
	engine matching.Ranker,
	records storage.RecordStore,
	jobs matching.JobSearcher,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:  engine,
		records: records,
		jobs:    jobs,
		config:  cfg,
		logger:  utils.OrNop(logger),
		skills: skillgap.Analyzer{
			Limit:           cfg.Skills.Limit,
			IgnoreStopWords: cfg.Skills.IgnoreStopWordsOrDefault(),
			MaxTypos:        cfg.Skills.MaxTypos,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	timeout := s.config.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Post("/skills/missing", s.handleMissingSkills)
		r.Post("/candidates/match", s.handleCandidateMatch)
		r.Post("/jobs/candidates", s.handleJobCandidates)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
