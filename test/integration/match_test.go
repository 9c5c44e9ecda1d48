// Package integration runs the matching flow end to end against real storage.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/embedding"
	"github.com/hyperjump/talentmatch/internal/geo"
	"github.com/hyperjump/talentmatch/internal/indexer"
	"github.com/hyperjump/talentmatch/internal/jobsearch"
	"github.com/hyperjump/talentmatch/internal/matching"
	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/server"
	"github.com/hyperjump/talentmatch/internal/storage"
)

const adzunaResponse = `{
  "count": 3,
  "results": [
    {"title": "Pastry Chef", "description": "Bake bread and cakes", "location": {"display_name": "Sydney"}},
    {"title": "Go Backend Engineer", "description": "Build payment services in Go with PostgreSQL and Kafka", "location": {"display_name": "Berlin"}},
    {"title": "Go Backend Engineer", "description": "Build payment services in Go with PostgreSQL and Kafka", "location": {"display_name": "New York"}}
  ]
}`

func TestIntegration_CandidateMatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			WorkbookPath:       filepath.Join(dir, "talentmatch.xlsx"),
			EmbeddingCachePath: filepath.Join(dir, "embeddings.db"),
		},
		Embedding: config.EmbeddingConfig{Provider: "mock", Dimensions: 64},
		Geocoding: config.GeocodingConfig{Provider: "static"},
	}
	config.ApplyDefaults(cfg)

	wb, err := storage.OpenWorkbook(cfg.Storage.WorkbookPath)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	if _, err := wb.Append(ctx, cfg.Storage.CandidatesSheet, models.Record{
		"Name":     "Ada",
		"Email":    "ada@example.com",
		"Summary":  "Go backend engineer building payment services",
		"Skills":   "Go, PostgreSQL",
		"Location": "Berlin",
	}); err != nil {
		t.Fatal(err)
	}

	vectors, err := storage.NewSQLiteEmbeddingStore(cfg.Storage.EmbeddingCachePath)
	if err != nil {
		t.Fatal(err)
	}
	defer vectors.Close()

	m := metrics.New()
	cache, err := embedding.NewEmbeddingCache(cfg.Embedding.CacheSize)
	if err != nil {
		t.Fatal(err)
	}
	embedder := embedding.NewTextEmbedder(embedding.NewMockEmbedder(cfg.Embedding.Dimensions),
		embedding.WithCache(cache), embedding.WithStore(vectors), embedding.WithMetrics(m))
	resolver, err := geo.NewResolver(geo.NewStatic(nil), geo.WithCache(100, 0, 0), geo.WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}
	defer resolver.Close()

	report, err := indexer.NewIndexer(wb, embedder).IndexCandidates(ctx, cfg.Storage.CandidatesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if report.Embedded != 1 {
		t.Fatalf("index report = %+v", report)
	}

	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(adzunaResponse))
	}))
	defer board.Close()
	jobs := jobsearch.NewClient(jobsearch.Config{BaseURL: board.URL, AppID: "id", AppKey: "key"})

	engine := matching.NewEngine(embedder, resolver, matching.Options{UseStoredVectors: true}, zap.NewNop(), m)
	srv := server.NewServer(engine, wb, jobs, cfg, zap.NewNop(), server.WithEmbeddingStore(vectors), server.WithMetrics(m))
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	body, _ := json.Marshal(map[string]string{"email": "ada@example.com"})
	resp, err := http.Post(api.URL+"/api/v1/candidates/match", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out models.CandidateMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.MatchesFound != 3 || out.Location != "Berlin" {
		t.Fatalf("response = %+v", out)
	}
	top, second := out.TopMatches[0], out.TopMatches[1]
	if top.Location != "Berlin" || second.Location != "New York" {
		t.Errorf("order = %s, %s, %s; want the Berlin copy ahead of New York",
			top.Location, second.Location, out.TopMatches[2].Location)
	}
	if top.Penalty != 1 || second.Penalty >= 1 || top.Score <= second.Score {
		t.Errorf("distance should separate the two copies: %+v vs %+v", top, second)
	}
	if len(top.SharedTerms) == 0 {
		t.Error("expected shared terms for the top match")
	}
	if len(out.MissingSkills) == 0 {
		t.Error("expected missing skills")
	}

	n, err := vectors.CountEmbeddings(ctx)
	if err != nil || n == 0 {
		t.Errorf("embedding store count = %d, %v", n, err)
	}
}
