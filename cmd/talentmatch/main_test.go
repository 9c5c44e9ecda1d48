package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/embedding"
)

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  workbook_path: "book.xlsx"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Matching.TopK != 5 {
		t.Errorf("defaults not applied: top_k = %d", cfg.Matching.TopK)
	}
}

func TestLoadConfig_explicitMissingFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestJobText(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(file, []byte("Go and Kafka"), 0600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		inline  string
		file    string
		want    string
		wantErr bool
	}{
		{"inline", "Python role", "", "Python role", false},
		{"file", "", file, "Go and Kafka", false},
		{"both", "x", file, "", true},
		{"neither", "", "", "", true},
		{"missing file", "", filepath.Join(dir, "nope.txt"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jobText(tt.inline, tt.file)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("jobText() = %q, %v", got, err)
			}
		})
	}
}

func TestNewGeocoder(t *testing.T) {
	tests := []struct {
		provider string
		wantNil  bool
		wantName string
		wantErr  bool
	}{
		{"none", true, "", false},
		{"static", false, "static", false},
		{"nominatim", false, "nominatim", false},
		{"google", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &config.Config{Geocoding: config.GeocodingConfig{Provider: tt.provider}}
			config.ApplyDefaults(cfg)
			g, err := newGeocoder(&cfg.Geocoding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if (g == nil) != tt.wantNil {
				t.Fatalf("geocoder = %v", g)
			}
			if g != nil && g.Name() != tt.wantName {
				t.Errorf("name = %s, want %s", g.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()
	p, err := newProvider(ctx, &config.EmbeddingConfig{Provider: "mock", Dimensions: 16})
	if err != nil || p.Dimensions() != 16 {
		t.Fatalf("mock provider = %v, %v", p, err)
	}
	if _, err := newProvider(ctx, &config.EmbeddingConfig{Provider: "word2vec"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := newProvider(ctx, &config.EmbeddingConfig{Provider: "gemini"}); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("expected missing key error, got %v", err)
	}
}

func writeMockConfig(t *testing.T, dir string) string {
	t.Helper()
	content := `
storage:
  workbook_path: "./book.xlsx"
  embedding_cache_path: "./embeddings.db"
embedding:
  provider: mock
geocoding:
  provider: static
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitializeComponents_mock(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(writeMockConfig(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	cfg.JobSearch.AppID, cfg.JobSearch.AppKey = "", ""
	c, err := initializeComponents(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Engine == nil || c.Records == nil || c.Embeddings == nil || c.Resolver == nil {
		t.Fatalf("components = %+v", c)
	}
	if c.JobSearcher() != nil {
		t.Error("job searcher should be nil without credentials")
	}
	if c.Embedder.Dimensions() != 384 {
		t.Errorf("dimensions = %d", c.Embedder.Dimensions())
	}
}

func TestRunMatch_input(t *testing.T) {
	dir := t.TempDir()
	req := map[string]interface{}{
		"candidate": map[string]interface{}{
			"summary":  "Go developer building backend services",
			"skills":   "go, sql",
			"location": "Berlin",
		},
		"postings": []map[string]string{
			{"summary": "Backend Go developer for payment services", "location": "Berlin"},
			{"summary": "Pastry chef for a busy bakery", "location": "Sydney"},
			{"summary": "", "location": "Paris"},
		},
	}
	input := filepath.Join(dir, "request.json")
	data, _ := json.Marshal(req)
	if err := os.WriteFile(input, data, 0600); err != nil {
		t.Fatal(err)
	}

	prevCfg, prevIn, prevEmail, prevOut := cfgFile, matchInput, matchEmail, outputFlag
	t.Cleanup(func() { cfgFile, matchInput, matchEmail, outputFlag = prevCfg, prevIn, prevEmail, prevOut })
	cfgFile, matchInput, matchEmail, outputFlag = writeMockConfig(t, dir), input, "", "json"

	var out bytes.Buffer
	if err := runMatch(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Matches []struct {
			Summary    string   `json:"summary"`
			Score      float64  `json:"score"`
			DistanceKM *float64 `json:"distance_km"`
		} `json:"matches"`
		MissingSkills []string `json:"missing_skills"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid output %q: %v", out.String(), err)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("matches = %+v", resp.Matches)
	}
	if !strings.HasPrefix(resp.Matches[0].Summary, "Backend Go") {
		t.Errorf("top match = %q", resp.Matches[0].Summary)
	}
	if resp.Matches[1].DistanceKM == nil || *resp.Matches[1].DistanceKM < 10000 {
		t.Errorf("Sydney distance = %v", resp.Matches[1].DistanceKM)
	}
}

func TestRunMatch_requiresOneSource(t *testing.T) {
	prevIn, prevEmail := matchInput, matchEmail
	t.Cleanup(func() { matchInput, matchEmail = prevIn, prevEmail })
	matchInput, matchEmail = "", ""
	if err := runMatch(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error without --input or --email")
	}
	matchInput, matchEmail = "a.json", "a@example.com"
	if err := runMatch(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error with both")
	}
}

func TestRunSkills_usesConfiguredAnalyzer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  workbook_path: "./book.xlsx"
embedding:
  provider: mock
skills:
  limit: 10
  max_typos: 1
  ignore_stop_words: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	prevCfg, prevOut, prevList, prevJob, prevFile, prevLimit := cfgFile, outputFlag, skillsList, skillsJob, skillsJobFile, skillsLimit
	t.Cleanup(func() {
		cfgFile, outputFlag, skillsList, skillsJob, skillsJobFile, skillsLimit = prevCfg, prevOut, prevList, prevJob, prevFile, prevLimit
	})
	cfgFile, outputFlag = path, "json"
	skillsList, skillsJob, skillsJobFile, skillsLimit = "postgres", "Kubernetes and postgress", "", 0

	var out bytes.Buffer
	if err := runSkills(&out); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		MissingSkills []string `json:"missing_skills"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid output %q: %v", out.String(), err)
	}
	if got := strings.Join(resp.MissingSkills, ","); got != "and,kubernetes" {
		t.Errorf("missing = %q, want stop words kept and the typo tolerated", got)
	}
}

// wrongSizeEmbedder reports more dimensions than it returns.
type wrongSizeEmbedder struct{ *embedding.MockEmbedder }

func (w wrongSizeEmbedder) Dimensions() int { return w.MockEmbedder.Dimensions() * 2 }

func TestCheckProvider(t *testing.T) {
	ctx := context.Background()
	if err := checkProvider(ctx, embedding.NewMockEmbedder(32), time.Second, zap.NewNop()); err != nil {
		t.Errorf("matching provider: %v", err)
	}
	err := checkProvider(ctx, wrongSizeEmbedder{embedding.NewMockEmbedder(32)}, time.Second, zap.NewNop())
	if !errors.Is(err, embedding.ErrInvalidVector) {
		t.Errorf("err = %v, want ErrInvalidVector", err)
	}
}

func TestNewServerLogger_jsonInDebug(t *testing.T) {
	logger, err := newServerLogger(true, true)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level should stay enabled with --json")
	}
	// the development logger panics on DPanic; the production JSON one does not
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("json logger panicked on DPanic: %v", r)
			}
		}()
		logger.DPanic("not fatal in production config")
	}()
}
