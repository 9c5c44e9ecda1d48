package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
server:
  host: "127.0.0.1"
  port: 9000
embedding:
  provider: mock
matching:
  top_k: 3
  penalty:
    curve: linear
    floor: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Matching.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.Matching.TopK)
	}
	if cfg.Matching.Penalty.Curve != "linear" || cfg.Matching.Penalty.Floor != 0.5 {
		t.Errorf("unexpected penalty config: %+v", cfg.Matching.Penalty)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("mock dimensions = %d, want 384", cfg.Embedding.Dimensions)
	}
}

func TestLoad_durations(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
embedding:
  provider: mock
  timeout: 3s
geocoding:
  cache_ttl: 2h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Embedding.Timeout != 3*time.Second {
		t.Errorf("embedding timeout = %v, want 3s", cfg.Embedding.Timeout)
	}
	if cfg.Geocoding.CacheTTL != 2*time.Hour {
		t.Errorf("cache ttl = %v, want 2h", cfg.Geocoding.CacheTTL)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
storage:
  workbook_path: "./data/people.xlsx"
  embedding_cache_path: "./data/embeddings.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "data", "people.xlsx")
	if cfg.Storage.WorkbookPath != want {
		t.Errorf("workbook_path = %s, want %s", cfg.Storage.WorkbookPath, want)
	}
	wantDB := filepath.Join(dir, "data", "embeddings.db")
	if cfg.Storage.EmbeddingCachePath != wantDB {
		t.Errorf("embedding_cache_path = %s, want %s", cfg.Storage.EmbeddingCachePath, wantDB)
	}
}

func TestLoad_dotEnvFillsCredentials(t *testing.T) {
	dir := t.TempDir()
	for _, k := range []string{"ADZUNA_APP_ID", "ADZUNA_APP_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "ADZUNA_COUNTRY"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	env := "ADZUNA_APP_ID=id-123\nADZUNA_APP_KEY=key-456\nGEMINI_API_KEY=gem-789\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, dir, "embedding:\n  provider: gemini\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JobSearch.AppID != "id-123" || cfg.JobSearch.AppKey != "key-456" {
		t.Errorf("unexpected job search credentials: %+v", cfg.JobSearch)
	}
	if cfg.Embedding.APIKey != "gem-789" {
		t.Errorf("embedding api key = %q, want gem-789", cfg.Embedding.APIKey)
	}
}

func TestLoad_inlineCredentialsWin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ADZUNA_APP_ID", "from-env")
	path := writeConfig(t, dir, "jobsearch:\n  app_id: inline\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JobSearch.AppID != "inline" {
		t.Errorf("app_id = %q, want inline", cfg.JobSearch.AppID)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Matching.TopK != 5 {
		t.Errorf("top_k default = %d, want 5", cfg.Matching.TopK)
	}
	if cfg.Matching.FallbackReason != "similar topic and context" {
		t.Errorf("fallback reason = %q", cfg.Matching.FallbackReason)
	}
	if cfg.Matching.Penalty.Curve != "exponential" || cfg.Matching.Penalty.Floor != 0.6 {
		t.Errorf("penalty defaults = %+v", cfg.Matching.Penalty)
	}
	if cfg.Skills.Limit != 5 || !cfg.Skills.IgnoreStopWordsOrDefault() {
		t.Errorf("skills defaults = %+v", cfg.Skills)
	}
	if cfg.Embedding.Provider != "gemini" || cfg.Embedding.Model != "gemini-embedding-001" {
		t.Errorf("embedding defaults = %+v", cfg.Embedding)
	}
	if cfg.JobSearch.Country != "us" || cfg.JobSearch.MaxKeywords != 10 {
		t.Errorf("jobsearch defaults = %+v", cfg.JobSearch)
	}
	if !cfg.Matching.UseStoredVectorsOrDefault() {
		t.Error("use_stored_vectors should default to true")
	}
}

func TestApplyDefaults_openAIModel(t *testing.T) {
	cfg := Config{Embedding: EmbeddingConfig{Provider: "openai"}}
	ApplyDefaults(&cfg)
	if cfg.Embedding.Model != "text-embedding-3-large" || cfg.Embedding.Dimensions != 3072 {
		t.Errorf("openai defaults = %+v", cfg.Embedding)
	}

	cfg = Config{Embedding: EmbeddingConfig{Provider: "openai", Model: "text-embedding-3-small"}}
	ApplyDefaults(&cfg)
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("text-embedding-3-small dimensions = %d, want 1536", cfg.Embedding.Dimensions)
	}
}

func TestSave_roundTripsThroughLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{Server: ServerConfig{Port: 9100}, Embedding: EmbeddingConfig{Provider: "mock"}}
	ApplyDefaults(cfg)
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9100 || loaded.Embedding.Timeout != cfg.Embedding.Timeout {
		t.Errorf("loaded = %+v", loaded.Server)
	}
}
