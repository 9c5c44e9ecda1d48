// Package config provides configuration loading and structs for the talentmatch server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Matching  MatchingConfig  `yaml:"matching"`
	Skills    SkillsConfig    `yaml:"skills"`
	JobSearch JobSearchConfig `yaml:"jobsearch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// StorageConfig holds the workbook and embedding cache locations.
type StorageConfig struct {
	WorkbookPath       string `yaml:"workbook_path"`
	CandidatesSheet    string `yaml:"candidates_sheet"`
	EmbeddingCachePath string `yaml:"embedding_cache_path"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of "gemini", "openai" or "mock".
	Provider   string        `yaml:"provider"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	APIKey     string        `yaml:"api_key"`
	APIKeyFile string        `yaml:"api_key_file"`
	CacheSize  int           `yaml:"cache_size"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// GeocodingConfig selects and tunes the geocoding provider.
type GeocodingConfig struct {
	// Provider is one of "nominatim", "static" or "none".
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	Email       string        `yaml:"email"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	CacheSize   int64         `yaml:"cache_size"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	NegativeTTL time.Duration `yaml:"negative_ttl"`
}

// MatchingConfig holds ranking and explanation settings.
type MatchingConfig struct {
	TopK             int           `yaml:"top_k"`
	Workers          int           `yaml:"workers"`
	MinTokenLength   int           `yaml:"min_token_length"`
	FallbackReason   string        `yaml:"fallback_reason"`
	Penalty          PenaltyConfig `yaml:"penalty"`
	UseStoredVectors *bool         `yaml:"use_stored_vectors"`
}

// UseStoredVectorsOrDefault reports whether precomputed candidate embeddings are
// used; defaults to true when unset.
func (m *MatchingConfig) UseStoredVectorsOrDefault() bool {
	if m.UseStoredVectors != nil {
		return *m.UseStoredVectors
	}
	return true
}

// PenaltyConfig shapes the distance penalty curve.
type PenaltyConfig struct {
	// Curve is one of "exponential", "linear" or "stepped".
	Curve       string  `yaml:"curve"`
	Floor       float64 `yaml:"floor"`
	ScaleKM     float64 `yaml:"scale_km"`
	MaxKM       float64 `yaml:"max_km"`
	StepKM      float64 `yaml:"step_km"`
	StepPercent float64 `yaml:"step_percent"`
}

// SkillsConfig holds missing-skill analysis settings.
type SkillsConfig struct {
	Limit           int   `yaml:"limit"`
	IgnoreStopWords *bool `yaml:"ignore_stop_words"`
	// MaxTypos lets a job keyword within this many edits of a known skill
	// count as covered. 0 requires exact matches.
	MaxTypos int `yaml:"max_typos"`
}

// IgnoreStopWordsOrDefault defaults to true when unset.
func (s *SkillsConfig) IgnoreStopWordsOrDefault() bool {
	if s.IgnoreStopWords != nil {
		return *s.IgnoreStopWords
	}
	return true
}

// JobSearchConfig holds Adzuna API settings.
type JobSearchConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AppID          string        `yaml:"app_id"`
	AppKey         string        `yaml:"app_key"`
	AppKeyFile     string        `yaml:"app_key_file"`
	Country        string        `yaml:"country"`
	ResultsPerPage int           `yaml:"results_per_page"`
	MaxKeywords    int           `yaml:"max_keywords"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// A .env file next to the config, if present, is loaded into the environment first
// so that credentials left empty in the file can come from variables.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := LoadDotEnv(filepath.Join(configDir, ".env")); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)

	cfg.Storage.WorkbookPath = expandPath(cfg.Storage.WorkbookPath, configDir)
	cfg.Storage.EmbeddingCachePath = expandPath(cfg.Storage.EmbeddingCachePath, configDir)
	cfg.Embedding.APIKeyFile = expandPath(cfg.Embedding.APIKeyFile, configDir)
	cfg.JobSearch.AppKeyFile = expandPath(cfg.JobSearch.AppKeyFile, configDir)

	return &cfg, nil
}

// LoadDotEnv loads variables from the file at path without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv fills credentials that are empty in cfg from the environment.
func ApplyEnv(cfg *Config) {
	if cfg.Embedding.APIKey == "" && cfg.Embedding.APIKeyFile == "" {
		switch cfg.Embedding.Provider {
		case "gemini":
			cfg.Embedding.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		case "openai":
			cfg.Embedding.APIKey = firstEnv("OPENAI_API_KEY")
		}
	}
	if cfg.JobSearch.AppID == "" {
		cfg.JobSearch.AppID = firstEnv("ADZUNA_APP_ID")
	}
	if cfg.JobSearch.AppKey == "" && cfg.JobSearch.AppKeyFile == "" {
		cfg.JobSearch.AppKey = firstEnv("ADZUNA_APP_KEY")
	}
	if v := firstEnv("ADZUNA_COUNTRY"); v != "" {
		cfg.JobSearch.Country = strings.ToLower(v)
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
