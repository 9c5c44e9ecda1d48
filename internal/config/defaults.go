package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Storage.WorkbookPath == "" {
		cfg.Storage.WorkbookPath = "./data/talentmatch.xlsx"
	}
	if cfg.Storage.CandidatesSheet == "" {
		cfg.Storage.CandidatesSheet = "Candidates"
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "gemini"
	}
	if cfg.Embedding.Model == "" {
		switch cfg.Embedding.Provider {
		case "openai":
			cfg.Embedding.Model = "text-embedding-3-large"
		case "gemini":
			cfg.Embedding.Model = "gemini-embedding-001"
		}
	}
	if cfg.Embedding.Dimensions == 0 {
		switch cfg.Embedding.Provider {
		case "openai":
			cfg.Embedding.Dimensions = openAIDimensions(cfg.Embedding.Model)
		case "mock":
			cfg.Embedding.Dimensions = 384
		default:
			cfg.Embedding.Dimensions = 768
		}
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 15 * time.Second
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 3
	}
	if cfg.Embedding.RetryDelay == 0 {
		cfg.Embedding.RetryDelay = 500 * time.Millisecond
	}

	if cfg.Geocoding.Provider == "" {
		cfg.Geocoding.Provider = "nominatim"
	}
	if cfg.Geocoding.BaseURL == "" {
		cfg.Geocoding.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocoding.UserAgent == "" {
		cfg.Geocoding.UserAgent = "talentmatch/1.0"
	}
	if cfg.Geocoding.Timeout == 0 {
		cfg.Geocoding.Timeout = 5 * time.Second
	}
	if cfg.Geocoding.MaxRetries == 0 {
		cfg.Geocoding.MaxRetries = 2
	}
	if cfg.Geocoding.RetryDelay == 0 {
		cfg.Geocoding.RetryDelay = time.Second
	}
	if cfg.Geocoding.CacheSize == 0 {
		cfg.Geocoding.CacheSize = 10000
	}
	if cfg.Geocoding.CacheTTL == 0 {
		cfg.Geocoding.CacheTTL = 24 * time.Hour
	}
	if cfg.Geocoding.NegativeTTL == 0 {
		cfg.Geocoding.NegativeTTL = 10 * time.Minute
	}

	if cfg.Matching.TopK == 0 {
		cfg.Matching.TopK = 5
	}
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = 4
	}
	if cfg.Matching.MinTokenLength == 0 {
		cfg.Matching.MinTokenLength = 4
	}
	if cfg.Matching.FallbackReason == "" {
		cfg.Matching.FallbackReason = "similar topic and context"
	}
	p := &cfg.Matching.Penalty
	if p.Curve == "" {
		p.Curve = "exponential"
	}
	if p.Floor == 0 {
		p.Floor = 0.6
	}
	if p.ScaleKM == 0 {
		p.ScaleKM = 1000
	}
	if p.MaxKM == 0 {
		p.MaxKM = 2000
	}
	if p.StepKM == 0 {
		p.StepKM = 100
	}
	if p.StepPercent == 0 {
		p.StepPercent = 0.05
	}

	if cfg.Skills.Limit == 0 {
		cfg.Skills.Limit = 5
	}

	if cfg.JobSearch.BaseURL == "" {
		cfg.JobSearch.BaseURL = "https://api.adzuna.com"
	}
	if cfg.JobSearch.Country == "" {
		cfg.JobSearch.Country = "us"
	}
	if cfg.JobSearch.ResultsPerPage == 0 {
		cfg.JobSearch.ResultsPerPage = 20
	}
	if cfg.JobSearch.MaxKeywords == 0 {
		cfg.JobSearch.MaxKeywords = 10
	}
	if cfg.JobSearch.Timeout == 0 {
		cfg.JobSearch.Timeout = 10 * time.Second
	}
}

// openAIDimensions is the native vector size of an OpenAI embedding model.
func openAIDimensions(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	default:
		return 3072
	}
}
