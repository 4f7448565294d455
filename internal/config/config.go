// Package config loads application configuration from a YAML file,
// environment variables, and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rosterhq/talentsearch/internal/embedder"
	"github.com/rosterhq/talentsearch/internal/pipeline"
	"github.com/rosterhq/talentsearch/internal/scorer"
	"github.com/rosterhq/talentsearch/internal/summarizer"
)

// Index backend names
const (
	IndexLinear = "linear"
	IndexQdrant = "qdrant"
)

// Config is the full application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Index     IndexConfig     `mapstructure:"index"`
	Summary   SummaryConfig   `mapstructure:"summary"`
}

// DatabaseConfig locates the durable store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ProviderConfig holds one embedding provider's credentials
type ProviderConfig struct {
	APIKey    string `mapstructure:"api-key"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

// ProvidersConfig holds all provider credentials
type ProvidersConfig struct {
	Gemini ProviderConfig `mapstructure:"gemini"`
	OpenAI ProviderConfig `mapstructure:"openai"`
}

// FallbackConfig orders retrieval tiers. Tiers lists provider names in
// preference order; the keyword tier is always implied last.
type FallbackConfig struct {
	Tiers       []string      `mapstructure:"tiers"`
	TierTimeout time.Duration `mapstructure:"tier-timeout"`
}

// CacheConfig sizes the cache layers
type CacheConfig struct {
	EmbeddingSize     int           `mapstructure:"embedding-size"`
	QuerySize         int           `mapstructure:"query-size"`
	QueryTTL          time.Duration `mapstructure:"query-ttl"`
	QueryEmbeddingTTL time.Duration `mapstructure:"query-embedding-ttl"`
}

// ScoringConfig exposes the keyword-scoring weights and the confidence
// rescale ceiling as tunables.
type ScoringConfig struct {
	SkillMatch       float64 `mapstructure:"skill-match"`
	DomainMatch      float64 `mapstructure:"domain-match"`
	ExperienceMet    float64 `mapstructure:"experience-met"`
	ExperienceMissed float64 `mapstructure:"experience-missed"`
	MaxYearsMet      float64 `mapstructure:"max-years-met"`
	MaxYearsExceeded float64 `mapstructure:"max-years-exceeded"`
	Available        float64 `mapstructure:"available"`
	Busy             float64 `mapstructure:"busy"`

	MaxExpectedScore float64 `mapstructure:"max-expected-score"`
}

// RetrievalConfig bounds query shape and controls index prewarming
type RetrievalConfig struct {
	TopKMin int  `mapstructure:"top-k-min"`
	TopKMax int  `mapstructure:"top-k-max"`
	Prewarm bool `mapstructure:"prewarm"`
}

// IndexConfig selects the similarity index backend
type IndexConfig struct {
	Backend          string `mapstructure:"backend"`
	QdrantAddr       string `mapstructure:"qdrant-addr"`
	QdrantCollection string `mapstructure:"qdrant-collection"`
}

// SummaryConfig controls the generative summary step
type SummaryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Model     string        `mapstructure:"model"`
	CacheSize int           `mapstructure:"cache-size"`
	CacheTTL  time.Duration `mapstructure:"cache-ttl"`
}

// Weights converts the scoring section to scorer weights
func (s ScoringConfig) Weights() scorer.Weights {
	return scorer.Weights{
		SkillMatch:       s.SkillMatch,
		DomainMatch:      s.DomainMatch,
		ExperienceMet:    s.ExperienceMet,
		ExperienceMissed: s.ExperienceMissed,
		MaxYearsMet:      s.MaxYearsMet,
		MaxYearsExceeded: s.MaxYearsExceeded,
		Available:        s.Available,
		Busy:             s.Busy,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "talentsearch.db")

	v.SetDefault("providers.gemini.model", "gemini-embedding-001")
	v.SetDefault("providers.openai.model", "text-embedding-3-small")

	v.SetDefault("fallback.tiers", []string{embedder.ProviderGemini, embedder.ProviderOpenAI})
	v.SetDefault("fallback.tier-timeout", 10*time.Second)

	v.SetDefault("cache.embedding-size", 2048)
	v.SetDefault("cache.query-size", 1000)
	v.SetDefault("cache.query-ttl", 5*time.Minute)
	v.SetDefault("cache.query-embedding-ttl", time.Hour)

	defaults := scorer.DefaultWeights()
	v.SetDefault("scoring.skill-match", defaults.SkillMatch)
	v.SetDefault("scoring.domain-match", defaults.DomainMatch)
	v.SetDefault("scoring.experience-met", defaults.ExperienceMet)
	v.SetDefault("scoring.experience-missed", defaults.ExperienceMissed)
	v.SetDefault("scoring.max-years-met", defaults.MaxYearsMet)
	v.SetDefault("scoring.max-years-exceeded", defaults.MaxYearsExceeded)
	v.SetDefault("scoring.available", defaults.Available)
	v.SetDefault("scoring.busy", defaults.Busy)
	v.SetDefault("scoring.max-expected-score", 5.0)

	v.SetDefault("retrieval.top-k-min", pipeline.DefaultTopKMin)
	v.SetDefault("retrieval.top-k-max", pipeline.DefaultTopKMax)
	v.SetDefault("retrieval.prewarm", false)

	v.SetDefault("index.backend", IndexLinear)
	v.SetDefault("index.qdrant-addr", "localhost:6334")
	v.SetDefault("index.qdrant-collection", "candidates")

	v.SetDefault("summary.enabled", false)
	v.SetDefault("summary.cache-size", summarizer.DefaultSummaryCacheSize)
	v.SetDefault("summary.cache-ttl", summarizer.DefaultSummaryTTL)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"providers.gemini.api-key": embedder.EnvGeminiAPIKey,
		"providers.openai.api-key": embedder.EnvOpenAIAPIKey,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return nil
}

// Load reads configuration from path. An empty path loads defaults and
// environment variables only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Fallback.TierTimeout <= 0 {
		return errors.New("fallback.tier-timeout must be positive")
	}

	for _, tier := range c.Fallback.Tiers {
		switch tier {
		case embedder.ProviderGemini, embedder.ProviderOpenAI, embedder.ProviderLocal:
		default:
			return fmt.Errorf("unknown fallback tier %q", tier)
		}
	}

	switch c.Index.Backend {
	case IndexLinear:
	case IndexQdrant:
		if c.Index.QdrantAddr == "" {
			return errors.New("index.qdrant-addr required for the qdrant backend")
		}
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}

	if c.Scoring.MaxExpectedScore <= 0 {
		return errors.New("scoring.max-expected-score must be positive")
	}

	if c.Retrieval.TopKMin < 1 {
		return errors.New("retrieval.top-k-min must be at least 1")
	}
	if c.Retrieval.TopKMax < c.Retrieval.TopKMin {
		return errors.New("retrieval.top-k-max must not be below retrieval.top-k-min")
	}

	if c.Summary.CacheSize <= 0 {
		return errors.New("summary.cache-size must be positive")
	}
	if c.Summary.CacheTTL <= 0 {
		return errors.New("summary.cache-ttl must be positive")
	}
	return nil
}
