package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/talentsearch/internal/embedder"
	"github.com/rosterhq/talentsearch/internal/pipeline"
	"github.com/rosterhq/talentsearch/internal/scorer"
	"github.com/rosterhq/talentsearch/internal/summarizer"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "talentsearch.db", cfg.Database.Path)
	assert.Equal(t, []string{embedder.ProviderGemini, embedder.ProviderOpenAI}, cfg.Fallback.Tiers)
	assert.Equal(t, 10*time.Second, cfg.Fallback.TierTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.QueryTTL)
	assert.Equal(t, time.Hour, cfg.Cache.QueryEmbeddingTTL)
	assert.Equal(t, IndexLinear, cfg.Index.Backend)
	assert.Equal(t, 5.0, cfg.Scoring.MaxExpectedScore)
	assert.Equal(t, scorer.DefaultWeights(), cfg.Scoring.Weights())
	assert.Equal(t, pipeline.DefaultTopKMin, cfg.Retrieval.TopKMin)
	assert.Equal(t, pipeline.DefaultTopKMax, cfg.Retrieval.TopKMax)
	assert.False(t, cfg.Summary.Enabled)
	assert.Equal(t, summarizer.DefaultSummaryCacheSize, cfg.Summary.CacheSize)
	assert.Equal(t, summarizer.DefaultSummaryTTL, cfg.Summary.CacheTTL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talentsearch.yaml")
	content := `
database:
  path: /var/lib/talentsearch/roster.db
fallback:
  tiers: [openai]
  tier-timeout: 3s
cache:
  query-ttl: 90s
scoring:
  domain-match: 2.5
retrieval:
  top-k-min: 2
  top-k-max: 50
index:
  backend: qdrant
  qdrant-addr: qdrant.internal:6334
summary:
  enabled: true
  model: gemini-2.0-flash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/talentsearch/roster.db", cfg.Database.Path)
	assert.Equal(t, []string{embedder.ProviderOpenAI}, cfg.Fallback.Tiers)
	assert.Equal(t, 3*time.Second, cfg.Fallback.TierTimeout)
	assert.Equal(t, 90*time.Second, cfg.Cache.QueryTTL)
	assert.Equal(t, 2.5, cfg.Scoring.Weights().DomainMatch)
	assert.Equal(t, 2, cfg.Retrieval.TopKMin)
	assert.Equal(t, 50, cfg.Retrieval.TopKMax)

	// Untouched keys keep their defaults
	assert.Equal(t, scorer.DefaultWeights().SkillMatch, cfg.Scoring.Weights().SkillMatch)
	assert.Equal(t, IndexQdrant, cfg.Index.Backend)
	assert.Equal(t, "qdrant.internal:6334", cfg.Index.QdrantAddr)
	assert.True(t, cfg.Summary.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(embedder.EnvGeminiAPIKey, "test-key-123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "test-key-123", cfg.Providers.Gemini.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero tier timeout", func(c *Config) { c.Fallback.TierTimeout = 0 }},
		{"unknown tier", func(c *Config) { c.Fallback.Tiers = []string{"cohere"} }},
		{"unknown index backend", func(c *Config) { c.Index.Backend = "annoy" }},
		{"qdrant without addr", func(c *Config) {
			c.Index.Backend = IndexQdrant
			c.Index.QdrantAddr = ""
		}},
		{"non-positive max expected score", func(c *Config) { c.Scoring.MaxExpectedScore = 0 }},
		{"top-k-min below one", func(c *Config) { c.Retrieval.TopKMin = 0 }},
		{"top-k-max below top-k-min", func(c *Config) {
			c.Retrieval.TopKMin = 10
			c.Retrieval.TopKMax = 5
		}},
		{"non-positive summary cache size", func(c *Config) { c.Summary.CacheSize = 0 }},
		{"non-positive summary cache ttl", func(c *Config) { c.Summary.CacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
