package embedder

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Environment variable names for provider credentials
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config holds provider configuration
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	Dimension int
}

// New creates an embedder with explicit configuration
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Dimension)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Dimension)
	case ProviderLocal:
		return NewLocalProvider(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNoProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider that would be picked from the current
// environment: Gemini if its key is set, then OpenAI, else local.
func DetectProvider() string {
	if os.Getenv(EnvGeminiAPIKey) != "" {
		return ProviderGemini
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}

// NewFromEnv creates an embedder based on available API keys
func NewFromEnv(ctx context.Context) (Embedder, error) {
	switch DetectProvider() {
	case ProviderGemini:
		return NewGeminiProvider(ctx, os.Getenv(EnvGeminiAPIKey), "", 0)
	case ProviderOpenAI:
		return NewOpenAIProvider(os.Getenv(EnvOpenAIAPIKey), "", 0)
	default:
		return NewLocalProvider(), nil
	}
}
