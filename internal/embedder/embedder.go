package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyText     = errors.New("text cannot be empty")
	ErrBatchTooLarge = errors.New("batch size exceeds limit")
	ErrNoProvider    = errors.New("no embedding provider configured")

	// ErrProviderUnavailable covers unreachable providers and rejected
	// requests (auth, quota, malformed input). Recovered by the fallback
	// orchestrator, never surfaced past tier exhaustion.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderTimeout is returned when a provider call exceeds its
	// configured deadline.
	ErrProviderTimeout = errors.New("embedding provider timed out")
)

// Provider names
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	// MaxBatchSize bounds a single batch call
	MaxBatchSize = 100
)

// Embedder turns texts into fixed-length vectors tagged with a role.
// Implementations batch where the underlying API supports it, preserve
// input order, and never retry internally; retry-across-providers is the
// fallback orchestrator's job. Implementations do not touch the durable
// embedding cache either, keeping the cache provider-agnostic.
type Embedder interface {
	// Embed generates one vector per input text, order-preserving.
	Embed(ctx context.Context, texts []string, role types.EmbeddingRole) ([]types.EmbeddingVector, error)

	// Dimension returns the embedding dimension for this provider
	Dimension() int

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// ComputeHash computes SHA-256 hash of text for cache keying
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ValidateBatch validates a batch of texts before embedding
func ValidateBatch(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}

	if len(texts) > MaxBatchSize {
		return fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}

	return nil
}

// Normalize scales a vector to unit length so inner product equals cosine
// similarity. Zero vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}

	return result
}
