package integration

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/rosterhq/talentsearch/internal/embedder"
	"github.com/rosterhq/talentsearch/pkg/types"
)

// MockEmbedder is a deterministic fake provider: vectors derive from the
// text hash, so equal texts always embed identically. FailWith injects
// provider failures for fallback tests.
type MockEmbedder struct {
	mu        sync.Mutex
	dimension int
	provider  string
	calls     int

	FailWith error
}

// NewMockEmbedder creates a mock provider with the given name
func NewMockEmbedder(provider string, dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &MockEmbedder{provider: provider, dimension: dimension}
}

// Embed generates deterministic unit vectors from text hashes
func (m *MockEmbedder) Embed(ctx context.Context, texts []string, role types.EmbeddingRole) ([]types.EmbeddingVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if err := embedder.ValidateBatch(texts); err != nil {
		return nil, err
	}

	vectors := make([]types.EmbeddingVector, len(texts))
	for i, text := range texts {
		hash := sha256.Sum256([]byte(text))
		values := make([]float32, m.dimension)
		for j := range values {
			idx := (j * 4) % 28
			val := binary.BigEndian.Uint32(hash[idx : idx+4])
			values[j] = (float32(val)/float32(1<<32))*2 - 1
		}
		vectors[i] = types.EmbeddingVector{
			Values:         embedder.Normalize(values),
			Dimension:      m.dimension,
			Provider:       m.provider,
			Model:          "mock-v1",
			Role:           role,
			SourceTextHash: embedder.ComputeHash(text),
		}
	}
	return vectors, nil
}

// Dimension returns the configured vector dimension
func (m *MockEmbedder) Dimension() int { return m.dimension }

// Provider returns the configured provider name
func (m *MockEmbedder) Provider() string { return m.provider }

// Model returns the mock model identifier
func (m *MockEmbedder) Model() string { return "mock-v1" }

// Close is a no-op
func (m *MockEmbedder) Close() error { return nil }

// Calls returns how many Embed invocations the provider has served
func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
