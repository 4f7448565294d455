package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/rosterhq/talentsearch/pkg/types"
)

const LocalDimension = 384

// LocalProvider is a deterministic, keyless embedder. Vectors are derived
// from the text hash, so the same text always maps to the same unit vector
// regardless of role. Useful for development and as the lowest embedding
// tier when no API key is configured.
type LocalProvider struct {
	model string
}

// NewLocalProvider creates a local embedder
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{model: "local-hash-v1"}
}

func (l *LocalProvider) Embed(ctx context.Context, texts []string, role types.EmbeddingRole) ([]types.EmbeddingVector, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	vectors := make([]types.EmbeddingVector, len(texts))
	for i, text := range texts {
		vectors[i] = types.EmbeddingVector{
			Values:         localVector(text),
			Dimension:      LocalDimension,
			Provider:       ProviderLocal,
			Model:          l.model,
			Role:           role,
			SourceTextHash: ComputeHash(text),
		}
	}

	return vectors, nil
}

// localVector derives a pseudo-random but deterministic unit vector from
// the text hash.
func localVector(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vector := make([]float32, LocalDimension)

	for i := 0; i < LocalDimension; i++ {
		idx := (i * 4) % (len(hash) - 4)
		val := binary.BigEndian.Uint32(hash[idx : idx+4])
		// Rotate the hash per lane so lanes differ
		val = val ^ uint32(i*2654435761)
		vector[i] = (float32(val)/float32(1<<32))*2 - 1
	}

	return Normalize(vector)
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}
