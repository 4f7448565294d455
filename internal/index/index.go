// Package index holds the in-memory vector indexes the ranker queries.
// An index is built once per corpus version and is read-only afterwards;
// corpus changes produce a new index rather than mutating a live one.
package index

import (
	"context"
	"errors"

	"github.com/rosterhq/talentsearch/pkg/types"
)

var (
	// ErrNotBuilt is returned when querying an index before Build
	ErrNotBuilt = errors.New("index not built")
	// ErrMixedVectors is returned when entries mix dimensions or providers
	ErrMixedVectors = errors.New("entries mix dimensions or providers")
)

// Entry pairs a candidate with its document embedding
type Entry struct {
	CandidateID int64
	Vector      types.EmbeddingVector
}

// Hit is a scored candidate from a vector query
type Hit struct {
	CandidateID int64
	Score       float64
}

// Index answers nearest-neighbor queries over document embeddings.
// Implementations must order hits by score descending with ascending
// candidate id breaking ties, so rankings stay deterministic.
type Index interface {
	// Build loads the index from entries. All entries must share a
	// dimension and provider.
	Build(ctx context.Context, entries []Entry) error

	// Query returns up to limit hits for the query vector
	Query(ctx context.Context, vector *types.EmbeddingVector, limit int) ([]Hit, error)

	// Len returns the number of indexed entries
	Len() int
}

// validateEntries checks that a build batch is internally consistent
func validateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dimension := entries[0].Vector.Dimension
	provider := entries[0].Vector.Provider
	for i := range entries {
		if err := entries[i].Vector.Validate(); err != nil {
			return err
		}
		if entries[i].Vector.Role != types.RoleDocument {
			return types.ErrInvalidRole
		}
		if entries[i].Vector.Dimension != dimension || entries[i].Vector.Provider != provider {
			return ErrMixedVectors
		}
	}
	return nil
}
