package index

import (
	"context"
	"math"
	"sort"
	"sync/atomic"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// LinearIndex is a brute-force cosine scan. For rosters in the hundreds to
// low thousands this beats an ANN service on latency and has no moving
// parts, so it is the default backend.
type LinearIndex struct {
	snapshot atomic.Pointer[linearSnapshot]
}

// linearSnapshot holds the entries together with the vector shape they
// were built from. Build publishes a whole snapshot at once, so queries
// never see entries from one build paired with the shape of another.
type linearSnapshot struct {
	entries   []Entry
	dimension int
	provider  string
}

// NewLinearIndex creates an empty linear index
func NewLinearIndex() *LinearIndex {
	return &LinearIndex{}
}

// Build loads the index. Entries are copied so later caller mutations do
// not leak into query results.
func (l *LinearIndex) Build(ctx context.Context, entries []Entry) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	snap := &linearSnapshot{entries: make([]Entry, len(entries))}
	for i := range entries {
		snap.entries[i] = Entry{
			CandidateID: entries[i].CandidateID,
			Vector:      entries[i].Vector.Clone(),
		}
	}

	if len(snap.entries) > 0 {
		snap.dimension = snap.entries[0].Vector.Dimension
		snap.provider = snap.entries[0].Vector.Provider
	}
	l.snapshot.Store(snap)
	return nil
}

// Query scans all entries and returns the top hits by cosine similarity,
// score descending, ascending candidate id on ties.
func (l *LinearIndex) Query(ctx context.Context, vector *types.EmbeddingVector, limit int) ([]Hit, error) {
	snap := l.snapshot.Load()
	if snap == nil {
		return nil, ErrNotBuilt
	}

	if err := vector.Validate(); err != nil {
		return nil, err
	}
	if len(snap.entries) > 0 && (vector.Dimension != snap.dimension || vector.Provider != snap.provider) {
		return nil, types.ErrDimensionMismatch
	}

	hits := make([]Hit, 0, len(snap.entries))
	for i := range snap.entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			CandidateID: snap.entries[i].CandidateID,
			Score:       cosineSimilarity(vector.Values, snap.entries[i].Vector.Values),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].CandidateID < hits[j].CandidateID
	})

	if limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

// Len returns the number of indexed entries
func (l *LinearIndex) Len() int {
	snap := l.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
