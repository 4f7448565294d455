package storage

import (
	"context"
	"time"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// Store defines the interface for persisting the candidate roster and the
// durable layer of the embedding cache
type Store interface {
	// Candidate operations
	UpsertCandidate(ctx context.Context, candidate *types.CandidateProfile) error
	UpsertCandidates(ctx context.Context, candidates []types.CandidateProfile) error
	GetCandidate(ctx context.Context, id int64) (*types.CandidateProfile, error)
	ListCandidates(ctx context.Context) ([]types.CandidateProfile, error)
	DeleteCandidate(ctx context.Context, id int64) error
	CountCandidates(ctx context.Context) (int, error)

	// Embedding cache operations. Keys are (text hash, role, provider);
	// a lookup under a different role or provider is a miss, never a
	// cross-read. GetEmbedding returns ErrNotFound for missing or expired
	// entries and types.ErrCacheCorrupt when the stored blob cannot be
	// decoded (the corrupt row is dropped so the next write heals it).
	PutEmbedding(ctx context.Context, vector *types.EmbeddingVector, ttl time.Duration) error
	GetEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) (*types.EmbeddingVector, error)
	DeleteEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) error
	PurgeExpired(ctx context.Context) (int, error)
	CountEmbeddings(ctx context.Context) (int, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Store // Embed Store interface for transaction operations
}
