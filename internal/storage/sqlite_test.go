package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/talentsearch/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	// Use in-memory database for testing
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	return store
}

func testCandidate(id int64) types.CandidateProfile {
	return types.CandidateProfile{
		ID:              id,
		Name:            "Alice Chen",
		Skills:          []string{"python", "machine learning", "tensorflow"},
		ExperienceYears: 6,
		Projects:        []string{"Medical imaging diagnosis platform"},
		Availability:    types.AvailabilityAvailable,
	}
}

func TestNewSQLiteStore(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	assert.NotNil(t, store)
	assert.NotNil(t, store.db)
}

func TestClose(t *testing.T) {
	store := setupTestDB(t)
	err := store.Close()
	assert.NoError(t, err)
}

func TestUpsertCandidate(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	candidate := testCandidate(1)

	err := store.UpsertCandidate(ctx, &candidate)
	require.NoError(t, err)

	retrieved, err := store.GetCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, candidate.Name, retrieved.Name)
	assert.Equal(t, candidate.Skills, retrieved.Skills)
	assert.Equal(t, candidate.ExperienceYears, retrieved.ExperienceYears)
	assert.Equal(t, candidate.Projects, retrieved.Projects)
	assert.Equal(t, candidate.Availability, retrieved.Availability)

	// Upsert with the same id replaces the row
	candidate.Name = "Alice Chen-Park"
	candidate.Availability = types.AvailabilityBusy
	err = store.UpsertCandidate(ctx, &candidate)
	require.NoError(t, err)

	retrieved, err = store.GetCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen-Park", retrieved.Name)
	assert.Equal(t, types.AvailabilityBusy, retrieved.Availability)

	count, err := store.CountCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertCandidate_Invalid(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()

	invalid := testCandidate(1)
	invalid.Name = ""
	err := store.UpsertCandidate(ctx, &invalid)
	assert.ErrorIs(t, err, types.ErrEmptyCandidateName)

	invalid = testCandidate(0)
	err = store.UpsertCandidate(ctx, &invalid)
	assert.ErrorIs(t, err, types.ErrInvalidCandidateID)
}

func TestUpsertCandidates_Atomic(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	bad := testCandidate(2)
	bad.ExperienceYears = -1

	err := store.UpsertCandidates(ctx, []types.CandidateProfile{testCandidate(1), bad})
	require.Error(t, err)

	// The valid row must not have landed
	count, err := store.CountCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetCandidate_NotFound(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	_, err := store.GetCandidate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCandidates(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()

	list, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.UpsertCandidates(ctx, []types.CandidateProfile{
		testCandidate(3), testCandidate(1), testCandidate(2),
	}))

	list, err = store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
	assert.Equal(t, int64(3), list[2].ID)
}

func TestDeleteCandidate(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	candidate := testCandidate(1)
	require.NoError(t, store.UpsertCandidate(ctx, &candidate))

	require.NoError(t, store.DeleteCandidate(ctx, 1))

	_, err := store.GetCandidate(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testVector(hash string, role types.EmbeddingRole) *types.EmbeddingVector {
	return &types.EmbeddingVector{
		Values:         []float32{0.1, -0.5, 0.9},
		Dimension:      3,
		Provider:       "gemini",
		Model:          "gemini-embedding-001",
		Role:           role,
		SourceTextHash: hash,
	}
}

func TestPutGetEmbedding(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	vec := testVector("hash-a", types.RoleDocument)

	err := store.PutEmbedding(ctx, vec, 0)
	require.NoError(t, err)

	got, err := store.GetEmbedding(ctx, "hash-a", types.RoleDocument, "gemini")
	require.NoError(t, err)
	assert.Equal(t, vec.Values, got.Values)
	assert.Equal(t, vec.Dimension, got.Dimension)
	assert.Equal(t, vec.Model, got.Model)
	assert.Equal(t, types.RoleDocument, got.Role)
}

func TestGetEmbedding_KeyIsolation(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PutEmbedding(ctx, testVector("hash-a", types.RoleDocument), 0))

	// Same hash, different role: miss
	_, err := store.GetEmbedding(ctx, "hash-a", types.RoleQuery, "gemini")
	assert.ErrorIs(t, err, ErrNotFound)

	// Same hash and role, different provider: miss
	_, err = store.GetEmbedding(ctx, "hash-a", types.RoleDocument, "openai")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEmbedding_Expired(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PutEmbedding(ctx, testVector("hash-a", types.RoleQuery), time.Second))

	// Fresh entry hits
	_, err := store.GetEmbedding(ctx, "hash-a", types.RoleQuery, "gemini")
	require.NoError(t, err)

	// Backdate past the ttl
	_, err = store.db.ExecContext(ctx,
		"UPDATE embedding_cache SET created_at = ? WHERE text_hash = ?",
		time.Now().Add(-2*time.Second), "hash-a")
	require.NoError(t, err)

	_, err = store.GetEmbedding(ctx, "hash-a", types.RoleQuery, "gemini")
	assert.ErrorIs(t, err, ErrNotFound)

	// The lazy read also removed the row
	count, err := store.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetEmbedding_CorruptBlob(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PutEmbedding(ctx, testVector("hash-a", types.RoleDocument), 0))

	// Truncate the blob so it no longer matches the recorded dimension
	_, err := store.db.ExecContext(ctx,
		"UPDATE embedding_cache SET vector = ? WHERE text_hash = ?",
		[]byte{1, 2, 3, 4}, "hash-a")
	require.NoError(t, err)

	_, err = store.GetEmbedding(ctx, "hash-a", types.RoleDocument, "gemini")
	assert.True(t, errors.Is(err, types.ErrCacheCorrupt))

	// Corrupt row was dropped so the next write heals it
	count, err := store.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.PutEmbedding(ctx, testVector("hash-a", types.RoleDocument), 0))
	_, err = store.GetEmbedding(ctx, "hash-a", types.RoleDocument, "gemini")
	assert.NoError(t, err)
}

func TestPurgeExpired(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PutEmbedding(ctx, testVector("keep-forever", types.RoleDocument), 0))
	require.NoError(t, store.PutEmbedding(ctx, testVector("keep-fresh", types.RoleDocument), time.Hour))
	require.NoError(t, store.PutEmbedding(ctx, testVector("expired", types.RoleDocument), time.Second))

	_, err := store.db.ExecContext(ctx,
		"UPDATE embedding_cache SET created_at = ? WHERE text_hash = ?",
		time.Now().Add(-time.Minute), "expired")
	require.NoError(t, err)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	count, err := store.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSerializeDeserializeVector(t *testing.T) {
	original := []float32{0.0, 1.5, -2.25, 3.14159}

	blob := serializeVector(original)
	assert.Len(t, blob, len(original)*4)

	restored, err := deserializeVector(blob, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestDeserializeVector_BadBlob(t *testing.T) {
	_, err := deserializeVector([]byte{1, 2, 3}, 1)
	assert.ErrorIs(t, err, types.ErrCacheCorrupt)

	_, err = deserializeVector([]byte{1, 2, 3, 4}, 2)
	assert.ErrorIs(t, err, types.ErrCacheCorrupt)
}

func TestTransaction(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	candidate := testCandidate(1)
	require.NoError(t, tx.UpsertCandidate(ctx, &candidate))
	require.NoError(t, tx.Rollback())

	_, err = store.GetCandidate(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertCandidate(ctx, &candidate))
	require.NoError(t, tx.Commit())

	_, err = store.GetCandidate(ctx, 1)
	assert.NoError(t, err)
}

func TestNestedTransaction(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}
