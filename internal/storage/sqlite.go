package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rosterhq/talentsearch/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStore) querier() querier {
	return s.db
}

// Candidate operations

// upsertCandidateWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) upsertCandidateWithQuerier(ctx context.Context, q querier, candidate *types.CandidateProfile) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	skills, err := json.Marshal(candidate.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}
	projects, err := json.Marshal(candidate.Projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	query := `
		INSERT INTO candidates (id, name, skills, experience_years, projects, availability, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			skills = excluded.skills,
			experience_years = excluded.experience_years,
			projects = excluded.projects,
			availability = excluded.availability,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	_, err = q.ExecContext(ctx, query,
		candidate.ID, candidate.Name, string(skills), candidate.ExperienceYears,
		string(projects), string(candidate.Availability), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	return nil
}

func (s *SQLiteStore) UpsertCandidate(ctx context.Context, candidate *types.CandidateProfile) error {
	return s.upsertCandidateWithQuerier(ctx, s.querier(), candidate)
}

// UpsertCandidates writes a batch of candidates atomically. Either all rows
// land or none do.
func (s *SQLiteStore) UpsertCandidates(ctx context.Context, candidates []types.CandidateProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range candidates {
		if err := s.upsertCandidateWithQuerier(ctx, tx, &candidates[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// scanCandidate decodes a single candidate row
func scanCandidate(row interface{ Scan(...interface{}) error }) (*types.CandidateProfile, error) {
	var candidate types.CandidateProfile
	var skills, projects, availability string

	err := row.Scan(&candidate.ID, &candidate.Name, &skills,
		&candidate.ExperienceYears, &projects, &availability)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skills), &candidate.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills for candidate %d: %w", candidate.ID, err)
	}
	if err := json.Unmarshal([]byte(projects), &candidate.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects for candidate %d: %w", candidate.ID, err)
	}
	candidate.Availability = types.Availability(availability)

	return &candidate, nil
}

// getCandidateWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) getCandidateWithQuerier(ctx context.Context, q querier, id int64) (*types.CandidateProfile, error) {
	query := `
		SELECT id, name, skills, experience_years, projects, availability
		FROM candidates
		WHERE id = ?
	`
	candidate, err := scanCandidate(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *SQLiteStore) GetCandidate(ctx context.Context, id int64) (*types.CandidateProfile, error) {
	return s.getCandidateWithQuerier(ctx, s.querier(), id)
}

// listCandidatesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) listCandidatesWithQuerier(ctx context.Context, q querier) ([]types.CandidateProfile, error) {
	query := `
		SELECT id, name, skills, experience_years, projects, availability
		FROM candidates
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]types.CandidateProfile, 0)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *candidate)
	}
	return candidates, rows.Err()
}

func (s *SQLiteStore) ListCandidates(ctx context.Context) ([]types.CandidateProfile, error) {
	return s.listCandidatesWithQuerier(ctx, s.querier())
}

// deleteCandidateWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) deleteCandidateWithQuerier(ctx context.Context, q querier, id int64) error {
	query := `DELETE FROM candidates WHERE id = ?`
	_, err := q.ExecContext(ctx, query, id)
	return err
}

func (s *SQLiteStore) DeleteCandidate(ctx context.Context, id int64) error {
	return s.deleteCandidateWithQuerier(ctx, s.querier(), id)
}

// countCandidatesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) countCandidatesWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM candidates").Scan(&count)
	return count, err
}

func (s *SQLiteStore) CountCandidates(ctx context.Context) (int, error) {
	return s.countCandidatesWithQuerier(ctx, s.querier())
}

// Embedding cache operations

// putEmbeddingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) putEmbeddingWithQuerier(ctx context.Context, q querier, vector *types.EmbeddingVector, ttl time.Duration) error {
	if err := vector.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO embedding_cache (text_hash, role, provider, model, dimension, vector, ttl_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(text_hash, role, provider) DO UPDATE SET
			model = excluded.model,
			dimension = excluded.dimension,
			vector = excluded.vector,
			ttl_seconds = excluded.ttl_seconds,
			created_at = excluded.created_at
	`
	_, err := q.ExecContext(ctx, query,
		vector.SourceTextHash, string(vector.Role), vector.Provider, vector.Model,
		vector.Dimension, serializeVector(vector.Values), int64(ttl.Seconds()), time.Now())
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	return nil
}

func (s *SQLiteStore) PutEmbedding(ctx context.Context, vector *types.EmbeddingVector, ttl time.Duration) error {
	return s.putEmbeddingWithQuerier(ctx, s.querier(), vector, ttl)
}

// getEmbeddingWithQuerier looks up a cached embedding. Expiry is lazy: an
// expired row reads as ErrNotFound and is deleted. A blob that does not
// decode reads as types.ErrCacheCorrupt and the row is deleted so the next
// write repopulates it.
func (s *SQLiteStore) getEmbeddingWithQuerier(ctx context.Context, q querier, textHash string, role types.EmbeddingRole, provider string) (*types.EmbeddingVector, error) {
	query := `
		SELECT model, dimension, vector, ttl_seconds, created_at
		FROM embedding_cache
		WHERE text_hash = ? AND role = ? AND provider = ?
	`
	var model string
	var dimension int
	var blob []byte
	var ttlSeconds int64
	var createdAt time.Time

	err := q.QueryRowContext(ctx, query, textHash, string(role), provider).Scan(
		&model, &dimension, &blob, &ttlSeconds, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if ttlSeconds > 0 && time.Since(createdAt) > time.Duration(ttlSeconds)*time.Second {
		_ = s.deleteEmbeddingWithQuerier(ctx, q, textHash, role, provider)
		return nil, ErrNotFound
	}

	values, err := deserializeVector(blob, dimension)
	if err != nil {
		_ = s.deleteEmbeddingWithQuerier(ctx, q, textHash, role, provider)
		return nil, err
	}

	return &types.EmbeddingVector{
		Values:         values,
		Dimension:      dimension,
		Provider:       provider,
		Model:          model,
		Role:           role,
		SourceTextHash: textHash,
	}, nil
}

func (s *SQLiteStore) GetEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) (*types.EmbeddingVector, error) {
	return s.getEmbeddingWithQuerier(ctx, s.querier(), textHash, role, provider)
}

// deleteEmbeddingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) deleteEmbeddingWithQuerier(ctx context.Context, q querier, textHash string, role types.EmbeddingRole, provider string) error {
	query := `DELETE FROM embedding_cache WHERE text_hash = ? AND role = ? AND provider = ?`
	_, err := q.ExecContext(ctx, query, textHash, string(role), provider)
	return err
}

func (s *SQLiteStore) DeleteEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) error {
	return s.deleteEmbeddingWithQuerier(ctx, s.querier(), textHash, role, provider)
}

// purgeExpiredWithQuerier removes all expired cache rows in one statement.
// Each row carries its own ttl, so the age comparison happens in SQL via
// julianday arithmetic.
func (s *SQLiteStore) purgeExpiredWithQuerier(ctx context.Context, q querier) (int, error) {
	query := `
		DELETE FROM embedding_cache
		WHERE ttl_seconds > 0
		  AND (julianday(?) - julianday(created_at)) * 86400.0 > ttl_seconds
	`
	result, err := q.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired embeddings: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int, error) {
	return s.purgeExpiredWithQuerier(ctx, s.querier())
}

// countEmbeddingsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) countEmbeddingsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM embedding_cache").Scan(&count)
	return count, err
}

func (s *SQLiteStore) CountEmbeddings(ctx context.Context) (int, error) {
	return s.countEmbeddingsWithQuerier(ctx, s.querier())
}

// Transaction implementations - delegate to the store using the tx querier

func (t *sqliteTx) UpsertCandidate(ctx context.Context, candidate *types.CandidateProfile) error {
	return t.store.upsertCandidateWithQuerier(ctx, t.querier(), candidate)
}

func (t *sqliteTx) UpsertCandidates(ctx context.Context, candidates []types.CandidateProfile) error {
	for i := range candidates {
		if err := t.store.upsertCandidateWithQuerier(ctx, t.querier(), &candidates[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqliteTx) GetCandidate(ctx context.Context, id int64) (*types.CandidateProfile, error) {
	return t.store.getCandidateWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) ListCandidates(ctx context.Context) ([]types.CandidateProfile, error) {
	return t.store.listCandidatesWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) DeleteCandidate(ctx context.Context, id int64) error {
	return t.store.deleteCandidateWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) CountCandidates(ctx context.Context) (int, error) {
	return t.store.countCandidatesWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) PutEmbedding(ctx context.Context, vector *types.EmbeddingVector, ttl time.Duration) error {
	return t.store.putEmbeddingWithQuerier(ctx, t.querier(), vector, ttl)
}

func (t *sqliteTx) GetEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) (*types.EmbeddingVector, error) {
	return t.store.getEmbeddingWithQuerier(ctx, t.querier(), textHash, role, provider)
}

func (t *sqliteTx) DeleteEmbedding(ctx context.Context, textHash string, role types.EmbeddingRole, provider string) error {
	return t.store.deleteEmbeddingWithQuerier(ctx, t.querier(), textHash, role, provider)
}

func (t *sqliteTx) PurgeExpired(ctx context.Context) (int, error) {
	return t.store.purgeExpiredWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) CountEmbeddings(ctx context.Context) (int, error) {
	return t.store.countEmbeddingsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
