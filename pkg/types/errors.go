package types

import "errors"

// Domain errors shared across the retrieval engine
var (
	// Candidate validation errors
	ErrInvalidCandidateID  = errors.New("invalid candidate ID")
	ErrEmptyCandidateName  = errors.New("candidate name cannot be empty")
	ErrNegativeExperience  = errors.New("experience years must be non-negative")
	ErrInvalidAvailability = errors.New("unknown availability state")

	// Embedding vector errors
	ErrEmptyVector       = errors.New("embedding vector is empty")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrMissingProvider   = errors.New("vector provider is required")
	ErrInvalidRole       = errors.New("embedding role must be document or query")

	// Search result errors
	ErrNegativeKeywordScore = errors.New("keyword score must be non-negative")
	ErrConfidenceOutOfRange = errors.New("confidence must be between 0 and 100")

	// Retrieval errors surfaced to the host
	ErrInvalidQuery  = errors.New("invalid query")
	ErrIndexNotReady = errors.New("similarity index not ready")

	// ErrCacheCorrupt marks a cache read that failed to deserialize.
	// Callers treat it as a miss and log it; it is never fatal.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
)
