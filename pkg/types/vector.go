package types

// EmbeddingRole tells the provider whether the text being embedded is a
// corpus document (candidate profile) or a search query. Providers may
// encode the two differently, so vectors embedded under different roles
// must never be compared or share cache entries.
type EmbeddingRole string

const (
	RoleDocument EmbeddingRole = "document"
	RoleQuery    EmbeddingRole = "query"
)

// EmbeddingVector is a fixed-length embedding plus the metadata needed to
// keep vectors from different providers or roles apart.
type EmbeddingVector struct {
	Values         []float32
	Dimension      int
	Provider       string
	Model          string
	Role           EmbeddingRole
	SourceTextHash string // SHA-256 hex of the embedded text
}

// Validate checks internal consistency of the vector
func (v *EmbeddingVector) Validate() error {
	if len(v.Values) == 0 {
		return ErrEmptyVector
	}

	if v.Dimension != len(v.Values) {
		return ErrDimensionMismatch
	}

	if v.Provider == "" {
		return ErrMissingProvider
	}

	if v.Role != RoleDocument && v.Role != RoleQuery {
		return ErrInvalidRole
	}

	return nil
}

// Clone returns a deep copy; cached vectors are handed out as copies so
// caller mutations cannot pollute the cache.
func (v *EmbeddingVector) Clone() EmbeddingVector {
	out := *v
	out.Values = append([]float32(nil), v.Values...)
	return out
}
