package fallback

import (
	"sync"

	"github.com/rosterhq/talentsearch/internal/index"
	"github.com/rosterhq/talentsearch/pkg/types"
)

// Corpus is an immutable snapshot of the roster plus per-tier indexes.
// Candidates and document texts never change after construction; a roster
// edit produces a new Corpus with a new version. Indexes are built lazily
// the first time a tier serves a query against this version, so document
// embeddings happen at most once per corpus version per tier.
type Corpus struct {
	Version    string
	Candidates []types.CandidateProfile
	DocTexts   []string

	mu      sync.Mutex
	indexes map[string]index.Index
}

// NewCorpus creates a corpus snapshot. docTexts must align one-to-one
// with candidates.
func NewCorpus(version string, candidates []types.CandidateProfile, docTexts []string) *Corpus {
	return &Corpus{
		Version:    version,
		Candidates: candidates,
		DocTexts:   docTexts,
		indexes:    make(map[string]index.Index),
	}
}

// Len returns the number of candidates in the snapshot
func (c *Corpus) Len() int {
	return len(c.Candidates)
}

// indexFor returns the built index for a tier, if any
func (c *Corpus) indexFor(tier string) (index.Index, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.indexes[tier]
	return idx, ok
}

// setIndex records a built index for a tier
func (c *Corpus) setIndex(tier string, idx index.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[tier] = idx
}
