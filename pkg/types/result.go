package types

// SearchResult represents a single ranked candidate with scoring evidence.
// Results are created fresh per query and live only as long as the query
// cache entry that may hold them.
type SearchResult struct {
	CandidateID int64 `json:"candidate_id"`

	// Scoring
	SimilarityScore float64 `json:"similarity_score"` // raw vector similarity, zero in the keyword-only tier
	KeywordScore    float64 `json:"keyword_score"`    // non-negative lexical/domain score
	FinalScore      float64 `json:"final_score"`      // additive fusion, used for ranking
	Confidence      int     `json:"confidence"`       // 0-100, monotonic in FinalScore

	// MatchReasons explains the match, most specific evidence first
	MatchReasons []string `json:"match_reasons"`
}

// RetrievalOutcome wraps a ranked result list with provenance about how it
// was produced.
type RetrievalOutcome struct {
	Results []SearchResult `json:"results"`

	// TierUsed names the fallback tier that served the response
	// (an embedding provider name, or "keyword-only").
	TierUsed  string `json:"tier_used"`
	CacheHit  bool   `json:"cache_hit"`
	ElapsedMS int64  `json:"elapsed_ms"`

	// RequestID correlates log lines for one retrieval
	RequestID string `json:"request_id"`

	// AugmentationContext is the structured candidate summary handed to the
	// external text-generation collaborator.
	AugmentationContext string `json:"augmentation_context"`
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.CandidateID <= 0 {
		return ErrInvalidCandidateID
	}

	if sr.KeywordScore < 0 {
		return ErrNegativeKeywordScore
	}

	if sr.Confidence < 0 || sr.Confidence > 100 {
		return ErrConfidenceOutOfRange
	}

	return nil
}

// Clone returns a deep copy of the outcome. Outcomes are cloned on the way
// in and out of the query cache so callers can never mutate a cached entry.
func (o *RetrievalOutcome) Clone() *RetrievalOutcome {
	if o == nil {
		return nil
	}

	out := *o
	out.Results = make([]SearchResult, len(o.Results))
	for i, r := range o.Results {
		out.Results[i] = r
		out.Results[i].MatchReasons = append([]string(nil), r.MatchReasons...)
	}
	return &out
}
