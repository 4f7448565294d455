// Package ranker fuses vector similarity and keyword scoring into one
// ranked, explained result list.
package ranker

import (
	"context"
	"math"
	"sort"

	"github.com/rosterhq/talentsearch/internal/index"
	"github.com/rosterhq/talentsearch/internal/scorer"
	"github.com/rosterhq/talentsearch/pkg/types"
)

// DefaultMaxExpectedScore is the empirical ceiling used to rescale a final
// score into a confidence percentage.
const DefaultMaxExpectedScore = 5.0

// Ranker combines index similarity with keyword scoring. Fusion is plain
// addition so a ranking can always be explained from its two inputs.
type Ranker struct {
	scorer      *scorer.Scorer
	maxExpected float64
}

// New creates a ranker. maxExpected caps the confidence rescale; values
// at or below zero fall back to the default.
func New(s *scorer.Scorer, maxExpected float64) *Ranker {
	if maxExpected <= 0 {
		maxExpected = DefaultMaxExpectedScore
	}
	return &Ranker{scorer: s, maxExpected: maxExpected}
}

// Rank scores every candidate and returns the top results. A nil query
// vector means the keyword-only tier: all similarity scores are zero and
// ordering rests on keyword evidence alone. Keyword scoring always runs,
// embedding tiers included, because lexical evidence complements the
// vector signal rather than replacing it.
func (r *Ranker) Rank(ctx context.Context, idx index.Index, queryVector *types.EmbeddingVector, parsed scorer.ParsedQuery, candidates []types.CandidateProfile, topK int) ([]types.SearchResult, error) {
	similarities := make(map[int64]float64, len(candidates))
	if queryVector != nil {
		hits, err := idx.Query(ctx, queryVector, 0)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			similarities[hit.CandidateID] = hit.Score
		}
	}

	type scored struct {
		result     types.SearchResult
		experience int
	}

	results := make([]scored, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		keywordScore, reasons := r.scorer.Score(parsed, candidate)
		similarity := similarities[candidate.ID]
		final := similarity + keywordScore

		if len(reasons) == 0 && similarity > 0 {
			// Never return an unexplained result
			reasons = []string{"Semantic match"}
		}

		results = append(results, scored{
			result: types.SearchResult{
				CandidateID:     candidate.ID,
				SimilarityScore: similarity,
				KeywordScore:    keywordScore,
				FinalScore:      final,
				Confidence:      r.confidence(final),
				MatchReasons:    reasons,
			},
			experience: candidate.ExperienceYears,
		})
	}

	// Deterministic order: score desc, experience desc, id asc
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.result.FinalScore != b.result.FinalScore {
			return a.result.FinalScore > b.result.FinalScore
		}
		if a.experience != b.experience {
			return a.experience > b.experience
		}
		return a.result.CandidateID < b.result.CandidateID
	})

	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}

	out := make([]types.SearchResult, len(results))
	for i := range results {
		out[i] = results[i].result
	}
	return out, nil
}

// confidence linearly rescales a final score against the expected maximum
// and clamps to [0, 100]. Monotonic by construction.
func (r *Ranker) confidence(finalScore float64) int {
	pct := int(math.Round(finalScore / r.maxExpected * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
