package ranker

import (
	"context"
	"testing"

	"github.com/rosterhq/talentsearch/internal/index"
	"github.com/rosterhq/talentsearch/internal/scorer"
	"github.com/rosterhq/talentsearch/pkg/types"
)

func testRanker() *Ranker {
	return New(scorer.New(scorer.DefaultWeights()), DefaultMaxExpectedScore)
}

func testCorpus() []types.CandidateProfile {
	return []types.CandidateProfile{
		{
			ID: 1, Name: "Alice Chen",
			Skills:          []string{"python", "tensorflow"},
			ExperienceYears: 6,
			Projects:        []string{"X-ray Analysis"},
			Availability:    types.AvailabilityAvailable,
		},
		{
			ID: 2, Name: "Bob Singh",
			Skills:          []string{"java"},
			ExperienceYears: 3,
			Projects:        []string{"Billing System"},
			Availability:    types.AvailabilityAvailable,
		},
	}
}

func docVector(values []float32) types.EmbeddingVector {
	return types.EmbeddingVector{
		Values: values, Dimension: len(values), Provider: "local",
		Model: "test", Role: types.RoleDocument, SourceTextHash: "hash",
	}
}

func builtIndex(t *testing.T, entries []index.Entry) index.Index {
	t.Helper()
	idx := index.NewLinearIndex()
	if err := idx.Build(context.Background(), entries); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func TestRankKeywordOnly(t *testing.T) {
	r := testRanker()
	corpus := testCorpus()

	// Nil query vector = keyword-only tier
	results, err := r.Rank(context.Background(), index.NewLinearIndex(), nil,
		scorer.Parse("python machine learning healthcare"), corpus, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].CandidateID != 1 {
		t.Errorf("top result = %d, want 1", results[0].CandidateID)
	}
	for _, res := range results {
		if res.SimilarityScore != 0 {
			t.Errorf("candidate %d similarity = %f, want 0 in keyword tier", res.CandidateID, res.SimilarityScore)
		}
	}

	// Top result must carry both a skill and a domain reason
	var hasSkill, hasDomain bool
	for _, reason := range results[0].MatchReasons {
		switch reason {
		case "Skill match: python":
			hasSkill = true
		case "Domain match: healthcare":
			hasDomain = true
		}
	}
	if !hasSkill || !hasDomain {
		t.Errorf("reasons = %v, want python skill match and healthcare domain match", results[0].MatchReasons)
	}
}

func TestRankHybrid(t *testing.T) {
	r := testRanker()
	corpus := testCorpus()

	idx := builtIndex(t, []index.Entry{
		{CandidateID: 1, Vector: docVector([]float32{1, 0})},
		{CandidateID: 2, Vector: docVector([]float32{0, 1})},
	})

	queryVec := docVector([]float32{1, 0})
	queryVec.Role = types.RoleQuery

	results, err := r.Rank(context.Background(), idx, &queryVec,
		scorer.Parse("python developer"), corpus, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if results[0].CandidateID != 1 {
		t.Errorf("top result = %d, want 1", results[0].CandidateID)
	}
	if results[0].SimilarityScore <= results[1].SimilarityScore {
		t.Errorf("similarity not reflected: %f vs %f", results[0].SimilarityScore, results[1].SimilarityScore)
	}

	// Fusion is additive
	for _, res := range results {
		want := res.SimilarityScore + res.KeywordScore
		if res.FinalScore != want {
			t.Errorf("candidate %d final = %f, want %f", res.CandidateID, res.FinalScore, want)
		}
	}
}

func TestRankSemanticFallbackReason(t *testing.T) {
	r := testRanker()

	// No skills in common with the query and unavailable, so no keyword
	// reasons fire; similarity alone must still be explained
	corpus := []types.CandidateProfile{{
		ID: 1, Name: "Carol", Skills: []string{"cobol"},
		ExperienceYears: 10, Projects: nil,
		Availability: types.AvailabilityUnavailable,
	}}

	idx := builtIndex(t, []index.Entry{
		{CandidateID: 1, Vector: docVector([]float32{1, 0})},
	})
	queryVec := docVector([]float32{1, 0})
	queryVec.Role = types.RoleQuery

	results, err := r.Rank(context.Background(), idx, &queryVec,
		scorer.Parse("backend systems"), corpus, 1)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(results[0].MatchReasons) != 1 || results[0].MatchReasons[0] != "Semantic match" {
		t.Errorf("reasons = %v, want [Semantic match]", results[0].MatchReasons)
	}
}

func TestRankTieBreaks(t *testing.T) {
	r := testRanker()

	// Identical profiles except experience and id; no query evidence, so
	// all final scores tie at the availability bonus
	corpus := []types.CandidateProfile{
		{ID: 3, Name: "A", Skills: []string{"rust"}, ExperienceYears: 2, Availability: types.AvailabilityAvailable},
		{ID: 1, Name: "B", Skills: []string{"rust"}, ExperienceYears: 8, Availability: types.AvailabilityAvailable},
		{ID: 2, Name: "C", Skills: []string{"rust"}, ExperienceYears: 2, Availability: types.AvailabilityAvailable},
	}

	results, err := r.Rank(context.Background(), index.NewLinearIndex(), nil,
		scorer.Parse("embedded firmware"), corpus, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	// Experience desc first, then id asc
	want := []int64{1, 2, 3}
	for i, id := range want {
		if results[i].CandidateID != id {
			t.Errorf("results[%d] = %d, want %d", i, results[i].CandidateID, id)
		}
	}
}

func TestRankTruncation(t *testing.T) {
	r := testRanker()
	corpus := testCorpus()

	results, err := r.Rank(context.Background(), index.NewLinearIndex(), nil,
		scorer.Parse("python"), corpus, 1)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}

	// topK larger than the corpus returns everything
	results, err = r.Rank(context.Background(), index.NewLinearIndex(), nil,
		scorer.Parse("python"), corpus, 10)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestConfidenceMonotonicAndBounded(t *testing.T) {
	r := testRanker()

	prev := -1
	for _, score := range []float64{-2, 0, 0.5, 1.0, 2.5, 5.0, 50.0} {
		c := r.confidence(score)
		if c < 0 || c > 100 {
			t.Errorf("confidence(%f) = %d, out of [0,100]", score, c)
		}
		if c < prev {
			t.Errorf("confidence(%f) = %d, decreased from %d", score, c, prev)
		}
		prev = c
	}

	if got := r.confidence(DefaultMaxExpectedScore); got != 100 {
		t.Errorf("confidence at max expected = %d, want 100", got)
	}
	if got := r.confidence(DefaultMaxExpectedScore / 2); got != 50 {
		t.Errorf("confidence at half max = %d, want 50", got)
	}
}
