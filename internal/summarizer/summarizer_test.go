package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rosterhq/talentsearch/pkg/types"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Close() error { return nil }

func testProfiles() map[int64]*types.CandidateProfile {
	return map[int64]*types.CandidateProfile{
		1: {ID: 1, Name: "Alice Chen", Skills: []string{"python", "tensorflow"}, ExperienceYears: 6,
			Availability: types.AvailabilityAvailable},
		2: {ID: 2, Name: "Bob Singh", Skills: []string{"java"}, ExperienceYears: 3,
			Availability: types.AvailabilityAvailable},
	}
}

func testOutcome() *types.RetrievalOutcome {
	return &types.RetrievalOutcome{
		Results: []types.SearchResult{
			{CandidateID: 1, FinalScore: 3.41, MatchReasons: []string{"Skill match: python"}},
			{CandidateID: 2, FinalScore: 0.12},
		},
		AugmentationContext: "Candidate 1: Alice Chen",
		RequestID:           "req-1",
	}
}

func TestSummarizeUsesGenerator(t *testing.T) {
	gen := &stubGenerator{response: "Alice is your best match."}
	s := New(Config{Generator: gen})

	got := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	if got != "Alice is your best match." {
		t.Fatalf("unexpected message: %q", got)
	}

	if !strings.Contains(gen.prompt, `User Query: "python developer"`) {
		t.Errorf("prompt missing query: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Candidate 1: Alice Chen") {
		t.Errorf("prompt missing context: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "comprehensive summary") {
		t.Errorf("prompt missing instruction: %q", gen.prompt)
	}
}

func TestSummarizeReusesGeneratedSummary(t *testing.T) {
	gen := &stubGenerator{response: "Alice is your best match."}
	s := New(Config{Generator: gen})

	first := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	gen.response = "changed"
	second := s.Summarize(context.Background(), "Python   Developer", testOutcome(), testProfiles())

	if first != second {
		t.Fatalf("expected cached summary, got %q then %q", first, second)
	}

	// A different result set misses the cache
	other := testOutcome()
	other.Results = other.Results[:1]
	third := s.Summarize(context.Background(), "python developer", other, testProfiles())
	if third != "changed" {
		t.Fatalf("expected fresh summary, got %q", third)
	}
}

func TestSummarizeRespectsConfiguredTTL(t *testing.T) {
	gen := &stubGenerator{response: "Alice is your best match."}
	s := New(Config{Generator: gen, CacheTTL: time.Nanosecond})

	s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	gen.response = "changed"
	time.Sleep(time.Millisecond)

	got := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	if got != "changed" {
		t.Fatalf("expected expired entry to regenerate, got %q", got)
	}
}

func TestSummarizeRespectsConfiguredCacheSize(t *testing.T) {
	gen := &stubGenerator{response: "first"}
	s := New(Config{Generator: gen, CacheSize: 1})

	s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	s.Summarize(context.Background(), "java developer", testOutcome(), testProfiles())
	gen.response = "second"

	got := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	if got != "second" {
		t.Fatalf("expected evicted entry to regenerate, got %q", got)
	}
}

func TestSummarizeFallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	s := New(Config{Generator: gen})

	got := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())
	if !strings.Contains(got, "I've identified 2 candidates") {
		t.Fatalf("expected fallback format, got: %q", got)
	}
}

func TestSummarizeWithoutGenerator(t *testing.T) {
	s := New(Config{})

	got := s.Summarize(context.Background(), "python developer", testOutcome(), testProfiles())

	for _, want := range []string{
		"I've identified 2 candidates",
		"1. Alice Chen - 6 years (Score: 3.41)",
		"   - Skills: python, tensorflow",
		"   - Match Reasons: Skill match: python",
		"2. Bob Singh - 3 years (Score: 0.12)",
		"Would you like more specific information",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q:\n%s", want, got)
		}
	}
}

func TestSummarizeNoResults(t *testing.T) {
	s := New(Config{})

	got := s.Summarize(context.Background(), "cobol wizard", &types.RetrievalOutcome{}, nil)
	if !strings.Contains(got, "I wasn't able to find candidates") {
		t.Fatalf("expected no-candidates message, got: %q", got)
	}
	if !strings.Contains(got, "Try broader search terms") {
		t.Errorf("message missing suggestions: %q", got)
	}
}

func TestFallbackMessageSingular(t *testing.T) {
	profiles := testProfiles()
	results := []types.SearchResult{{CandidateID: 1, FinalScore: 2.0}}

	got := FallbackMessage(results, profiles)
	if !strings.Contains(got, "I've identified 1 candidate for") {
		t.Fatalf("expected singular phrasing, got: %q", got)
	}
}

func TestFallbackMessageTruncatesFields(t *testing.T) {
	skills := make([]string, 20)
	for i := range skills {
		skills[i] = "someskill"
	}
	reasons := make([]string, 9)
	for i := range reasons {
		reasons[i] = "somereason"
	}
	profiles := map[int64]*types.CandidateProfile{
		1: {ID: 1, Name: "Max", Skills: skills, ExperienceYears: 1, Availability: types.AvailabilityAvailable},
	}

	got := FallbackMessage([]types.SearchResult{{CandidateID: 1, MatchReasons: reasons}}, profiles)
	if n := strings.Count(got, "someskill"); n != maxMessageSkills {
		t.Errorf("skill count = %d, want %d", n, maxMessageSkills)
	}
	if n := strings.Count(got, "somereason"); n != maxMessageReasons {
		t.Errorf("reason count = %d, want %d", n, maxMessageReasons)
	}
}

func TestFallbackMessageSkipsUnknownCandidates(t *testing.T) {
	results := []types.SearchResult{{CandidateID: 99, FinalScore: 1.0}}

	got := FallbackMessage(results, testProfiles())
	if !strings.Contains(got, "I wasn't able to find candidates") {
		t.Fatalf("expected no-candidates message, got: %q", got)
	}
}
