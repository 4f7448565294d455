package querycache

import (
	"testing"
	"time"

	"github.com/rosterhq/talentsearch/pkg/types"
)

func testOutcome() *types.RetrievalOutcome {
	return &types.RetrievalOutcome{
		Results: []types.SearchResult{{
			CandidateID:  1,
			FinalScore:   1.5,
			Confidence:   30,
			MatchReasons: []string{"Skill match: python"},
		}},
		TierUsed:  "gemini",
		RequestID: "req-1",
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Python Developer", "python developer"},
		{"  python   developer  ", "python developer"},
		{"PYTHON\t\nDEVELOPER", "python developer"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyEquivalence(t *testing.T) {
	// Same normalized query and top_k share a key
	if Key("Python Dev", 5) != Key("python  dev", 5) {
		t.Error("normalized-equal queries should share a key")
	}
	// Different top_k means a different key
	if Key("python dev", 5) == Key("python dev", 10) {
		t.Error("top_k must be part of the key")
	}
	if Key("python dev", 5) == Key("java dev", 5) {
		t.Error("different queries must not collide")
	}
}

func TestGetPut(t *testing.T) {
	cache := New(10, time.Minute)

	if _, ok := cache.Get("python dev", 5); ok {
		t.Error("expected miss on empty cache")
	}

	cache.Put("python dev", 5, testOutcome())

	got, ok := cache.Get("Python  Dev", 5)
	if !ok {
		t.Fatal("expected hit for normalized-equal query")
	}
	if got.TierUsed != "gemini" || len(got.Results) != 1 {
		t.Errorf("got %+v, want cached outcome", got)
	}

	if _, ok := cache.Get("python dev", 10); ok {
		t.Error("different top_k should miss")
	}
}

func TestDeepCopy(t *testing.T) {
	cache := New(10, time.Minute)
	cache.Put("python dev", 5, testOutcome())

	first, ok := cache.Get("python dev", 5)
	if !ok {
		t.Fatal("expected hit")
	}
	first.Results[0].MatchReasons[0] = "mutated"
	first.Results[0].CandidateID = 99

	second, ok := cache.Get("python dev", 5)
	if !ok {
		t.Fatal("expected hit")
	}
	if second.Results[0].MatchReasons[0] != "Skill match: python" {
		t.Error("cached outcome was mutated through a returned copy")
	}
	if second.Results[0].CandidateID != 1 {
		t.Error("cached result id was mutated through a returned copy")
	}
}

func TestTTLExpiry(t *testing.T) {
	cache := New(10, 30*time.Millisecond)
	cache.Put("python dev", 5, testOutcome())

	if _, ok := cache.Get("python dev", 5); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := cache.Get("python dev", 5); ok {
		t.Error("expected miss after ttl elapsed")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be removed, len = %d", cache.Len())
	}
}

func TestPurge(t *testing.T) {
	cache := New(10, time.Minute)
	cache.Put("python dev", 5, testOutcome())
	cache.Put("java dev", 5, testOutcome())

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("len = %d after purge, want 0", cache.Len())
	}
	if _, ok := cache.Get("python dev", 5); ok {
		t.Error("expected miss after purge")
	}
}

func TestLRUEviction(t *testing.T) {
	cache := New(2, time.Minute)
	cache.Put("one", 5, testOutcome())
	cache.Put("two", 5, testOutcome())
	cache.Put("three", 5, testOutcome())

	if _, ok := cache.Get("one", 5); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := cache.Get("three", 5); !ok {
		t.Error("newest entry should survive")
	}
}
