// Package summarizer turns a ranked result list into prose for the end
// user. When a generative backend is configured it writes a narrative
// summary from the augmentation context; otherwise it falls back to a
// deterministic formatted message, so retrieval output is always usable.
package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/rosterhq/talentsearch/pkg/types"
)

const systemPrompt = "You are an expert HR consultant. Your responses should be conversational, " +
	"specific about why each candidate fits the role, highlight unique strengths, " +
	"and end with a helpful next step. Format your response as a cohesive narrative."

const (
	maxMessageSkills  = 12
	maxMessageReasons = 5

	// DefaultSummaryCacheSize is the summary reuse cache capacity when the
	// configuration leaves it unset.
	DefaultSummaryCacheSize = 256

	// DefaultSummaryTTL bounds how long a generated summary may be reused
	// for the same query and result set.
	DefaultSummaryTTL = time.Hour
)

// Generator produces prose from a prompt. Implementations wrap one
// generative backend and do not retry internally.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}

type cachedSummary struct {
	message   string
	expiresAt time.Time
}

// Summarizer renders retrieval outcomes as user-facing messages. Generated
// summaries are reused for the same query and result set, so repeated
// queries do not burn generation quota.
type Summarizer struct {
	gen   Generator
	cache *lru.Cache[string, cachedSummary]
	ttl   time.Duration
	log   *zap.Logger
}

// Config tunes summary generation and reuse. A nil Generator means every
// summary uses the deterministic fallback format.
type Config struct {
	Generator Generator
	CacheSize int           // reuse cache capacity; non-positive means DefaultSummaryCacheSize
	CacheTTL  time.Duration // reuse window; non-positive means DefaultSummaryTTL
	Logger    *zap.Logger
}

// New creates a summarizer from cfg
func New(cfg Config) *Summarizer {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultSummaryCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	cache, _ := lru.New[string, cachedSummary](size)
	return &Summarizer{gen: cfg.Generator, cache: cache, ttl: ttl, log: log}
}

// Summarize produces a prose summary of the outcome. Generator failures
// are logged and absorbed; the caller always receives a message.
func (s *Summarizer) Summarize(ctx context.Context, query string, outcome *types.RetrievalOutcome, profiles map[int64]*types.CandidateProfile) string {
	if outcome == nil || len(outcome.Results) == 0 {
		return NoCandidatesMessage()
	}

	if s.gen != nil {
		key := summaryKey(query, outcome.Results)
		if entry, ok := s.cache.Get(key); ok {
			if time.Now().Before(entry.expiresAt) {
				return entry.message
			}
			s.cache.Remove(key)
		}

		message, err := s.gen.GenerateContent(ctx, BuildPrompt(query, outcome.AugmentationContext))
		if err == nil {
			s.cache.Add(key, cachedSummary{message: message, expiresAt: time.Now().Add(s.ttl)})
			return message
		}
		s.log.Warn("summary generation failed, using fallback format",
			zap.String("request_id", outcome.RequestID),
			zap.Error(err))
	}

	return FallbackMessage(outcome.Results, profiles)
}

// summaryKey derives a reuse key from the query and the ranked candidate
// ids. A roster change reorders or replaces ids, which invalidates the
// key naturally.
func summaryKey(query string, results []types.SearchResult) string {
	var b strings.Builder
	b.WriteString(strings.Join(strings.Fields(strings.ToLower(query)), " "))
	for _, r := range results {
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(r.CandidateID, 10))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// BuildPrompt assembles the user prompt around the augmentation context
func BuildPrompt(query, augmentationContext string) string {
	return fmt.Sprintf("User Query: %q\n\nCandidate Information:\n%s\n\n"+
		"Please provide a comprehensive summary of the top candidates based on the user's query.",
		query, augmentationContext)
}

// FallbackMessage formats results as a numbered list without any
// generative backend. Output is deterministic for a given input.
func FallbackMessage(results []types.SearchResult, profiles map[int64]*types.CandidateProfile) string {
	shown := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if _, ok := profiles[r.CandidateID]; ok {
			shown = append(shown, r)
		}
	}
	if len(shown) == 0 {
		return NoCandidatesMessage()
	}

	plural := "s"
	if len(shown) == 1 {
		plural = ""
	}

	lines := []string{fmt.Sprintf("I've identified %d candidate%s for your requirements:\n", len(shown), plural)}
	for i, r := range shown {
		c := profiles[r.CandidateID]
		lines = append(lines, fmt.Sprintf("%d. %s - %d years (Score: %.2f)", i+1, c.Name, c.ExperienceYears, r.FinalScore))

		skills := c.Skills
		if len(skills) > maxMessageSkills {
			skills = skills[:maxMessageSkills]
		}
		lines = append(lines, fmt.Sprintf("   - Skills: %s", strings.Join(skills, ", ")))

		if len(r.MatchReasons) > 0 {
			reasons := r.MatchReasons
			if len(reasons) > maxMessageReasons {
				reasons = reasons[:maxMessageReasons]
			}
			lines = append(lines, fmt.Sprintf("   - Match Reasons: %s", strings.Join(reasons, "; ")))
		}
	}
	lines = append(lines, "\nWould you like more specific information about any of these candidates?")
	return strings.Join(lines, "\n")
}

// NoCandidatesMessage explains an empty result set and suggests query
// adjustments.
func NoCandidatesMessage() string {
	return "I wasn't able to find candidates that closely match your requirements.\n\n" +
		"Suggestions:\n" +
		"- Try broader search terms (e.g., 'developer' instead of 'senior full-stack developer').\n" +
		"- Look for related skills (e.g., 'JavaScript' instead of 'React').\n" +
		"- Adjust experience requirements."
}
