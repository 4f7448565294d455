package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rosterhq/talentsearch/internal/fallback"
	"github.com/rosterhq/talentsearch/internal/querycache"
	"github.com/rosterhq/talentsearch/internal/ranker"
	"github.com/rosterhq/talentsearch/internal/scorer"
	"github.com/rosterhq/talentsearch/pkg/types"
)

const (
	// DefaultTopKMin and DefaultTopKMax bound how many results a single
	// retrieval may request when no bounds are configured.
	DefaultTopKMin = 1
	DefaultTopKMax = 20
)

// Config wires a pipeline
type Config struct {
	Orchestrator *fallback.Orchestrator

	// Weights configures keyword scoring; nil means defaults
	Weights *scorer.Weights

	// MaxExpectedScore caps the confidence rescale; non-positive falls
	// back to the ranker default.
	MaxExpectedScore float64

	// TopKMin and TopKMax bound the top_k a caller may request;
	// non-positive values fall back to the defaults.
	TopKMin int
	TopKMax int

	QueryCacheSize int
	QueryCacheTTL  time.Duration

	// Prewarm builds every tier's index during Reindex instead of on the
	// first query
	Prewarm bool

	Logger *zap.Logger
}

// Pipeline is the retrieval front door: it owns the corpus snapshot, the
// query cache, and the orchestrator, and turns a free-text query into a
// ranked, explained outcome.
type Pipeline struct {
	orch    *fallback.Orchestrator
	ranker  *ranker.Ranker
	qcache  *querycache.Cache
	corpus  atomic.Pointer[fallback.Corpus]
	group   singleflight.Group
	topKMin int
	topKMax int
	prewarm bool
	log     *zap.Logger
}

// New creates a pipeline. The corpus starts empty; queries fail with
// types.ErrIndexNotReady until the first Reindex.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	weights := scorer.DefaultWeights()
	if cfg.Weights != nil {
		weights = *cfg.Weights
	}
	if cfg.TopKMin <= 0 {
		cfg.TopKMin = DefaultTopKMin
	}
	if cfg.TopKMax <= 0 {
		cfg.TopKMax = DefaultTopKMax
	}
	return &Pipeline{
		orch:    cfg.Orchestrator,
		ranker:  ranker.New(scorer.New(weights), cfg.MaxExpectedScore),
		qcache:  querycache.New(cfg.QueryCacheSize, cfg.QueryCacheTTL),
		topKMin: cfg.TopKMin,
		topKMax: cfg.TopKMax,
		prewarm: cfg.Prewarm,
		log:     cfg.Logger,
	}
}

// Retrieve ranks the current roster against a free-text query and returns
// the top topK results. Repeated queries within the cache ttl are served
// from the query cache; concurrent identical queries share one execution.
func (p *Pipeline) Retrieve(ctx context.Context, queryText string, topK int) (*types.RetrievalOutcome, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: empty query text", types.ErrInvalidQuery)
	}
	if topK < p.topKMin || topK > p.topKMax {
		return nil, fmt.Errorf("%w: top_k %d out of range [%d, %d]", types.ErrInvalidQuery, topK, p.topKMin, p.topKMax)
	}

	corpus := p.corpus.Load()
	if corpus == nil || corpus.Len() == 0 {
		return nil, types.ErrIndexNotReady
	}

	if outcome, ok := p.qcache.Get(queryText, topK); ok {
		outcome.CacheHit = true
		p.log.Debug("query cache hit",
			zap.String("request_id", outcome.RequestID),
			zap.Int("results", len(outcome.Results)))
		return outcome, nil
	}

	// Identical concurrent queries collapse into one execution; every
	// caller still receives its own copy.
	v, err, _ := p.group.Do(querycache.Key(queryText, topK), func() (interface{}, error) {
		return p.retrieve(ctx, corpus, queryText, topK)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.RetrievalOutcome).Clone(), nil
}

func (p *Pipeline) retrieve(ctx context.Context, corpus *fallback.Corpus, queryText string, topK int) (*types.RetrievalOutcome, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resolved, err := p.orch.Resolve(ctx, corpus, queryText)
	if err != nil {
		return nil, err
	}

	parsed := scorer.Parse(queryText)
	results, err := p.ranker.Rank(ctx, resolved.Index, resolved.QueryVector, parsed, corpus.Candidates, topK)
	if err != nil {
		return nil, err
	}

	profiles := make(map[int64]*types.CandidateProfile, corpus.Len())
	for i := range corpus.Candidates {
		profiles[corpus.Candidates[i].ID] = &corpus.Candidates[i]
	}

	outcome := &types.RetrievalOutcome{
		Results:             results,
		TierUsed:            resolved.TierUsed,
		ElapsedMS:           time.Since(start).Milliseconds(),
		RequestID:           requestID,
		AugmentationContext: BuildAugmentationContext(results, profiles),
	}

	p.qcache.Put(queryText, topK, outcome)
	p.log.Info("retrieval served",
		zap.String("request_id", requestID),
		zap.String("tier", resolved.TierUsed),
		zap.Int("top_k", topK),
		zap.Int("results", len(results)),
		zap.Int64("elapsed_ms", outcome.ElapsedMS))
	return outcome, nil
}

// Reindex replaces the roster snapshot atomically. In-flight queries keep
// reading the old corpus; queries started after Reindex returns see only
// the new one. The query cache is purged so stale rankings never outlive
// the roster that produced them.
func (p *Pipeline) Reindex(ctx context.Context, candidates []types.CandidateProfile) error {
	for i := range candidates {
		if err := candidates[i].Validate(); err != nil {
			return fmt.Errorf("candidate %d (id %d): %w", i, candidates[i].ID, err)
		}
	}

	cloned := make([]types.CandidateProfile, len(candidates))
	docTexts := make([]string, len(candidates))
	for i := range candidates {
		cloned[i] = candidates[i].Clone()
		docTexts[i] = BuildProfileText(&cloned[i])
	}

	corpus := fallback.NewCorpus(uuid.NewString(), cloned, docTexts)
	if p.prewarm {
		p.orch.Prewarm(ctx, corpus)
	}

	p.corpus.Store(corpus)
	p.qcache.Purge()
	p.log.Info("roster reindexed",
		zap.String("corpus_version", corpus.Version),
		zap.Int("candidates", corpus.Len()))
	return nil
}

// CorpusVersion returns the active snapshot version, empty before the
// first Reindex.
func (p *Pipeline) CorpusVersion() string {
	if c := p.corpus.Load(); c != nil {
		return c.Version
	}
	return ""
}

// CorpusLen returns the active roster size
func (p *Pipeline) CorpusLen() int {
	if c := p.corpus.Load(); c != nil {
		return c.Len()
	}
	return 0
}
