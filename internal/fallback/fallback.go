// Package fallback implements the tiered retrieval orchestrator: try each
// embedding provider in preference order, commit to the first that
// succeeds, and degrade to keyword-only retrieval when every provider is
// down. One timed attempt per tier keeps worst-case latency bounded.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rosterhq/talentsearch/internal/embedder"
	"github.com/rosterhq/talentsearch/internal/index"
	"github.com/rosterhq/talentsearch/internal/storage"
	"github.com/rosterhq/talentsearch/pkg/types"
)

const (
	// TierKeyword is the terminal tier. It needs no provider, so it
	// cannot fail for provider reasons and the orchestrator always
	// terminates.
	TierKeyword = "keyword"

	// DefaultTierTimeout bounds a single tier attempt
	DefaultTierTimeout = 10 * time.Second

	// DefaultQueryEmbeddingTTL bounds cached query-role vectors. Document
	// vectors live forever; they are invalidated by corpus version, not
	// by time.
	DefaultQueryEmbeddingTTL = time.Hour
)

// ErrExhausted signals that no tier could serve the request. Unreachable
// while the keyword tier is configured; it exists to keep the state
// machine explicit.
var ErrExhausted = errors.New("all retrieval tiers exhausted")

// Tier is one retrieval strategy: an embedding provider with a timeout
type Tier struct {
	Name     string
	Embedder embedder.Embedder
	Timeout  time.Duration
}

// Result is the committed outcome of tier resolution. QueryVector and
// Index are nil for the keyword tier.
type Result struct {
	QueryVector *types.EmbeddingVector
	Index       index.Index
	TierUsed    string
}

// Orchestrator walks tiers in preference order. For each embedding tier it
// embeds the query and lazily builds the tier's document index for the
// current corpus version, then commits. Provider failures move to the next
// tier immediately; adapters never retry internally.
type Orchestrator struct {
	tiers    []Tier
	memCache *embedder.Cache
	store    storage.Store
	queryTTL time.Duration
	newIndex func() index.Index
	builds   singleflight.Group
	log      *zap.Logger
}

// Config wires an orchestrator
type Config struct {
	Tiers    []Tier
	MemCache *embedder.Cache
	Store    storage.Store // optional durable cache layer
	QueryTTL time.Duration
	NewIndex func() index.Index // defaults to the linear backend
	Logger   *zap.Logger
}

// New creates an orchestrator
func New(cfg Config) *Orchestrator {
	if cfg.MemCache == nil {
		cfg.MemCache = embedder.NewCache(0)
	}
	if cfg.QueryTTL <= 0 {
		cfg.QueryTTL = DefaultQueryEmbeddingTTL
	}
	if cfg.NewIndex == nil {
		cfg.NewIndex = func() index.Index { return index.NewLinearIndex() }
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Orchestrator{
		tiers:    cfg.Tiers,
		memCache: cfg.MemCache,
		store:    cfg.Store,
		queryTTL: cfg.QueryTTL,
		newIndex: cfg.NewIndex,
		log:      cfg.Logger,
	}
}

// Tiers returns the configured tier names in preference order, keyword
// tier included.
func (o *Orchestrator) Tiers() []string {
	names := make([]string, 0, len(o.tiers)+1)
	for _, t := range o.tiers {
		names = append(names, t.Name)
	}
	return append(names, TierKeyword)
}

// Resolve commits to the first tier that can serve the query. Provider
// unavailability and timeouts fall through to the next tier; context
// cancellation from the caller aborts resolution entirely.
func (o *Orchestrator) Resolve(ctx context.Context, corpus *Corpus, queryText string) (*Result, error) {
	for _, tier := range o.tiers {
		result, err := o.tryTier(ctx, tier, corpus, queryText)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, embedder.ErrProviderUnavailable) || errors.Is(err, embedder.ErrProviderTimeout) {
			o.log.Warn("tier failed, falling back",
				zap.String("tier", tier.Name),
				zap.String("corpus_version", corpus.Version),
				zap.Error(err))
			continue
		}
		return nil, err
	}

	// Keyword-only retrieval: always succeeds
	return &Result{TierUsed: TierKeyword}, nil
}

// tryTier makes a single timed attempt at one embedding tier
func (o *Orchestrator) tryTier(ctx context.Context, tier Tier, corpus *Corpus, queryText string) (*Result, error) {
	timeout := tier.Timeout
	if timeout <= 0 {
		timeout = DefaultTierTimeout
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	queryVec, err := o.embedQuery(tctx, tier.Embedder, queryText)
	if err != nil {
		return nil, err
	}

	idx, err := o.ensureIndex(tctx, tier, corpus)
	if err != nil {
		return nil, err
	}

	return &Result{QueryVector: queryVec, Index: idx, TierUsed: tier.Name}, nil
}

// embedQuery embeds the query text through the cache chain: in-memory,
// then durable, then the provider with write-back to both layers.
func (o *Orchestrator) embedQuery(ctx context.Context, emb embedder.Embedder, queryText string) (*types.EmbeddingVector, error) {
	key := embedder.CacheKey{
		TextHash: embedder.ComputeHash(queryText),
		Role:     types.RoleQuery,
		Provider: emb.Provider(),
	}

	if vec, ok := o.memCache.Get(key); ok {
		return vec, nil
	}

	if vec := o.durableGet(ctx, key); vec != nil {
		o.memCache.Put(key, *vec, o.queryTTL)
		return vec, nil
	}

	vectors, err := emb.Embed(ctx, []string{queryText}, types.RoleQuery)
	if err != nil {
		return nil, err
	}
	vec := vectors[0]

	o.memCache.Put(key, vec, o.queryTTL)
	o.durablePut(ctx, &vec, o.queryTTL)
	return &vec, nil
}

// ensureIndex returns the tier's index for this corpus version, building
// it on first use. Concurrent callers collapse into a single build; a
// failed build is not cached, so the tier is retried on the next query.
func (o *Orchestrator) ensureIndex(ctx context.Context, tier Tier, corpus *Corpus) (index.Index, error) {
	if idx, ok := corpus.indexFor(tier.Name); ok {
		return idx, nil
	}

	key := corpus.Version + "/" + tier.Name
	v, err, _ := o.builds.Do(key, func() (interface{}, error) {
		if idx, ok := corpus.indexFor(tier.Name); ok {
			return idx, nil
		}

		vectors, err := o.embedDocuments(ctx, tier.Embedder, corpus.DocTexts)
		if err != nil {
			return nil, err
		}

		entries := make([]index.Entry, len(corpus.Candidates))
		for i := range corpus.Candidates {
			entries[i] = index.Entry{
				CandidateID: corpus.Candidates[i].ID,
				Vector:      vectors[i],
			}
		}

		idx := o.newIndex()
		if err := idx.Build(ctx, entries); err != nil {
			return nil, fmt.Errorf("build %s index: %w", tier.Name, err)
		}

		corpus.setIndex(tier.Name, idx)
		o.log.Info("tier index built",
			zap.String("tier", tier.Name),
			zap.String("corpus_version", corpus.Version),
			zap.Int("entries", len(entries)))
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(index.Index), nil
}

// Prewarm builds every embedding tier's index for the corpus up front so
// the first query pays no embedding latency. Tier failures are logged and
// skipped; a dead provider here just means its index is built lazily later.
func (o *Orchestrator) Prewarm(ctx context.Context, corpus *Corpus) {
	g, gctx := errgroup.WithContext(ctx)
	for _, tier := range o.tiers {
		tier := tier
		g.Go(func() error {
			if _, err := o.ensureIndex(gctx, tier, corpus); err != nil {
				o.log.Warn("prewarm skipped tier",
					zap.String("tier", tier.Name),
					zap.String("corpus_version", corpus.Version),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// embedDocuments returns one document-role vector per text, consulting the
// cache chain first and batching only the misses to the provider.
func (o *Orchestrator) embedDocuments(ctx context.Context, emb embedder.Embedder, texts []string) ([]types.EmbeddingVector, error) {
	vectors := make([]types.EmbeddingVector, len(texts))
	var missIdx []int

	for i, text := range texts {
		key := embedder.CacheKey{
			TextHash: embedder.ComputeHash(text),
			Role:     types.RoleDocument,
			Provider: emb.Provider(),
		}
		if vec, ok := o.memCache.Get(key); ok {
			vectors[i] = *vec
			continue
		}
		if vec := o.durableGet(ctx, key); vec != nil {
			o.memCache.Put(key, *vec, 0)
			vectors[i] = *vec
			continue
		}
		missIdx = append(missIdx, i)
	}

	for start := 0; start < len(missIdx); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(missIdx) {
			end = len(missIdx)
		}
		batch := missIdx[start:end]

		batchTexts := make([]string, len(batch))
		for j, i := range batch {
			batchTexts[j] = texts[i]
		}

		embedded, err := emb.Embed(ctx, batchTexts, types.RoleDocument)
		if err != nil {
			return nil, err
		}

		for j, i := range batch {
			vectors[i] = embedded[j]
			key := embedder.CacheKey{
				TextHash: embedded[j].SourceTextHash,
				Role:     types.RoleDocument,
				Provider: emb.Provider(),
			}
			o.memCache.Put(key, embedded[j], 0)
			o.durablePut(ctx, &embedded[j], 0)
		}
	}

	return vectors, nil
}

// durableGet reads the durable cache layer. A corrupt entry is logged and
// treated as a miss; the store already dropped the bad row.
func (o *Orchestrator) durableGet(ctx context.Context, key embedder.CacheKey) *types.EmbeddingVector {
	if o.store == nil {
		return nil
	}

	vec, err := o.store.GetEmbedding(ctx, key.TextHash, key.Role, key.Provider)
	if err != nil {
		if errors.Is(err, types.ErrCacheCorrupt) {
			o.log.Warn("corrupt embedding cache entry dropped",
				zap.String("text_hash", key.TextHash),
				zap.String("provider", key.Provider))
		}
		return nil
	}
	return vec
}

// durablePut writes through to the durable cache layer, best-effort
func (o *Orchestrator) durablePut(ctx context.Context, vec *types.EmbeddingVector, ttl time.Duration) {
	if o.store == nil {
		return
	}
	if err := o.store.PutEmbedding(ctx, vec, ttl); err != nil {
		o.log.Warn("durable embedding cache write failed",
			zap.String("provider", vec.Provider),
			zap.Error(err))
	}
}
