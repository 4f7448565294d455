package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterhq/talentsearch/internal/config"
	"github.com/rosterhq/talentsearch/internal/embedder"
	"github.com/rosterhq/talentsearch/internal/fallback"
	"github.com/rosterhq/talentsearch/internal/index"
	"github.com/rosterhq/talentsearch/internal/logger"
	"github.com/rosterhq/talentsearch/internal/pipeline"
	"github.com/rosterhq/talentsearch/internal/storage"
	"github.com/rosterhq/talentsearch/internal/summarizer"
)

const appName = "talentsearch"

var (
	version = "dev"

	cfgFile   string
	debugFlag bool
	jsonFlag  bool

	rootCmd = &cobra.Command{
		Use:     appName,
		Short:   "talentsearch matches free-text staffing queries against a candidate roster",
		Version: version,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus environment)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "j", false, "json format for logging")
}

// app bundles the wired engine for one command invocation
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.SQLiteStore
	pipe  *pipeline.Pipeline
	summ  *summarizer.Summarizer
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing store", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// buildApp wires configuration, storage, providers, and the pipeline.
// Providers whose credentials are missing are skipped with a warning so
// a partially configured host still degrades instead of failing.
func buildApp(ctx context.Context) (*app, error) {
	log, err := logger.New(jsonFlag, debugFlag)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	tiers := buildTiers(ctx, cfg, log)
	orch := fallback.New(fallback.Config{
		Tiers:    tiers,
		MemCache: embedder.NewCache(cfg.Cache.EmbeddingSize),
		Store:    store,
		QueryTTL: cfg.Cache.QueryEmbeddingTTL,
		NewIndex: indexFactory(cfg, log),
		Logger:   log,
	})

	weights := cfg.Scoring.Weights()
	pipe := pipeline.New(pipeline.Config{
		Orchestrator:     orch,
		Weights:          &weights,
		MaxExpectedScore: cfg.Scoring.MaxExpectedScore,
		TopKMin:          cfg.Retrieval.TopKMin,
		TopKMax:          cfg.Retrieval.TopKMax,
		QueryCacheSize:   cfg.Cache.QuerySize,
		QueryCacheTTL:    cfg.Cache.QueryTTL,
		Prewarm:          cfg.Retrieval.Prewarm,
		Logger:           log,
	})

	candidates, err := store.ListCandidates(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	if len(candidates) > 0 {
		if err := pipe.Reindex(ctx, candidates); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("indexing roster: %w", err)
		}
	}

	var gen summarizer.Generator
	if cfg.Summary.Enabled {
		g, err := summarizer.NewGemini(ctx, cfg.Providers.Gemini.APIKey, cfg.Summary.Model)
		if err != nil {
			log.Warn("summary generation disabled", zap.Error(err))
		} else {
			gen = g
		}
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		pipe:  pipe,
		summ: summarizer.New(summarizer.Config{
			Generator: gen,
			CacheSize: cfg.Summary.CacheSize,
			CacheTTL:  cfg.Summary.CacheTTL,
			Logger:    log,
		}),
	}, nil
}

func buildTiers(ctx context.Context, cfg *config.Config, log *zap.Logger) []fallback.Tier {
	providers := map[string]config.ProviderConfig{
		embedder.ProviderGemini: cfg.Providers.Gemini,
		embedder.ProviderOpenAI: cfg.Providers.OpenAI,
	}

	tiers := make([]fallback.Tier, 0, len(cfg.Fallback.Tiers))
	for _, name := range cfg.Fallback.Tiers {
		pc := providers[name]
		emb, err := embedder.New(ctx, embedder.Config{
			Provider:  name,
			APIKey:    pc.APIKey,
			Model:     pc.Model,
			Dimension: pc.Dimension,
		})
		if err != nil {
			log.Warn("skipping retrieval tier", zap.String("tier", name), zap.Error(err))
			continue
		}
		tiers = append(tiers, fallback.Tier{
			Name:     name,
			Embedder: emb,
			Timeout:  cfg.Fallback.TierTimeout,
		})
	}
	return tiers
}

func indexFactory(cfg *config.Config, log *zap.Logger) func() index.Index {
	if cfg.Index.Backend != config.IndexQdrant {
		return nil
	}
	return func() index.Index {
		idx, err := index.NewQdrantIndex(cfg.Index.QdrantAddr, cfg.Index.QdrantCollection)
		if err != nil {
			log.Warn("qdrant unreachable, using in-process index", zap.Error(err))
			return index.NewLinearIndex()
		}
		return idx
	}
}
