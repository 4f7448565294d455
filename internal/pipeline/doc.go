// Package pipeline is the retrieval engine's public entry point. It owns
// the roster snapshot lifecycle (Reindex swaps an immutable corpus
// atomically), the whole-outcome query cache, and the per-query flow:
// validate, resolve a retrieval tier, rank, explain, augment.
//
// Usage:
//
//	p := pipeline.New(pipeline.Config{Orchestrator: orch})
//	if err := p.Reindex(ctx, roster); err != nil { ... }
//	outcome, err := p.Retrieve(ctx, "senior python developer", 5)
//
// Retrieve is safe for concurrent use; identical concurrent queries
// collapse into one execution.
package pipeline
