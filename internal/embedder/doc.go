// Package embedder provides vector embedding generation behind a single
// provider-agnostic contract.
//
// # Providers
//
// Three providers are supported:
//
//   - Gemini (gemini-embedding-001): role-aware, maps document/query roles
//     to RETRIEVAL_DOCUMENT / RETRIEVAL_QUERY task types. Requires
//     GEMINI_API_KEY.
//   - OpenAI (text-embedding-3-small): batch HTTP API via go-openai.
//     Requires OPENAI_API_KEY.
//   - Local: deterministic hash-derived vectors, no credentials. Intended
//     for development and tests, not semantic quality.
//
// All providers normalize returned vectors to unit length, so downstream
// inner products are cosine similarities.
//
// # Error contract
//
// Provider failures are classified into ErrProviderUnavailable (unreachable,
// auth, quota, malformed input) and ErrProviderTimeout (deadline exceeded).
// Adapters never retry; the fallback orchestrator decides whether to move
// to the next tier. Context cancellation passes through unclassified.
//
// # Caching
//
// Cache is the in-process LRU layer keyed by (text hash, role, provider).
// Adapters do not consult it; callers own cache population so the cache
// stays provider-agnostic:
//
//	cache := embedder.NewCache(10000)
//	key := embedder.CacheKey{TextHash: embedder.ComputeHash(text), Role: types.RoleQuery, Provider: emb.Provider()}
//	if vec, ok := cache.Get(key); ok {
//	    return vec, nil
//	}
package embedder
