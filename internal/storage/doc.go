// Package storage provides SQLite-based persistence for the candidate
// roster and the durable layer of the embedding cache.
//
// # Database Schema
//
// Tables:
//   - candidates: roster rows with JSON-encoded skills and projects
//   - embedding_cache: vectors keyed by (text_hash, role, provider)
//   - schema_version: applied migrations
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore("~/.talentsearch/roster.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.UpsertCandidates(ctx, candidates)
//
// # Embedding Cache
//
// The cache is write-through from the fallback orchestrator: every provider
// call lands here so a process restart does not re-bill document embeddings.
// Entries carry their own ttl (0 = never expires); expiry is lazy on read,
// with PurgeExpired available for periodic sweeps. A row whose blob fails to
// decode is dropped and reads as types.ErrCacheCorrupt, which callers treat
// as a miss.
//
// # Build Tags
//
// Two driver configurations:
//
//   - default / purego: modernc.org/sqlite, no C compiler needed
//   - cgo_sqlite: github.com/mattn/go-sqlite3, faster under load
package storage
