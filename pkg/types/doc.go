// Package types provides shared type definitions for the talentsearch engine.
//
// This package defines the domain records used across the retrieval pipeline:
// candidate profiles, embedding vectors, search results, and retrieval
// outcomes.
//
// # Core Types
//
// CandidateProfile is an immutable roster record owned by the candidate
// store; the engine loads a consistent snapshot of profiles per reindex:
//
//	candidate := types.CandidateProfile{
//	    ID:              1,
//	    Name:            "Alice Johnson",
//	    Skills:          []string{"python", "tensorflow"},
//	    ExperienceYears: 6,
//	    Projects:        []string{"Medical Diagnosis Platform"},
//	    Availability:    types.AvailabilityAvailable,
//	}
//
// EmbeddingVector tags raw values with role and provider. Vectors compared
// in one similarity-index call must share Dimension and Provider; mixing is
// a programming error, not a fallback case.
//
// SearchResult carries per-candidate scoring evidence (similarity, keyword
// score, fused final score, confidence, and human-readable match reasons).
// RetrievalOutcome wraps a ranked result list with the fallback tier that
// produced it, cache provenance, and elapsed time.
//
// # Validation
//
// Domain types implement Validate methods returning the sentinel errors
// declared in this package:
//
//	if err := candidate.Validate(); err != nil {
//	    return err
//	}
package types
