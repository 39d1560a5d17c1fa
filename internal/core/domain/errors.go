package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfiguration indicates settings that can never produce
	// a valid run, such as a chunk overlap at or above the window size.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates no extractor handles the file's
	// extension. Batch ingestion isolates this per file.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates an extractor failed on a supported file.
	// Batch ingestion isolates this per file; siblings are unaffected.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingService indicates an embedding call failed.
	// The current chunk or query is aborted; rows already written stay,
	// and no row is left without the embedding that was requested for it.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrStoreUnavailable indicates the chunk store could not be reached
	// or an operation failed at the storage layer. Callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound indicates a requested entity does not exist.
	// Absence of results from a query or id lookup is NOT an error;
	// this sentinel is for lookups whose contract requires presence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled without it; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and similarity search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
