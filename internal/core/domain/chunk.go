package domain

import (
	"crypto/md5" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"strconv"
	"time"
)

// Chunk is one overlapping token window of a source document.
// Chunks are the unit of storage, similarity search, and retrieval.
type Chunk struct {
	// ID is the stable identity derived from (Source, Index).
	// See ChunkID for the derivation.
	ID string

	// Source is the grouping and deletion key, nominally the filename
	// the chunk was ingested from. Callers that reuse a source name for
	// distinct documents collide on identity; that is accepted.
	Source string

	// Index is the 0-based position of the window within its source.
	// Within one ingestion it is contiguous with no gaps.
	Index int

	// Content is the window text.
	Content string

	// TokenCount is the number of token units covered by the window.
	TokenCount int

	// ProcessedAt records when the chunk was produced.
	ProcessedAt time.Time

	// Embedding is the similarity vector. Dimension is fixed per
	// deployment. Nil until embedded, and omitted by id-based reads.
	Embedding []float32
}

// ChunkID derives the stable identity for a (source, index) pair.
//
// Identity is a pure function of its inputs: re-chunking identical input
// always yields identical ids, which makes upserts idempotent and lets
// the retriever address neighbours by index arithmetic instead of
// stored adjacency links. The cost is that re-ingesting a source with a
// different window size silently shifts what each index refers to.
func ChunkID(source string, index int) string {
	sum := md5.Sum([]byte(source + "_" + strconv.Itoa(index)))
	return hex.EncodeToString(sum[:])
}

// HasEmbedding reports whether the chunk already carries a vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ScoredChunk pairs a chunk with its similarity score for ranking.
type ScoredChunk struct {
	Chunk

	// Score is cosine similarity, reported as 1 - cosine distance.
	// Higher is more similar.
	Score float64
}

// RetrievalResult is a primary search hit together with the sequential
// neighbours reconstructed around it.
type RetrievalResult struct {
	// Chunk is the primary hit.
	Chunk Chunk

	// Score is the primary hit's similarity score.
	Score float64

	// Before holds neighbours with Index strictly below the primary,
	// ascending. May be empty at a source boundary.
	Before []Chunk

	// After holds neighbours with Index strictly above the primary,
	// ascending. May be empty at a source boundary.
	After []Chunk
}

// RetrieveOptions tunes a retrieval request. Zero values select the
// configured defaults.
type RetrieveOptions struct {
	// TopK is the maximum number of primary results.
	TopK int

	// ContextWindow is the number of neighbouring indices expanded on
	// each side of a primary result.
	ContextWindow int
}

// AskOptions tunes a question-answering request. Zero values select
// the configured defaults.
type AskOptions struct {
	TopK          int
	ContextWindow int
}

// Answer is a generated response grounded in retrieved context.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Results is the retrieval context the answer was grounded on,
	// in descending similarity order.
	Results []RetrievalResult

	// Model names the generator that produced the text.
	Model string
}
