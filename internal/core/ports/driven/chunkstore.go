package driven

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// ChunkStore is durable keyed storage of chunks and their embeddings.
// It executes similarity queries, id-based lookups, and source-scoped
// deletes. Implementations own the Embedder collaboration: Upsert
// embeds chunks that arrive without a vector, and Query embeds the
// query text.
type ChunkStore interface {
	// Upsert inserts or replaces chunks by id. Chunks without an
	// embedding are embedded first. Durability is row-scoped: a failure
	// on one chunk never discards siblings already written in the same
	// call, and a row is only ever written together with the embedding
	// that was requested for it. Writes are visible to subsequent
	// queries immediately.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query embeds text and returns up to k chunks ordered by
	// descending cosine similarity (reported as 1 - cosine distance).
	// An empty store yields an empty result, not an error. Ties are
	// broken deterministically by id.
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)

	// GetByIDs returns the chunks matching any of the given ids, with
	// embeddings omitted from the payload. Unknown ids are silently
	// absent. An empty input yields an empty result without touching
	// the store.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Chunk, error)

	// DeleteBySource removes every chunk whose source equals name.
	// Removing nothing is not an error.
	DeleteBySource(ctx context.Context, source string) error

	// ListSources returns the deduplicated set of distinct source
	// values present, sorted.
	ListSources(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
