// Package memory provides in-memory implementations of the storage
// ports. They mirror the semantics of their durable counterparts and
// back tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks live in a map keyed by id; similarity queries scan all of
// them, exactly like the SQLite store does.
type ChunkStore struct {
	mu       sync.RWMutex
	chunks   map[string]domain.Chunk
	embedder driven.EmbeddingService
}

// NewChunkStore creates a new in-memory chunk store backed by the
// given embedder.
func NewChunkStore(embedder driven.EmbeddingService) *ChunkStore {
	return &ChunkStore{
		chunks:   make(map[string]domain.Chunk),
		embedder: embedder,
	}
}

// Upsert embeds and stores the given chunks one at a time. Chunks
// stored before a failure stay stored; the first error returns.
func (s *ChunkStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for _, chunk := range chunks {
		if !chunk.HasEmbedding() {
			embedding, err := s.embedder.Embed(ctx, embedInput(chunk.Content))
			if err != nil {
				return fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
			}
			chunk.Embedding = embedding
		}

		s.mu.Lock()
		s.chunks[chunk.ID] = chunk
		s.mu.Unlock()
	}
	return nil
}

// Query embeds the text and returns the k best chunks by cosine
// similarity, ties ordered by id. Returned chunks carry no embeddings.
func (s *ChunkStore) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, embedInput(text))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	scored := make([]domain.ScoredChunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		score := cosineSimilarity(queryEmbedding, chunk.Embedding)
		chunk.Embedding = nil
		scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: score})
	}
	s.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// GetByIDs returns the stored chunks matching ids, ordered by id,
// without embeddings. Missing ids are silently omitted.
func (s *ChunkStore) GetByIDs(_ context.Context, ids []string) ([]domain.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.Chunk //nolint:prealloc // unknown how many ids resolve
	for _, id := range ids {
		chunk, ok := s.chunks[id]
		if !ok {
			continue
		}
		chunk.Embedding = nil
		chunks = append(chunks, chunk)
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })
	return chunks, nil
}

// DeleteBySource removes every chunk from the given source. Absent
// sources are a no-op.
func (s *ChunkStore) DeleteBySource(_ context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, chunk := range s.chunks {
		if chunk.Source == source {
			delete(s.chunks, id)
		}
	}
	return nil
}

// ListSources returns the distinct sources present, sorted.
func (s *ChunkStore) ListSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, chunk := range s.chunks {
		seen[chunk.Source] = true
	}

	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources, nil
}

// Close is a no-op.
func (s *ChunkStore) Close() error {
	return nil
}

// embedInput flattens newlines to spaces before embedding. Stored
// content keeps its newlines; only the text sent to the embedder is
// flattened.
func embedInput(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
