package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
	"github.com/weftlabs/weft/internal/core/ports/driving"
	"github.com/weftlabs/weft/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever answers similarity queries and expands each hit with the
// sequential neighbours reconstructed from (source, index) identity.
type Retriever struct {
	store    driven.ChunkStore
	defaults domain.RetrievalSettings
}

// NewRetriever creates a new retriever. defaults supplies TopK and
// ContextWindow for requests that leave them unset.
func NewRetriever(store driven.ChunkStore, defaults domain.RetrievalSettings) *Retriever {
	return &Retriever{
		store:    store,
		defaults: defaults,
	}
}

// Retrieve returns the top-k chunks most similar to the query, each
// expanded with its neighbouring windows. Results preserve descending
// similarity order. An empty store yields an empty result, not an error.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RetrievalResult{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = r.defaults.TopK
	}

	// A zero window falls back to the configured default, which may
	// itself be zero. Negative values disable expansion outright.
	window := opts.ContextWindow
	if window == 0 {
		window = r.defaults.ContextWindow
	}
	if window < 0 {
		window = 0
	}
	logger.Debug("TopK: %d, ContextWindow: %d", topK, window)

	primaries, err := r.store.Query(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	logger.Debug("Primary hits: %d", len(primaries))
	for i, hit := range primaries {
		logger.Debug("  %d. %s#%d score=%.4f", i+1, hit.Source, hit.Index, hit.Score)
	}

	if len(primaries) == 0 {
		return []domain.RetrievalResult{}, nil
	}

	if window == 0 {
		results := make([]domain.RetrievalResult, len(primaries))
		for i, hit := range primaries {
			results[i] = domain.RetrievalResult{Chunk: hit.Chunk, Score: hit.Score}
		}
		return results, nil
	}

	neighbours, err := r.fetchNeighbours(ctx, primaries, window)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievalResult, len(primaries))
	for i, hit := range primaries {
		results[i] = domain.RetrievalResult{
			Chunk:  hit.Chunk,
			Score:  hit.Score,
			Before: collectNeighbours(neighbours, hit.Source, hit.Index-window, hit.Index-1),
			After:  collectNeighbours(neighbours, hit.Source, hit.Index+1, hit.Index+window),
		}
	}

	return results, nil
}

// fetchNeighbours loads every chunk adjacent to a primary hit in one
// id-based lookup. Candidate ids are derived by index arithmetic, so
// indices past the end of a source simply come back absent. Ids that
// are themselves primaries are excluded; a hit never appears in another
// hit's context.
func (r *Retriever) fetchNeighbours(
	ctx context.Context, primaries []domain.ScoredChunk, window int,
) (map[string]domain.Chunk, error) {
	primaryIDs := make(map[string]bool, len(primaries))
	for _, hit := range primaries {
		primaryIDs[hit.ID] = true
	}

	idSet := make(map[string]bool)
	for _, hit := range primaries {
		for offset := 1; offset <= window; offset++ {
			if prev := hit.Index - offset; prev >= 0 {
				idSet[domain.ChunkID(hit.Source, prev)] = true
			}
			idSet[domain.ChunkID(hit.Source, hit.Index+offset)] = true
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		if !primaryIDs[id] {
			ids = append(ids, id)
		}
	}

	logger.Debug("Neighbour candidates: %d", len(ids))

	chunks, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch neighbours: %w", err)
	}

	byID := make(map[string]domain.Chunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}
	return byID, nil
}

// collectNeighbours gathers the fetched chunks for one side of a
// primary hit, ascending by index. Missing indices are skipped.
func collectNeighbours(byID map[string]domain.Chunk, source string, lo, hi int) []domain.Chunk {
	var out []domain.Chunk
	for index := lo; index <= hi; index++ {
		if index < 0 {
			continue
		}
		if chunk, ok := byID[domain.ChunkID(source, index)]; ok {
			out = append(out, chunk)
		}
	}
	return out
}
