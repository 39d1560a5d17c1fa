package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/weftlabs/weft/internal/chunker"
	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
	"github.com/weftlabs/weft/internal/core/ports/driving"
	"github.com/weftlabs/weft/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor turns files into stored, embedded chunks.
type Ingestor struct {
	store      driven.ChunkStore
	extractors driven.ExtractorRegistry
	splitter   *chunker.Chunker
}

// NewIngestor creates a new ingestor.
func NewIngestor(
	store driven.ChunkStore,
	extractors driven.ExtractorRegistry,
	splitter *chunker.Chunker,
) *Ingestor {
	return &Ingestor{
		store:      store,
		extractors: extractors,
		splitter:   splitter,
	}
}

// IngestFile extracts, chunks, embeds, and stores one file. The chunk
// source is the file's base name, so re-ingesting a file replaces the
// chunks that share (source, index) identity. The returned result is
// always non-nil; err mirrors result.Err.
func (s *Ingestor) IngestFile(ctx context.Context, path string) (*domain.FileResult, error) {
	result := s.ingestOne(ctx, path)
	return &result, result.Err
}

// IngestBatch ingests many files with per-file error isolation: a
// failing file is recorded in the report and never aborts its siblings.
// The report holds one result per input, in input order.
func (s *Ingestor) IngestBatch(ctx context.Context, paths []string) *domain.BatchReport {
	logger.Section("Batch Ingestion")
	logger.Info("Ingesting %d files", len(paths))

	report := &domain.BatchReport{
		ID:      uuid.New().String(),
		Results: make([]domain.FileResult, 0, len(paths)),
		Started: time.Now().UTC(),
	}

	for _, path := range paths {
		report.Results = append(report.Results, s.ingestOne(ctx, path))
	}

	report.Finished = time.Now().UTC()
	logger.Info("Batch complete: %d succeeded, %d failed, %d chunks written",
		report.Succeeded(), report.Failed(), report.ChunksWritten())
	return report
}

// DeleteSource removes every stored chunk for the source. Removing
// nothing is not an error.
func (s *Ingestor) DeleteSource(ctx context.Context, source string) error {
	logger.Info("Deleting source: %s", source)
	return s.store.DeleteBySource(ctx, source)
}

// ListSources returns the distinct sources currently stored.
func (s *Ingestor) ListSources(ctx context.Context) ([]string, error) {
	return s.store.ListSources(ctx)
}

// ingestOne runs the read-extract-chunk-store pipeline for one file.
// Failures are recorded on the result instead of returned, so a batch
// can fold over its inputs without aborting.
func (s *Ingestor) ingestOne(ctx context.Context, path string) domain.FileResult {
	result := domain.FileResult{Path: path}

	logger.Debug("Ingesting: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", path, err)
		return result
	}

	raw := &domain.RawFile{
		Path:    path,
		Name:    filepath.Base(path),
		Content: content,
	}
	result.Source = raw.Name

	text, err := s.extractors.Extract(ctx, raw)
	if err != nil {
		result.Err = fmt.Errorf("extract %s: %w", path, err)
		return result
	}

	chunks := s.splitter.Split(raw.Name, text)
	if len(chunks) == 0 {
		logger.Debug("No content in %s, nothing stored", path)
		return result
	}

	if err := s.store.Upsert(ctx, chunks); err != nil {
		result.Err = fmt.Errorf("store %s: %w", path, err)
		return result
	}

	result.ChunkCount = len(chunks)
	logger.Info("Ingested %s: %d chunks", raw.Name, len(chunks))
	return result
}
