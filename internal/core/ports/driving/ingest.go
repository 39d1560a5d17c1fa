package driving

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// IngestService turns files into stored, embedded chunks.
type IngestService interface {
	// IngestFile extracts, chunks, embeds, and stores one file.
	// The chunk source is the file's base name. Re-ingesting a file
	// replaces the chunks that share (source, index) identity.
	IngestFile(ctx context.Context, path string) (*domain.FileResult, error)

	// IngestBatch ingests many files with per-file error isolation:
	// a failing file is recorded in the report and never aborts its
	// siblings. The report holds one result per input, in input order.
	IngestBatch(ctx context.Context, paths []string) *domain.BatchReport

	// DeleteSource removes every stored chunk for the source.
	// Removing nothing is not an error.
	DeleteSource(ctx context.Context, source string) error

	// ListSources returns the distinct sources currently stored.
	ListSources(ctx context.Context) ([]string, error)
}
