package driven

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// Extractor converts one file format into raw text.
// Each extractor handles specific file extensions (e.g., ".pdf", ".docx").
type Extractor interface {
	// SupportedExtensions returns the lower-cased extensions this
	// extractor handles, including the dot.
	SupportedExtensions() []string

	// Extract returns the plain text content of the file.
	// A failure wraps domain.ErrExtraction.
	Extract(ctx context.Context, file *domain.RawFile) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a file.
// Dispatch is by file extension; an extension nothing handles fails
// with domain.ErrUnsupportedFormat.
type ExtractorRegistry interface {
	// Register adds an extractor to the registry.
	Register(e Extractor)

	// SupportedExtensions returns all extensions with a registered
	// extractor, sorted.
	SupportedExtensions() []string

	// Extract dispatches to the extractor for the file's extension.
	Extract(ctx context.Context, file *domain.RawFile) (string, error)
}
