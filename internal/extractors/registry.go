package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
	"github.com/weftlabs/weft/internal/extractors/docx"
	"github.com/weftlabs/weft/internal/extractors/html"
	"github.com/weftlabs/weft/internal/extractors/markdown"
	"github.com/weftlabs/weft/internal/extractors/pdf"
	"github.com/weftlabs/weft/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to their extractor.
// Registration is done at startup; lookups afterwards are read-only,
// so no locking is needed.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
}

// Default creates a registry with every built-in extractor registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	return r
}

// Register adds an extractor for every extension it supports.
// A later registration for the same extension wins.
func (r *Registry) Register(extractor driven.Extractor) {
	for _, ext := range extractor.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = extractor
	}
}

// SupportedExtensions returns the registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	extensions := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// Extract dispatches the file to the extractor registered for its
// extension. Files without an extension, or with one no extractor
// claims, fail with domain.ErrUnsupportedFormat.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawFile) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	ext := raw.Extension()
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", domain.ErrUnsupportedFormat, raw.Name)
	}

	extractor, ok := r.byExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	return extractor.Extract(ctx, raw)
}
