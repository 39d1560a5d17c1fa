// Package pdf handles PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor pulls plain text out of PDF files.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract parses the PDF in memory and concatenates the plain text of
// all pages.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (text string, err error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs instead of returning
	// an error; fold those into the extraction error path.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: parsing %s: %v", domain.ErrExtraction, raw.Name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", domain.ErrExtraction, raw.Name, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtraction, raw.Name, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtraction, raw.Name, err)
	}

	return buf.String(), nil
}
