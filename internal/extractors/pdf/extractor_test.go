package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	extensions := extractor.SupportedExtensions()

	require.Len(t, extensions, 1)
	assert.Contains(t, extensions, ".pdf")
}

func TestExtract_NilFile(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestExtract_NotAPDF(t *testing.T) {
	raw := &domain.RawFile{
		Path:    "/docs/report.pdf",
		Name:    "report.pdf",
		Content: []byte("plain text pretending to be a pdf"),
	}

	text, err := New().Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Empty(t, text)
}

func TestExtract_Truncated(t *testing.T) {
	// A valid header followed by garbage must fail cleanly, whether the
	// parser errors or panics internally.
	raw := &domain.RawFile{
		Path:    "/docs/report.pdf",
		Name:    "report.pdf",
		Content: []byte("%PDF-1.4\ngarbage"),
	}

	text, err := New().Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Empty(t, text)
}
