// Package html handles HTML files.
package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor pulls readable text out of HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Extract parses the document, drops script/style and page chrome, and
// returns the text of the main content area. Text nodes are joined with
// spaces so words never fuse across element boundaries.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", domain.ErrExtraction, raw.Name, err)
	}

	doc.Find("script, style, nav, footer, aside").Remove()

	// Prefer a dedicated content region when the page marks one up.
	content := doc.Find("main, article, #content, #main").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var sb strings.Builder
	collectText(content, &sb)

	return strings.TrimSpace(sb.String()), nil
}

// collectText walks the selection and appends every text node,
// space-separated.
func collectText(selection *goquery.Selection, sb *strings.Builder) {
	selection.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			text := strings.TrimSpace(child.Text())
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
			return
		}
		collectText(child, sb)
	})
}
