// Package chunker splits extracted text into overlapping token windows.
package chunker

import (
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/core/domain"
)

// DefaultWindowSize is the default window length in token units.
const DefaultWindowSize = 800

// DefaultOverlap is the default number of token units shared by
// consecutive windows.
const DefaultOverlap = 100

// Chunker produces overlapping token windows with deterministic
// identity. It is stateless: Split is a pure function of its arguments
// and the configured geometry.
type Chunker struct {
	windowSize int
	overlap    int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindowSize sets the window size in token units.
func WithWindowSize(size int) Option {
	return func(c *Chunker) {
		c.windowSize = size
	}
}

// WithOverlap sets the overlap between consecutive windows in token units.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options.
// It fails with domain.ErrInvalidConfiguration when the overlap is not
// strictly below the window size: windowing would never advance.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		windowSize: DefaultWindowSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	settings := domain.ChunkingSettings{WindowSize: c.windowSize, Overlap: c.overlap}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// WindowSize returns the configured window length in token units.
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Overlap returns the configured overlap in token units.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split tokenizes text and produces the ordered chunk list for source.
//
// Windows start at offsets 0, W-O, 2(W-O), ... and cover
// [start, min(start+W, N)). Generation stops once a window reaches the
// final token, so the last window may be shorter than W but the step
// arithmetic never emits a window past one that already covers the
// tail. Empty or whitespace-only text yields no chunks.
//
// Chunk Index is the 0-based generation ordinal, contiguous within the
// returned slice, and chunk identity is domain.ChunkID(source, index):
// re-splitting identical input always yields identical ids.
func (c *Chunker) Split(source, text string) []domain.Chunk {
	tokens := tokenize(text)
	total := len(tokens)
	if total == 0 {
		return nil
	}

	step := c.windowSize - c.overlap
	now := time.Now().UTC()

	chunks := make([]domain.Chunk, 0, estimateChunks(total, c.windowSize, c.overlap))
	for start, index := 0, 0; start < total; start, index = start+step, index+1 {
		end := start + c.windowSize
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			ID:          domain.ChunkID(source, index),
			Source:      source,
			Index:       index,
			Content:     decode(tokens[start:end]),
			TokenCount:  end - start,
			ProcessedAt: now,
		})

		// The tail is covered; later offsets would only re-window it.
		if end == total {
			break
		}
	}

	return chunks
}

// tokenize splits text into word tokens. Any deterministic token unit
// works here: windows are addressed by token offset, so identical input
// must always segment identically.
func tokenize(text string) []string {
	return strings.Fields(text)
}

// decode reassembles a token window into text.
func decode(tokens []string) string {
	return strings.Join(tokens, " ")
}

// estimateChunks sizes the result slice: ceil((total-overlap)/step)
// chunks when the text exceeds one window, otherwise one.
func estimateChunks(total, windowSize, overlap int) int {
	if total <= windowSize {
		return 1
	}
	step := windowSize - overlap
	return (total - overlap + step - 1) / step
}
