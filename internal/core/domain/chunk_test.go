package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChunkID_Deterministic verifies identity is a pure function of
// (source, index)
func TestChunkID_Deterministic(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		index    int
		expected string
	}{
		{
			name:     "first chunk of a text file",
			source:   "doc.txt",
			index:    0,
			expected: "8574ba652629933424569549ba843714",
		},
		{
			name:     "second chunk of the same file",
			source:   "doc.txt",
			index:    1,
			expected: "df22a61f389fd43e56df322c87ade263",
		},
		{
			name:     "double-digit index",
			source:   "report.pdf",
			index:    12,
			expected: "9621a7ac5d8032dd745bc7e2b47dcf98",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChunkID(tt.source, tt.index))
			// Recomputing never changes the id.
			assert.Equal(t, ChunkID(tt.source, tt.index), ChunkID(tt.source, tt.index))
		})
	}
}

// TestChunkID_DistinctInputs verifies different inputs yield different ids
func TestChunkID_DistinctInputs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := ChunkID("a.txt", i)
		require.False(t, seen[id], "collision at index %d", i)
		seen[id] = true
	}

	// Same index, different source.
	assert.NotEqual(t, ChunkID("a.txt", 0), ChunkID("b.txt", 0))
}

// TestChunkID_SameNameCollides documents the accepted limitation:
// two logical documents sharing a source name share chunk identity
func TestChunkID_SameNameCollides(t *testing.T) {
	assert.Equal(t, ChunkID("notes.md", 3), ChunkID("notes.md", 3))
}

// TestChunk_HasEmbedding covers the embedded/unembedded states
func TestChunk_HasEmbedding(t *testing.T) {
	c := Chunk{
		ID:          ChunkID("doc.txt", 0),
		Source:      "doc.txt",
		Content:     "hello world",
		TokenCount:  2,
		ProcessedAt: time.Now(),
	}
	assert.False(t, c.HasEmbedding())

	c.Embedding = []float32{0.1, 0.2, 0.3}
	assert.True(t, c.HasEmbedding())
}
