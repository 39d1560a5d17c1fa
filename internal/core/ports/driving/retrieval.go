package driving

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// RetrievalService answers similarity queries with expanded context.
type RetrievalService interface {
	// Retrieve returns the top-k most similar chunks for the query,
	// each expanded with the sequential neighbours reconstructed from
	// (source, index) identity. Results preserve descending similarity
	// order. An empty store yields an empty result, not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.RetrievalResult, error)
}
