package driving

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// AnswerService generates answers grounded in retrieved context.
type AnswerService interface {
	// Ask retrieves context for the question and has the generator
	// produce an answer citing its sources. When retrieval finds
	// nothing, a fixed no-context reply is returned without calling
	// the generator. Embedding, store, and generator failures surface
	// as errors; there is no silent degraded answer.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
