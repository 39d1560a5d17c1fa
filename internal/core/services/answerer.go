package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
	"github.com/weftlabs/weft/internal/core/ports/driving"
	"github.com/weftlabs/weft/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AnswerService = (*Answerer)(nil)

// Answerer generates answers grounded in retrieved context.
type Answerer struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	prompts   driven.PromptStore
	defaults  domain.LLMSettings
}

// NewAnswerer creates a new answerer. The llm may be nil when no
// generator is configured; Ask then fails with domain.ErrLLMUnavailable
// while retrieval elsewhere keeps working.
func NewAnswerer(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	defaults domain.LLMSettings,
) *Answerer {
	return &Answerer{
		retrieval: retrieval,
		llm:       llm,
		prompts:   prompts,
		defaults:  defaults,
	}
}

// Ask retrieves context for the question and has the generator produce
// an answer citing its sources. When retrieval finds nothing, the
// no-context reply is returned without calling the generator.
func (a *Answerer) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	if a.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	results, err := a.retrieval.Retrieve(ctx, question, domain.RetrieveOptions{
		TopK:          opts.TopK,
		ContextWindow: opts.ContextWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		logger.Info("No relevant chunks found, skipping generation")
		reply, err := a.prompts.Load(driven.PromptNoContext)
		if err != nil {
			return nil, fmt.Errorf("load no-context prompt: %w", err)
		}
		return &domain.Answer{
			Text:    reply,
			Results: []domain.RetrievalResult{},
		}, nil
	}

	systemPrompt, err := a.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}

	contextText := formatContext(results)
	logger.Debug("Context: %d blocks, %d bytes", len(results), len(contextText))

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)},
	}

	text, err := a.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   a.defaults.MaxTokens,
		Temperature: a.defaults.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	logger.Info("Answer generated by %s", a.llm.ModelName())

	return &domain.Answer{
		Text:    text,
		Results: results,
		Model:   a.llm.ModelName(),
	}, nil
}

// formatContext renders retrieval results into the context the
// generator sees. Each hit contributes one block: a header naming the
// source and relevance, then the preceding windows, the primary hit
// flagged as the target chunk, and the following windows. Neighbours
// are wrapped in ellipsis markers so the model can tell surrounding
// text from the hit itself. Blocks are separated by blank lines.
func formatContext(results []domain.RetrievalResult) string {
	blocks := make([]string, 0, len(results))

	for _, res := range results {
		lines := make([]string, 0, 1+len(res.Before)+len(res.After))
		for _, chunk := range res.Before {
			lines = append(lines, fmt.Sprintf("(... %s ...)", chunk.Content))
		}
		lines = append(lines, "TARGET CHUNK: "+res.Chunk.Content)
		for _, chunk := range res.After {
			lines = append(lines, fmt.Sprintf("(... %s ...)", chunk.Content))
		}

		header := fmt.Sprintf("--- Document: %s (Relevance: %.4f) ---", res.Chunk.Source, res.Score)
		blocks = append(blocks, header+"\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}
