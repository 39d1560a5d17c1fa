package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// --- Mock implementations for answerer testing ---
// Note: These are prefixed with "ans" to avoid conflicts with other
// service test mocks.

// ansMockRetrieval implements driving.RetrievalService.
type ansMockRetrieval struct {
	results  []domain.RetrievalResult
	err      error
	calls    int
	lastOpts domain.RetrieveOptions
}

func (m *ansMockRetrieval) Retrieve(
	_ context.Context, _ string, opts domain.RetrieveOptions,
) ([]domain.RetrievalResult, error) {
	m.calls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// ansMockLLM implements driven.LLMService and records the chat call.
type ansMockLLM struct {
	reply        string
	chatErr      error
	chatCalls    int
	lastMessages []driven.ChatMessage
	lastOpts     driven.ChatOptions
}

func (m *ansMockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *ansMockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMessages = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *ansMockLLM) ModelName() string            { return "mock-llm" }
func (m *ansMockLLM) Ping(_ context.Context) error { return nil }
func (m *ansMockLLM) Close() error                 { return nil }

// ansMockPrompts implements driven.PromptStore.
type ansMockPrompts struct {
	loadErr error
}

func (m *ansMockPrompts) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	switch name {
	case driven.PromptAnswerSystem:
		return "system prompt text", nil
	case driven.PromptNoContext:
		return "nothing relevant found", nil
	default:
		return "", fmt.Errorf("unknown prompt %q", name)
	}
}

func (m *ansMockPrompts) Reload() {}

// --- Test helpers ---

func ansResult(source string, index int, score float64, content string) domain.RetrievalResult {
	return domain.RetrievalResult{
		Chunk: domain.Chunk{
			ID:      domain.ChunkID(source, index),
			Source:  source,
			Index:   index,
			Content: content,
		},
		Score: score,
	}
}

func ansLLMDefaults() domain.LLMSettings {
	return domain.LLMSettings{Temperature: 0.3, MaxTokens: 1024}
}

// --- Tests ---

func TestNewAnswerer(t *testing.T) {
	retrieval := &ansMockRetrieval{}
	answerer := NewAnswerer(retrieval, &ansMockLLM{}, &ansMockPrompts{}, ansLLMDefaults())

	require.NotNil(t, answerer)
	assert.NotNil(t, answerer.retrieval)
	assert.NotNil(t, answerer.llm)
	assert.NotNil(t, answerer.prompts)
}

func TestAnswerer_Ask_GeneratesAnswer(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{
			ansResult("guide.txt", 2, 0.91, "configure via the settings file"),
		},
	}
	llm := &ansMockLLM{reply: "Edit the settings file. [Source: guide.txt]"}
	answerer := NewAnswerer(retrieval, llm, &ansMockPrompts{}, ansLLMDefaults())

	answer, err := answerer.Ask(context.Background(), "how do I configure weft?", domain.AskOptions{})

	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "Edit the settings file. [Source: guide.txt]", answer.Text)
	assert.Equal(t, "mock-llm", answer.Model)
	assert.Equal(t, retrieval.results, answer.Results)
	assert.Equal(t, 1, llm.chatCalls)
}

func TestAnswerer_Ask_MessageShape(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{
			ansResult("guide.txt", 0, 0.5, "some context"),
		},
	}
	llm := &ansMockLLM{reply: "answer"}
	answerer := NewAnswerer(retrieval, llm, &ansMockPrompts{}, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "the question?", domain.AskOptions{})

	require.NoError(t, err)
	require.Len(t, llm.lastMessages, 2)

	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Equal(t, "system prompt text", llm.lastMessages[0].Content)

	assert.Equal(t, "user", llm.lastMessages[1].Role)
	assert.True(t, strings.HasPrefix(llm.lastMessages[1].Content, "Context:\n"))
	assert.True(t, strings.HasSuffix(llm.lastMessages[1].Content, "\n\nQuestion: the question?"))
}

func TestAnswerer_Ask_AppliesGenerationSettings(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{ansResult("a.txt", 0, 0.8, "text")},
	}
	llm := &ansMockLLM{reply: "answer"}
	answerer := NewAnswerer(retrieval, llm, &ansMockPrompts{},
		domain.LLMSettings{Temperature: 0.3, MaxTokens: 512})

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.NoError(t, err)
	assert.InDelta(t, 0.3, llm.lastOpts.Temperature, 1e-9)
	assert.Equal(t, 512, llm.lastOpts.MaxTokens)
}

func TestAnswerer_Ask_PassesRetrieveOptions(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{ansResult("a.txt", 0, 0.8, "text")},
	}
	answerer := NewAnswerer(retrieval, &ansMockLLM{reply: "ok"}, &ansMockPrompts{}, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question",
		domain.AskOptions{TopK: 7, ContextWindow: 3})

	require.NoError(t, err)
	assert.Equal(t, domain.RetrieveOptions{TopK: 7, ContextWindow: 3}, retrieval.lastOpts)
}

func TestAnswerer_Ask_NoResults_SkipsGenerator(t *testing.T) {
	retrieval := &ansMockRetrieval{}
	llm := &ansMockLLM{reply: "should never be produced"}
	answerer := NewAnswerer(retrieval, llm, &ansMockPrompts{}, ansLLMDefaults())

	answer, err := answerer.Ask(context.Background(), "anything at all?", domain.AskOptions{})

	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "nothing relevant found", answer.Text)
	assert.Empty(t, answer.Model, "no generator ran")
	assert.NotNil(t, answer.Results)
	assert.Empty(t, answer.Results)
	assert.Equal(t, 0, llm.chatCalls, "the generator must not be called without context")
}

func TestAnswerer_Ask_NilLLM(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{ansResult("a.txt", 0, 0.8, "text")},
	}
	answerer := NewAnswerer(retrieval, nil, &ansMockPrompts{}, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Equal(t, 0, retrieval.calls, "misconfiguration should fail before retrieval")
}

func TestAnswerer_Ask_RetrievalError(t *testing.T) {
	retrieval := &ansMockRetrieval{err: errors.New("store down")}
	answerer := NewAnswerer(retrieval, &ansMockLLM{}, &ansMockPrompts{}, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve context")
}

func TestAnswerer_Ask_GeneratorError(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{ansResult("a.txt", 0, 0.8, "text")},
	}
	llm := &ansMockLLM{chatErr: errors.New("rate limited")}
	answerer := NewAnswerer(retrieval, llm, &ansMockPrompts{}, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
}

func TestAnswerer_Ask_PromptLoadError(t *testing.T) {
	retrieval := &ansMockRetrieval{
		results: []domain.RetrievalResult{ansResult("a.txt", 0, 0.8, "text")},
	}
	prompts := &ansMockPrompts{loadErr: errors.New("prompt dir unreadable")}
	answerer := NewAnswerer(retrieval, &ansMockLLM{}, prompts, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load system prompt")
}

func TestAnswerer_Ask_NoContextPromptLoadError(t *testing.T) {
	retrieval := &ansMockRetrieval{}
	prompts := &ansMockPrompts{loadErr: errors.New("prompt dir unreadable")}
	answerer := NewAnswerer(retrieval, &ansMockLLM{}, prompts, ansLLMDefaults())

	_, err := answerer.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load no-context prompt")
}

func TestFormatContext(t *testing.T) {
	t.Run("single result without neighbours", func(t *testing.T) {
		results := []domain.RetrievalResult{
			ansResult("guide.txt", 2, 0.9123, "the target text"),
		}

		got := formatContext(results)

		want := "--- Document: guide.txt (Relevance: 0.9123) ---\n" +
			"TARGET CHUNK: the target text"
		assert.Equal(t, want, got)
	})

	t.Run("neighbours wrap in ellipsis markers", func(t *testing.T) {
		res := ansResult("guide.txt", 2, 0.5, "the target text")
		res.Before = []domain.Chunk{{Source: "guide.txt", Index: 1, Content: "earlier text"}}
		res.After = []domain.Chunk{{Source: "guide.txt", Index: 3, Content: "later text"}}

		got := formatContext([]domain.RetrievalResult{res})

		want := "--- Document: guide.txt (Relevance: 0.5000) ---\n" +
			"(... earlier text ...)\n" +
			"TARGET CHUNK: the target text\n" +
			"(... later text ...)"
		assert.Equal(t, want, got)
	})

	t.Run("multiple neighbours keep index order", func(t *testing.T) {
		res := ansResult("guide.txt", 5, 0.75, "target")
		res.Before = []domain.Chunk{
			{Source: "guide.txt", Index: 3, Content: "three"},
			{Source: "guide.txt", Index: 4, Content: "four"},
		}
		res.After = []domain.Chunk{
			{Source: "guide.txt", Index: 6, Content: "six"},
			{Source: "guide.txt", Index: 7, Content: "seven"},
		}

		got := formatContext([]domain.RetrievalResult{res})

		want := "--- Document: guide.txt (Relevance: 0.7500) ---\n" +
			"(... three ...)\n" +
			"(... four ...)\n" +
			"TARGET CHUNK: target\n" +
			"(... six ...)\n" +
			"(... seven ...)"
		assert.Equal(t, want, got)
	})

	t.Run("blocks separated by blank lines", func(t *testing.T) {
		results := []domain.RetrievalResult{
			ansResult("a.txt", 0, 0.9, "first"),
			ansResult("b.txt", 4, 0.8, "second"),
		}

		got := formatContext(results)

		want := "--- Document: a.txt (Relevance: 0.9000) ---\n" +
			"TARGET CHUNK: first\n" +
			"\n" +
			"--- Document: b.txt (Relevance: 0.8000) ---\n" +
			"TARGET CHUNK: second"
		assert.Equal(t, want, got)
	})

	t.Run("empty input yields empty string", func(t *testing.T) {
		assert.Equal(t, "", formatContext(nil))
	})
}
