package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// Dimensions is the vector size. Fixed per deployment; switching
	// models with a different size requires re-ingesting every source.
	Dimensions int

	// BaseURL is the API endpoint (for Ollama, or OpenAI-compatible hosts).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond caps outbound embedding calls. Zero disables
	// proactive throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature steers generation randomness. Zero selects the default.
	Temperature float64

	// MaxTokens caps the generated answer length. Zero selects the default.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds the windowing parameters.
type ChunkingSettings struct {
	// WindowSize is the window length in token units.
	WindowSize int

	// Overlap is the number of token units shared by consecutive
	// windows. Must stay strictly below WindowSize or windowing
	// would never advance.
	Overlap int
}

// Validate checks the windowing invariants.
func (c ChunkingSettings) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfiguration, c.WindowSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, c.Overlap)
	}
	if c.Overlap >= c.WindowSize {
		return fmt.Errorf("%w: overlap %d must be smaller than window size %d",
			ErrInvalidConfiguration, c.Overlap, c.WindowSize)
	}
	return nil
}

// RetrievalSettings holds query-time defaults.
type RetrievalSettings struct {
	// TopK is the default number of primary results per query.
	TopK int

	// ContextWindow is the default adjacency window: how many
	// neighbouring indices are expanded on each side of a primary
	// result. Zero disables expansion.
	ContextWindow int
}

// StorageSettings holds chunk store configuration.
type StorageSettings struct {
	// DataDir is the directory holding the SQLite database.
	// Empty selects ~/.weft/data.
	DataDir string

	// EmbedWorkers bounds concurrent embedding calls during upsert.
	// Zero selects the default pool size.
	EmbedWorkers int
}

// IngestSettings holds ingestion configuration.
type IngestSettings struct {
	// WatchDir, when set, is monitored for file changes; new and
	// modified files are ingested automatically, removed files have
	// their source deleted.
	WatchDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds windowing parameters.
	Chunking ChunkingSettings

	// Retrieval holds query-time defaults.
	Retrieval RetrievalSettings

	// Storage holds chunk store settings.
	Storage StorageSettings

	// Ingest holds ingestion settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users must supply credentials
// via the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      "text-embedding-3-large",
			Dimensions: 3072,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-4o",
			Temperature: 0.3,
		},
		Chunking: ChunkingSettings{
			WindowSize: 800,
			Overlap:    100,
		},
		Retrieval: RetrievalSettings{
			TopK:          5,
			ContextWindow: 1,
		},
		Storage: StorageSettings{},
		Ingest:  IngestSettings{},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-large",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
