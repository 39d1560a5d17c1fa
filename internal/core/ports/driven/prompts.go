package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystem is the system prompt for answer generation.
	// It instructs the model to ground answers in the supplied context
	// and cite sources as [Source: filename]. No format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptNoContext is the reply used when retrieval finds nothing
	// relevant. No format placeholders; the LLM is not called.
	PromptNoContext = "no_context"
)
