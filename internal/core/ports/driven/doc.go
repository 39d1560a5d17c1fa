// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Durable chunk persistence, similarity queries, id
//     lookups, and source-scoped deletes
//   - EmbeddingService: Generates vector embeddings for chunk content
//     and queries
//   - Extractor / ExtractorRegistry: Per-format text extraction,
//     dispatched by file extension
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, retrieval still works
//     but question answering is disabled.
//   - PromptStore: Customisable prompt templates. Without it, built-in
//     defaults are used.
//   - FileWatcher: Watch-folder ingestion. Without it, ingestion is
//     invocation-driven only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
