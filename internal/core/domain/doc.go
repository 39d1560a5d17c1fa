// Package domain defines the core business entities for Weft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An overlapping token window of a source document
//   - ScoredChunk: A chunk paired with a similarity score
//   - RetrievalResult: A primary chunk plus its sequential neighbours
//   - RawFile: Opaque bytes read from disk, before text extraction
//   - BatchReport: Per-file outcomes of one ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
