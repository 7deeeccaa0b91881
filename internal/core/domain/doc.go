// Package domain defines the core business entities for pravo-bot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - LegalDocument: An identified legal text and its validation rules
//   - Chunk: A titled retrievable unit derived from a document
//   - VectorRecord: A chunk paired with its embedding inside a collection
//   - Session: Conversational state owned by the chat adapter
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
