// Package domain defines the core business entities for Confluo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retrievable unit of document text
//   - DocumentRef: Presentation metadata attached to a chunk
//   - ScoredResult: A chunk with per-source and combined relevance scores
//   - RetrievalRequest: A validated hybrid search request
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
