// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SearchEngine: Full-text retrieval (BM25-style). The lexical branch.
//   - DocumentStore: Read-only chunk and document metadata lookup.
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - VectorIndex: Nearest-neighbour retrieval. Only enabled when an
//     EmbeddingService is configured.
//   - EmbeddingService: Generates query embeddings. Without it, the
//     vector branch is disabled and searches are lexical-only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
