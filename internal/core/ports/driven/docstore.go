package driven

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// DocumentStore is the read-only boundary to chunk and document metadata.
// Chunks and documents are written entirely by ingestion; the retrieval
// core only hydrates merged results through this port.
//
// Lookups are not assumed to be free: the core batches them rather than
// issuing one round trip per chunk, which is why the port is batch-shaped.
type DocumentStore interface {
	// GetChunks retrieves the chunks for the given IDs in one round
	// trip. IDs that no longer exist are silently absent from the
	// result (the chunk was superseded between indexing and lookup).
	GetChunks(ctx context.Context, ids []string) (map[string]domain.Chunk, error)

	// GetDocuments retrieves document metadata for the given document
	// IDs in one round trip. Missing IDs are absent from the result.
	GetDocuments(ctx context.Context, ids []string) (map[string]domain.DocumentRef, error)
}
