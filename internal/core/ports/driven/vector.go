package driven

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// VectorIndex provides nearest-neighbour retrieval over chunk embeddings.
// The index is populated by ingestion, outside this engine; the retrieval
// core only queries it.
type VectorIndex interface {
	// QueryVectors finds the k nearest neighbours to the query vector,
	// ordered ascending by cosine distance (closer first). The filter is
	// applied inside the index so both branches see comparable candidate
	// pools. Returns domain.ErrIndexUnavailable when the store cannot be
	// reached; the caller degrades that branch rather than failing.
	QueryVectors(ctx context.Context, vector []float32, k int, filter domain.SearchFilter) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a single nearest-neighbour candidate.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Distance is the cosine distance in [0,2]; lower is more similar.
	Distance float64
}
