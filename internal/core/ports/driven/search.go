package driven

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// SearchEngine provides full-text retrieval over chunk text.
// The query string is passed through in the underlying engine's syntax,
// never reinterpreted by the core.
type SearchEngine interface {
	// QueryText performs a keyword search, ordered descending by
	// relevance. Relevance scores are opaque and ordinal: they are only
	// meaningful for ranking within a single result batch, and their
	// range is engine-defined. Returns domain.ErrIndexUnavailable when
	// the engine cannot be reached.
	QueryText(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]TextHit, error)

	// Close releases resources.
	Close() error
}

// TextHit is a single full-text candidate.
type TextHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Relevance is the engine's raw score (e.g., BM25). Opaque range;
	// only its ordering is meaningful until normalized.
	Relevance float64

	// Snippet is a highlighted excerpt around the match, when the
	// engine provides one.
	Snippet string
}
