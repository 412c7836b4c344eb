package driving

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// RetrievalService is the sole caller-facing entry point of the engine.
type RetrievalService interface {
	// HybridSearch combines semantic and lexical retrieval into a single
	// deduplicated, ranked result list of at most request.Limit entries.
	//
	// A failing branch degrades to empty results; the shape of a
	// degraded result set is identical to a full hybrid one, differing
	// only in the MatchedVia distribution. The call fails only when
	// every branch fails (domain.ErrRetrievalUnavailable) or every
	// branch times out (domain.ErrRetrievalTimeout).
	HybridSearch(ctx context.Context, req domain.RetrievalRequest) ([]domain.ScoredResult, error)
}
