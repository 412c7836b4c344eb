package services

import (
	"github.com/confluo-search/confluo/internal/core/domain"
)

// BudgetResults selects a prefix of the ranked results that fits within
// maxChunks results and maxTokens cumulative tokens. Input order is
// preserved: the list is already rank-sorted, and rank order wins over
// token-packing optimality. Selection stops at the first result that
// would exceed either limit; it never skips ahead to a smaller later
// result.
//
// A non-positive maxChunks or maxTokens disables that bound. The function
// never fails: if even the top result alone exceeds the token budget the
// result is empty, but a top result that fits on its own is always
// included.
func BudgetResults(results []domain.ScoredResult, maxChunks, maxTokens int) []domain.ScoredResult {
	selected := make([]domain.ScoredResult, 0, len(results))
	usedTokens := 0

	for _, r := range results {
		if maxChunks > 0 && len(selected) >= maxChunks {
			break
		}
		if maxTokens > 0 && usedTokens+r.Chunk.TokenCount > maxTokens {
			break
		}
		selected = append(selected, r)
		usedTokens += r.Chunk.TokenCount
	}

	return selected
}
