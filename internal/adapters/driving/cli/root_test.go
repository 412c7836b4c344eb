package cli

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// fakeRetrievalService records the last request and returns canned results.
type fakeRetrievalService struct {
	results []domain.ScoredResult
	err     error
	lastReq domain.RetrievalRequest
}

func (f *fakeRetrievalService) HybridSearch(
	_ context.Context,
	req domain.RetrievalRequest,
) ([]domain.ScoredResult, error) {
	f.lastReq = req
	return f.results, f.err
}

// setupTestServices swaps in fakes so commands run without touching
// disk or network. The returned cleanup restores the previous wiring.
func setupTestServices(fake *fakeRetrievalService) func() {
	prevRetrieval := retrievalService
	prevConfig := configStore

	retrievalService = fake
	configStore = nil

	return func() {
		retrievalService = prevRetrieval
		configStore = prevConfig
	}
}

func sampleResults() []domain.ScoredResult {
	return []domain.ScoredResult{
		{
			Chunk: domain.Chunk{
				ID:         "chunk-1",
				DocumentID: "doc-1",
				Text:       "Connection pooling keeps latency down.",
				TokenCount: 40,
			},
			Document: domain.DocumentRef{
				ID:       "doc-1",
				Filename: "db-notes.md",
				Title:    "Database Notes",
				Category: "guides",
			},
			CombinedScore: 0.92,
			MatchedVia:    domain.MatchedBoth,
			Snippet:       "Connection <b>pooling</b> keeps latency down.",
		},
		{
			Chunk: domain.Chunk{
				ID:         "chunk-2",
				DocumentID: "doc-2",
				Text:       "Index maintenance runs nightly.",
				TokenCount: 30,
			},
			Document: domain.DocumentRef{
				ID:       "doc-2",
				Filename: "ops.md",
				Title:    "Operations",
			},
			CombinedScore: 0.41,
			MatchedVia:    domain.MatchedLexical,
		},
	}
}
