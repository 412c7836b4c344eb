package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confluo-search/confluo/internal/core/domain"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	s.AddDocument(domain.DocumentRef{
		ID:         "doc-1",
		Title:      "Incident Runbook",
		Category:   "runbooks",
		Tags:       []string{"oncall"},
		UploadedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	s.AddDocument(domain.DocumentRef{
		ID:         "doc-2",
		Title:      "Billing FAQ",
		Category:   "faq",
		UploadedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	s.AddChunk(domain.Chunk{
		ID: "c1", DocumentID: "doc-1", Index: 0,
		Text: "page the oncall engineer when latency spikes", TokenCount: 9,
	}, []float32{1, 0, 0})
	s.AddChunk(domain.Chunk{
		ID: "c2", DocumentID: "doc-1", Index: 1,
		Text: "rollback procedure for failed deploys", TokenCount: 6,
	}, []float32{0.9, 0.1, 0})
	s.AddChunk(domain.Chunk{
		ID: "c3", DocumentID: "doc-2", Index: 0,
		Text: "invoices are issued on the first of the month", TokenCount: 9,
	}, []float32{0, 1, 0})

	return s
}

func TestDocumentStore_BatchLookups(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	chunks, err := s.DocumentStore().GetChunks(ctx, []string{"c1", "c3", "missing"})
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "doc-1", chunks["c1"].DocumentID)

	docs, err := s.DocumentStore().GetDocuments(ctx, []string{"doc-2", "missing"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, "Billing FAQ", docs["doc-2"].Title)
}

func TestVectorIndex_OrdersByDistance(t *testing.T) {
	s := seedStore(t)

	hits, err := s.VectorIndex().QueryVectors(context.Background(), []float32{1, 0, 0}, 10, domain.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.Equal(t, "c2", hits[1].ChunkID)
	assert.Equal(t, "c3", hits[2].ChunkID)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
	assert.LessOrEqual(t, hits[1].Distance, hits[2].Distance)
}

func TestVectorIndex_RespectsKAndFilter(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	hits, err := s.VectorIndex().QueryVectors(ctx, []float32{1, 0, 0}, 1, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.VectorIndex().QueryVectors(ctx, []float32{1, 0, 0}, 10,
		domain.SearchFilter{Category: "faq"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c3", hits[0].ChunkID)
}

func TestSearchEngine_RanksByTermFrequency(t *testing.T) {
	s := seedStore(t)

	hits, err := s.SearchEngine().QueryText(context.Background(), "oncall", 10, domain.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.Contains(t, hits[0].Snippet, "oncall")
}

func TestSearchEngine_FilterPushdown(t *testing.T) {
	s := seedStore(t)

	hits, err := s.SearchEngine().QueryText(context.Background(), "the", 10,
		domain.SearchFilter{Tags: []string{"oncall"}})
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "c3", h.ChunkID, "filtered document leaked through")
	}
}

func TestStore_RemoveChunk(t *testing.T) {
	s := seedStore(t)
	s.RemoveChunk("c1")

	chunks, err := s.DocumentStore().GetChunks(context.Background(), []string{"c1"})
	require.NoError(t, err)
	assert.Empty(t, chunks)

	hits, err := s.VectorIndex().QueryVectors(context.Background(), []float32{1, 0, 0}, 10, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
