package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/services"
)

// fixedEmbedder returns the same vector for every input, so tests can
// steer the vector branch toward a known neighbourhood.
type fixedEmbedder struct {
	vec []float32
}

func (f *fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, nil
}

func (f *fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func (f *fixedEmbedder) Dimensions() int { return len(f.vec) }

func (f *fixedEmbedder) ModelName() string { return "fixed" }

func (f *fixedEmbedder) Ping(_ context.Context) error { return nil }

func (f *fixedEmbedder) Close() error { return nil }

// The store's three views are the full driven surface of a hybrid
// search, so the real retrieval service can run against it end to end.
func TestStore_BacksHybridSearch(t *testing.T) {
	s := seedStore(t)
	svc := services.NewRetrievalService(
		s.DocumentStore(),
		s.SearchEngine(),
		s.VectorIndex(),
		&fixedEmbedder{vec: []float32{1, 0, 0}},
		services.Options{},
	)

	results, err := svc.HybridSearch(context.Background(), domain.RetrievalRequest{
		Query: "oncall rollback",
		Limit: 10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// c1 matches both branches: closest to the query vector and the
	// only chunk containing "oncall".
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, domain.MatchedBoth, results[0].MatchedVia)
	assert.Equal(t, "Incident Runbook", results[0].Document.Title)

	for _, r := range results {
		assert.NotEmpty(t, r.Chunk.Text, "results must be hydrated")
	}
}

func TestStore_BacksLexicalOnlySearch(t *testing.T) {
	s := seedStore(t)

	// No vector index or embedder wired: the service degrades to the
	// lexical branch alone.
	svc := services.NewRetrievalService(
		s.DocumentStore(),
		s.SearchEngine(),
		nil,
		nil,
		services.Options{},
	)

	results, err := svc.HybridSearch(context.Background(), domain.RetrievalRequest{
		Query: "invoices",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c3", results[0].Chunk.ID)
	assert.Equal(t, domain.MatchedLexical, results[0].MatchedVia)
	assert.Nil(t, results[0].SemanticScore)
}
