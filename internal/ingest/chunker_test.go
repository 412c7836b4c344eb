package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewChunker()
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, c.overlap)
	})

	t.Run("custom size and overlap", func(t *testing.T) {
		c := NewChunker(WithChunkSize(500), WithOverlap(100))
		assert.Equal(t, 500, c.chunkSize)
		assert.Equal(t, 100, c.overlap)
	})

	t.Run("overlap exceeding chunk size is reduced", func(t *testing.T) {
		c := NewChunker(WithChunkSize(100), WithOverlap(150))
		assert.Less(t, c.overlap, c.chunkSize)
	})

	t.Run("non-positive values ignored", func(t *testing.T) {
		c := NewChunker(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, c.overlap)
	})
}

func TestChunker_Chunk_Empty(t *testing.T) {
	assert.Empty(t, NewChunker().Chunk("doc-1", ""))
}

func TestChunker_Chunk_ShortText(t *testing.T) {
	chunks := NewChunker().Chunk("doc-1", "short text")

	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "short text", chunks[0].Text)
	assert.Positive(t, chunks[0].TokenCount)
}

func TestChunker_Chunk_OverlappingWindows(t *testing.T) {
	c := NewChunker(WithChunkSize(100), WithOverlap(20))
	text := strings.Repeat("abcdefghij", 25) // 250 chars

	chunks := c.Chunk("doc-1", text)

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.LessOrEqual(t, len(chunk.Text), 100)
	}

	// The start of each chunk repeats the tail of the previous one
	assert.Equal(t, chunks[0].Text[80:], chunks[1].Text[:20])
	assert.Equal(t, chunks[1].Text[80:], chunks[2].Text[:20])
}

func TestChunker_Chunk_UniqueIDs(t *testing.T) {
	c := NewChunker(WithChunkSize(50), WithOverlap(10))
	chunks := c.Chunk("doc-1", strings.Repeat("x", 500))

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		assert.False(t, seen[chunk.ID], "duplicate chunk id %s", chunk.ID)
		seen[chunk.ID] = true
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("ab"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}
