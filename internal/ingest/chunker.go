package ingest

import (
	"github.com/google/uuid"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits normalized text into fixed-size chunks. Consecutive
// chunks overlap so sentences straddling a boundary stay searchable in
// at least one piece.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for the window to advance
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into chunks owned by the given document. Empty
// text produces no chunks.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	textLen := len(text)
	estimated := (textLen / (c.chunkSize - c.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < textLen {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		piece := text[start:end]
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Index:      position,
			Text:       piece,
			TokenCount: EstimateTokens(piece),
		})
		position++

		if end == textLen {
			break
		}
		start += c.chunkSize - c.overlap
	}

	return chunks
}

// EstimateTokens approximates the token count of a text. Four
// characters per token tracks common BPE vocabularies closely enough
// for budgeting.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
