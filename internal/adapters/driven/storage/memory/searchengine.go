package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Ensure searchEngine implements the interface.
var _ driven.SearchEngine = (*searchEngine)(nil)

// searchEngine scores chunks by query-term frequency. The scores are
// deliberately unnormalized: callers must treat them as opaque and
// ordinal, exactly as they would a real engine's BM25 output.
type searchEngine struct {
	store *Store
}

func (e *searchEngine) QueryText(
	_ context.Context, query string, limit int, filter domain.SearchFilter,
) ([]driven.TextHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	hits := make([]driven.TextHit, 0)
	for id, chunk := range e.store.chunks {
		if !e.store.matchesFilter(chunk, filter) {
			continue
		}
		lower := strings.ToLower(chunk.Text)
		score := 0.0
		for _, term := range terms {
			score += float64(strings.Count(lower, term))
		}
		if score == 0 {
			continue
		}
		hits = append(hits, driven.TextHit{
			ChunkID:   id,
			Relevance: score,
			Snippet:   snippetAround(chunk.Text, terms[0]),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (e *searchEngine) Close() error { return nil }

// snippetAround extracts a window of text around the first occurrence of
// the term.
func snippetAround(text, term string) string {
	const window = 80

	idx := strings.Index(strings.ToLower(text), term)
	if idx < 0 {
		if len(text) > window*2 {
			return text[:window*2] + "..."
		}
		return text
	}

	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + len(term) + window
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}
