package memory

import (
	"context"
	"math"
	"sort"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Ensure vectorIndex implements the interface.
var _ driven.VectorIndex = (*vectorIndex)(nil)

// vectorIndex performs an exact cosine scan over stored embeddings.
// Fine for tests and small local corpora; real deployments use the
// pgvector adapter.
type vectorIndex struct {
	store *Store
}

func (v *vectorIndex) QueryVectors(
	_ context.Context, vector []float32, k int, filter domain.SearchFilter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.store.embeddings))
	for id, emb := range v.store.embeddings {
		chunk, ok := v.store.chunks[id]
		if !ok || !v.store.matchesFilter(chunk, filter) {
			continue
		}
		if len(emb) != len(vector) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:  id,
			Distance: cosineDistance(vector, emb),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (v *vectorIndex) Close() error { return nil }

// cosineDistance is 1 minus the cosine similarity, in [0,2].
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
