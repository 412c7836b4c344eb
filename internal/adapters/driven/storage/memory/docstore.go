package memory

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Ensure documentStore implements the interface.
var _ driven.DocumentStore = (*documentStore)(nil)

type documentStore struct {
	store *Store
}

func (d *documentStore) GetChunks(_ context.Context, ids []string) (map[string]domain.Chunk, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	out := make(map[string]domain.Chunk, len(ids))
	for _, id := range ids {
		if c, ok := d.store.chunks[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (d *documentStore) GetDocuments(_ context.Context, ids []string) (map[string]domain.DocumentRef, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	out := make(map[string]domain.DocumentRef, len(ids))
	for _, id := range ids {
		if doc, ok := d.store.docs[id]; ok {
			out[id] = doc
		}
	}
	return out, nil
}
