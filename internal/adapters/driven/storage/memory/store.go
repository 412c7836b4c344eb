// Package memory provides in-memory implementations of the retrieval
// ports. They back the local quickstart and the test suite; nothing here
// survives a process restart.
package memory

import (
	"sync"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Store holds chunks, document metadata, and embeddings behind one lock,
// and exposes each retrieval port as a view. The aggregate mirrors how
// the SQLite store hands out its interfaces from one handle.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
	docs   map[string]domain.DocumentRef
	// embeddings maps chunk ID to its vector; absent entries simply
	// never match the vector view.
	embeddings map[string][]float32
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		chunks:     make(map[string]domain.Chunk),
		docs:       make(map[string]domain.DocumentRef),
		embeddings: make(map[string][]float32),
	}
}

// AddDocument registers document metadata.
func (s *Store) AddDocument(doc domain.DocumentRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// AddChunk registers a chunk, optionally with its embedding.
func (s *Store) AddChunk(chunk domain.Chunk, embedding []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.ID] = chunk
	if embedding != nil {
		s.embeddings[chunk.ID] = embedding
	}
}

// RemoveChunk deletes a chunk and its embedding.
func (s *Store) RemoveChunk(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, id)
	delete(s.embeddings, id)
}

// DocumentStore returns the metadata-lookup view.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorIndex returns the exact-scan nearest-neighbour view.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// SearchEngine returns the term-overlap full-text view.
func (s *Store) SearchEngine() driven.SearchEngine {
	return &searchEngine{store: s}
}

// matchesFilter reports whether the chunk's document passes the filter.
// Chunks whose document is unknown are excluded by any non-zero filter.
func (s *Store) matchesFilter(chunk domain.Chunk, filter domain.SearchFilter) bool {
	if filter.IsZero() {
		return true
	}
	doc, ok := s.docs[chunk.DocumentID]
	if !ok {
		return false
	}
	return filter.Matches(doc)
}
