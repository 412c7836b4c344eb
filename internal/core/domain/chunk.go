package domain

import "time"

// Chunk represents a retrievable unit of document text.
// Chunks are created by ingestion, outside this engine; the retrieval
// core only ever consumes immutable snapshots of them. Re-ingesting a
// document supersedes its chunks rather than mutating them.
type Chunk struct {
	// ID is the stable, unique identifier for the chunk.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// Index is the ordinal position within the document.
	// Non-negative and unique per document.
	Index int

	// Text is the chunk content. Never empty for a valid chunk.
	Text string

	// TokenCount is the approximate token count of Text.
	// Always positive; used by the context budgeter.
	TokenCount int
}

// DocumentRef is lightweight document metadata attached to a chunk for
// presentation and filtering. It is owned by the document store; the
// retrieval core reads it and never writes it.
type DocumentRef struct {
	// ID is the document identifier.
	ID string

	// Filename is the original file name, if any.
	Filename string

	// Title is the human-readable title.
	Title string

	// Category is a single coarse classification label.
	Category string

	// Tags is a set of free-form labels.
	Tags []string

	// UploadedAt is when the document entered the corpus.
	UploadedAt time.Time
}

// HasTag reports whether the document carries the given tag.
func (d DocumentRef) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
