package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confluo-search/confluo/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck
	return store
}

func testDoc(id string) domain.DocumentRef {
	return domain.DocumentRef{
		ID:         id,
		Filename:   id + ".md",
		Title:      "Doc " + id,
		Category:   "guides",
		Tags:       []string{"go", "db"},
		UploadedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func testChunks(docID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         docID + "-chunk-" + string(rune('a'+i)),
			DocumentID: docID,
			Index:      i,
			Text:       "chunk text",
			TokenCount: 10 + i,
		}
	}
	return chunks
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDoc("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	docs, err := store.DocumentStore().GetDocuments(ctx, []string{"doc-1"})
	require.NoError(t, err)
	require.Contains(t, docs, "doc-1")

	got := docs["doc-1"]
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Category, got.Category)
	assert.Equal(t, doc.Tags, got.Tags)
	assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
}

func TestStore_SaveDocument_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDoc("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.Title = "Renamed"
	require.NoError(t, store.SaveDocument(ctx, doc))

	docs, err := store.DocumentStore().GetDocuments(ctx, []string{"doc-1"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", docs["doc-1"].Title)
}

func TestStore_SaveAndGetChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("doc-1")))
	chunks := testChunks("doc-1", 3)
	require.NoError(t, store.SaveChunks(ctx, "doc-1", chunks))

	got, err := store.DocumentStore().GetChunks(ctx, []string{chunks[0].ID, chunks[2].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, chunks[0].Text, got[chunks[0].ID].Text)
	assert.Equal(t, 2, got[chunks[2].ID].Index)
	assert.Equal(t, 12, got[chunks[2].ID].TokenCount)
}

func TestStore_GetChunks_MissingIDsOmitted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("doc-1")))
	chunks := testChunks("doc-1", 1)
	require.NoError(t, store.SaveChunks(ctx, "doc-1", chunks))

	got, err := store.DocumentStore().GetChunks(ctx, []string{chunks[0].ID, "gone"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotContains(t, got, "gone")
}

func TestStore_SaveChunks_SupersedesOldChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("doc-1")))
	old := testChunks("doc-1", 2)
	require.NoError(t, store.SaveChunks(ctx, "doc-1", old))

	replacement := []domain.Chunk{{
		ID: "doc-1-new", DocumentID: "doc-1", Index: 0, Text: "fresh", TokenCount: 5,
	}}
	require.NoError(t, store.SaveChunks(ctx, "doc-1", replacement))

	ids, err := store.ChunkIDs(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1-new"}, ids)

	// The superseded rows are gone entirely
	got, err := store.DocumentStore().GetChunks(ctx, []string{old[0].ID})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteDocument_CascadesToChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("doc-1")))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", testChunks("doc-1", 2)))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	ids, err := store.ChunkIDs(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_ListDocuments_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testDoc("doc-old")
	older.UploadedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testDoc("doc-new")
	newer.UploadedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, older))
	require.NoError(t, store.SaveDocument(ctx, newer))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-new", docs[0].ID)
	assert.Equal(t, "doc-old", docs[1].ID)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.SaveDocument(context.Background(), testDoc("doc-1")))
	require.NoError(t, store1.Close())

	// Reopening must not rerun applied migrations or lose data
	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close() //nolint:errcheck

	docs, err := store2.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStore_EmptyIDLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks, err := store.DocumentStore().GetChunks(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	docs, err := store.DocumentStore().GetDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
