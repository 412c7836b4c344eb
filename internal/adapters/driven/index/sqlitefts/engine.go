// Package sqlitefts implements the lexical retrieval branch on SQLite
// FTS5. Queries pass through in FTS5 MATCH syntax, unreinterpreted;
// relevance comes from bm25() and is opaque and ordinal to callers.
package sqlitefts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// snippetTokens is the context window snippet() builds around a match.
const snippetTokens = 16

// Engine is a SQLite FTS5 full-text index over chunks. Document metadata
// is denormalized into unindexed columns so filters push down into the
// same query that ranks.
type Engine struct {
	db   *sql.DB
	path string
}

// NewEngine opens (or creates) the FTS index at the given data directory.
// If dataDir is empty, defaults to ~/.confluo/data/index.db.
func NewEngine(dataDir string) (*Engine, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".confluo", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			text,
			chunk_id UNINDEXED,
			document_id UNINDEXED,
			category UNINDEXED,
			tags UNINDEXED,
			uploaded_at UNINDEXED
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating fts table: %w", err)
	}

	return &Engine{db: db, path: dbPath}, nil
}

// Index adds or replaces a chunk in the full-text index, denormalizing
// the owning document's filter metadata alongside it.
func (e *Engine) Index(ctx context.Context, chunk domain.Chunk, doc domain.DocumentRef) error {
	if _, err := e.db.ExecContext(ctx,
		"DELETE FROM chunks_fts WHERE chunk_id = ?", chunk.ID,
	); err != nil {
		return fmt.Errorf("removing stale entry: %w", err)
	}

	tags := ""
	if len(doc.Tags) > 0 {
		tags = " " + strings.Join(doc.Tags, " ") + " "
	}

	_, err := e.db.ExecContext(ctx, `
		INSERT INTO chunks_fts (text, chunk_id, document_id, category, tags, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chunk.Text, chunk.ID, chunk.DocumentID, doc.Category, tags,
		doc.UploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Delete removes a chunk from the index.
func (e *Engine) Delete(ctx context.Context, chunkID string) error {
	if _, err := e.db.ExecContext(ctx,
		"DELETE FROM chunks_fts WHERE chunk_id = ?", chunkID,
	); err != nil {
		return fmt.Errorf("deleting chunk %s: %w", chunkID, err)
	}
	return nil
}

// QueryText performs a ranked full-text search.
//
// FTS5's bm25() ranks better matches more negative, so ordering ascends
// on bm25 and the reported relevance is its negation: higher means more
// relevant, range still engine-defined.
func (e *Engine) QueryText(
	ctx context.Context, query string, limit int, filter domain.SearchFilter,
) ([]driven.TextHit, error) {
	if limit <= 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`
		SELECT chunk_id, bm25(chunks_fts),
		       snippet(chunks_fts, 0, '<b>', '</b>', '...', %d)
		FROM chunks_fts
		WHERE chunks_fts MATCH ?`, snippetTokens))
	args := []any{query}

	if filter.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}
	for _, tag := range filter.Tags {
		sb.WriteString(" AND tags LIKE ?")
		args = append(args, "% "+tag+" %")
	}
	if !filter.UploadedAfter.IsZero() {
		sb.WriteString(" AND uploaded_at >= ?")
		args = append(args, filter.UploadedAfter.UTC().Format(time.RFC3339))
	}
	if !filter.UploadedBefore.IsZero() {
		sb.WriteString(" AND uploaded_at <= ?")
		args = append(args, filter.UploadedBefore.UTC().Format(time.RFC3339))
	}

	sb.WriteString(" ORDER BY bm25(chunks_fts) LIMIT ?")
	args = append(args, limit)

	rows, err := e.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: fts query: %v", domain.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var hits []driven.TextHit
	for rows.Next() {
		var hit driven.TextHit
		var rank float64
		if err := rows.Scan(&hit.ChunkID, &rank, &hit.Snippet); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hit.Relevance = -rank
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Close releases the index handle.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Path returns the index file path.
func (e *Engine) Path() string {
	return e.path
}
