// Package sqlite persists document metadata and chunks for local
// deployments. Ingestion writes through the maintenance methods; the
// retrieval core only reads, through the driven.DocumentStore view.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/confluo-search/confluo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
)

// Store is a SQLite-backed metadata store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.confluo/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
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

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL keeps readers unblocked while ingestion writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns the read-only view used by the retrieval core.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores or updates document metadata.
func (s *Store) SaveDocument(ctx context.Context, doc domain.DocumentRef) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, title, category, tags, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			category = excluded.category,
			tags = excluded.tags,
			uploaded_at = excluded.uploaded_at
	`, doc.ID, doc.Filename, doc.Title, doc.Category,
		encodeTags(doc.Tags), doc.UploadedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks replaces the chunks of a document. Re-ingestion supersedes
// rather than mutates: the old rows go away atomically with the insert.
func (s *Store) SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", documentID,
	); err != nil {
		return fmt.Errorf("deleting superseded chunks: %w", err)
	}

	for _, c := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, position, text, token_count)
			VALUES (?, ?, ?, ?, ?)
		`, c.ID, c.DocumentID, c.Index, c.Text, c.TokenCount); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// DeleteDocument removes a document and, via cascade, its chunks.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns all document refs, newest upload first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, title, category, tags, uploaded_at
		FROM documents ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRef
	for rows.Next() {
		var doc domain.DocumentRef
		var tags string
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Category,
			&tags, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Tags = decodeTags(tags)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ChunkIDs returns a document's chunk IDs in position order. Callers use
// this to remove the chunks from secondary indexes before deleting the
// document itself.
func (s *Store) ChunkIDs(ctx context.Context, documentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_id = ? ORDER BY position", documentID)
	if err != nil {
		return nil, fmt.Errorf("listing chunk ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// GetChunks retrieves the chunks for the given IDs in one query.
func (d *documentStore) GetChunks(ctx context.Context, ids []string) (map[string]domain.Chunk, error) {
	if len(ids) == 0 {
		return map[string]domain.Chunk{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, document_id, position, text, token_count
		FROM chunks WHERE id IN (%s)
	`, placeholders(len(ids)))

	rows, err := d.store.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Chunk, len(ids))
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Text, &c.TokenCount); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}

// GetDocuments retrieves document metadata for the given IDs in one query.
func (d *documentStore) GetDocuments(ctx context.Context, ids []string) (map[string]domain.DocumentRef, error) {
	if len(ids) == 0 {
		return map[string]domain.DocumentRef{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, filename, title, category, tags, uploaded_at
		FROM documents WHERE id IN (%s)
	`, placeholders(len(ids)))

	rows, err := d.store.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.DocumentRef, len(ids))
	for rows.Next() {
		var doc domain.DocumentRef
		var tags string
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Category,
			&tags, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Tags = decodeTags(tags)
		out[doc.ID] = doc
	}
	return out, rows.Err()
}

// ==================== helpers ====================

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// encodeTags stores tags space-padded so LIKE-based containment checks
// match whole tags only.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

func decodeTags(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
