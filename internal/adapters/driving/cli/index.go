package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/ingest"
	"github.com/confluo-search/confluo/internal/logger"
)

var (
	indexTitle    string
	indexCategory string
	indexTags     []string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the document index",
	Long:  `Add, remove and list documents in the local indexes.`,
}

var indexAddCmd = &cobra.Command{
	Use:   "add [file]...",
	Short: "Index one or more text files",
	Long: `Reads each file, splits it into chunks and writes them to the
metadata store and the full-text index. When a vector index is
configured the chunks are embedded and written there as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexAdd,
}

var indexRemoveCmd = &cobra.Command{
	Use:   "rm [document-id]",
	Short: "Remove a document from all indexes",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexRemove,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runIndexList,
}

func init() {
	indexAddCmd.Flags().StringVar(&indexTitle, "title", "", "document title (default: file name)")
	indexAddCmd.Flags().StringVar(&indexCategory, "category", "", "document category")
	indexAddCmd.Flags().StringSliceVar(&indexTags, "tag", nil, "document tag (repeatable)")
	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexRemoveCmd)
	indexCmd.AddCommand(indexListCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	if metaStore == nil || searchIndex == nil {
		return errors.New("index stores not configured")
	}

	for _, path := range args {
		if err := indexFile(cmd, path); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
	}
	return nil
}

func indexFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	title, text := ingest.Normalize(path, data)
	if indexTitle != "" {
		title = indexTitle
	}

	doc := domain.DocumentRef{
		ID:         uuid.NewString(),
		Filename:   filepath.Base(path),
		Title:      title,
		Category:   indexCategory,
		Tags:       indexTags,
		UploadedAt: time.Now().UTC(),
	}

	chunks := newChunker().Chunk(doc.ID, text)
	if len(chunks) == 0 {
		logger.Warn("Skipping %s: no indexable text", path)
		return nil
	}

	ctx := cmd.Context()
	if err := metaStore.SaveDocument(ctx, doc); err != nil {
		return err
	}
	if err := metaStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := searchIndex.Index(ctx, c, doc); err != nil {
			return err
		}
	}

	if vectorIndex != nil && embeddingSvc != nil {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		vectors, err := embeddingSvc.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Embedding failed, document indexed lexical-only: %v", err)
		} else {
			for i, c := range chunks {
				if err := vectorIndex.Add(ctx, c, doc, vectors[i]); err != nil {
					return err
				}
			}
		}
	}

	cmd.Printf("Indexed %s as %s (%d chunks)\n", path, doc.ID, len(chunks))
	return nil
}

func runIndexRemove(cmd *cobra.Command, args []string) error {
	if metaStore == nil || searchIndex == nil {
		return errors.New("index stores not configured")
	}

	ctx := cmd.Context()
	docID := args[0]

	// Secondary indexes key by chunk, so collect the IDs before the
	// cascade delete takes them away.
	chunkIDs, err := metaStore.ChunkIDs(ctx, docID)
	if err != nil {
		return err
	}
	if len(chunkIDs) == 0 {
		return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}

	for _, id := range chunkIDs {
		if err := searchIndex.Delete(ctx, id); err != nil {
			return err
		}
		if vectorIndex != nil {
			if err := vectorIndex.Delete(ctx, id); err != nil {
				logger.Warn("Vector index delete failed for chunk %s: %v", id, err)
			}
		}
	}

	if err := metaStore.DeleteDocument(ctx, docID); err != nil {
		return err
	}

	cmd.Printf("Removed %s (%d chunks)\n", docID, len(chunkIDs))
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	if metaStore == nil {
		return errors.New("index stores not configured")
	}

	docs, err := metaStore.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for _, doc := range docs {
		line := fmt.Sprintf("%s  %s", doc.ID, doc.Filename)
		if doc.Category != "" {
			line += "  [" + doc.Category + "]"
		}
		cmd.Println(line)
	}
	return nil
}

// newChunker builds a chunker from config, falling back to the ingest
// package defaults.
func newChunker() *ingest.Chunker {
	var opts []ingest.Option
	if configStore != nil {
		if size := configStore.GetInt("ingest.chunk_size"); size > 0 {
			opts = append(opts, ingest.WithChunkSize(size))
		}
		if overlap := configStore.GetInt("ingest.chunk_overlap"); overlap > 0 {
			opts = append(opts, ingest.WithOverlap(overlap))
		}
	}
	return ingest.NewChunker(opts...)
}
