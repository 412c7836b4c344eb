// Package cli implements the confluo command line interface.
// Commands are thin: they parse flags, call driving ports, and format
// output. All wiring of driven adapters happens once in initServices.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confluo-search/confluo/internal/adapters/driven/config/file"
	"github.com/confluo-search/confluo/internal/adapters/driven/embedding/ollama"
	"github.com/confluo-search/confluo/internal/adapters/driven/embedding/openai"
	"github.com/confluo-search/confluo/internal/adapters/driven/index/pgvector"
	"github.com/confluo-search/confluo/internal/adapters/driven/index/sqlitefts"
	"github.com/confluo-search/confluo/internal/adapters/driven/storage/sqlite"
	"github.com/confluo-search/confluo/internal/core/ports/driven"
	"github.com/confluo-search/confluo/internal/core/ports/driving"
	"github.com/confluo-search/confluo/internal/core/services"
	"github.com/confluo-search/confluo/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services and adapters shared by the commands. Populated by
// initServices; tests inject fakes directly.
var (
	configStore      driven.ConfigStore
	retrievalService driving.RetrievalService

	metaStore    *sqlite.Store
	searchIndex  *sqlitefts.Engine
	vectorIndex  *pgvector.Reader
	embeddingSvc driven.EmbeddingService
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "confluo",
	Short: "Hybrid retrieval for local document collections",
	Long: `Confluo indexes documents into full-text and vector indexes and
answers queries with hybrid retrieval: BM25 keyword search and semantic
vector search, merged into a single ranked result list.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.confluo)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.confluo/data)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the driven adapters into the retrieval service.
// Safe to call more than once; subsequent calls are no-ops.
func initServices(ctx context.Context) error {
	if retrievalService != nil {
		return nil
	}

	var err error
	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	metaStore, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}

	searchIndex, err = sqlitefts.NewEngine(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening full-text index: %w", err)
	}

	embeddingSvc = newEmbeddingService()

	// The vector index is optional. Without it searches degrade to
	// lexical-only; indexing skips the embedding step.
	var vec driven.VectorIndex
	if connStr := configStore.GetString("postgres.connection_string"); connStr != "" {
		vectorIndex, err = pgvector.NewReader(ctx, pgvector.Config{
			ConnectionString: connStr,
			Dimensions:       embeddingSvc.Dimensions(),
		})
		if err != nil {
			logger.Warn("Vector index unavailable, continuing lexical-only: %v", err)
			vectorIndex = nil
		} else {
			vec = vectorIndex
		}
	}

	retrievalService = services.NewRetrievalService(
		metaStore.DocumentStore(), searchIndex, vec, embeddingSvc,
		services.Options{
			OverfetchFactor: configStore.GetInt("search.overfetch_factor"),
			BranchTimeout:   time.Duration(configStore.GetInt("search.branch_timeout_ms")) * time.Millisecond,
		})

	return nil
}

// newEmbeddingService builds the provider selected in config.
// Defaults to a local Ollama instance, which needs no credentials.
func newEmbeddingService() driven.EmbeddingService {
	switch configStore.GetString("embedding.provider") {
	case "openai":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  configStore.GetString("embedding.openai.api_key"),
			Model:   configStore.GetString("embedding.openai.model"),
			BaseURL: configStore.GetString("embedding.openai.base_url"),
		})
		if err != nil {
			logger.Warn("OpenAI embeddings not configured (%v), falling back to Ollama", err)
			break
		}
		return svc
	}
	return ollama.NewEmbeddingService(ollama.Config{
		BaseURL: configStore.GetString("embedding.ollama.base_url"),
		Model:   configStore.GetString("embedding.ollama.model"),
	})
}

func closeServices() {
	if searchIndex != nil {
		searchIndex.Close() //nolint:errcheck
	}
	if metaStore != nil {
		metaStore.Close() //nolint:errcheck
	}
	if vectorIndex != nil {
		vectorIndex.Close() //nolint:errcheck
	}
	if embeddingSvc != nil {
		embeddingSvc.Close() //nolint:errcheck
	}
}
