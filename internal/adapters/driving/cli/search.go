package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/services"
	"github.com/confluo-search/confluo/internal/logger"
)

var (
	searchLimit     int
	searchJSON      bool
	searchMode      string
	searchSemWeight float64
	searchTxtWeight float64
	searchThreshold float64
	searchCategory  string
	searchTags      []string
	searchAfter     string
	searchBefore    string
	searchMaxChunks int
	searchMaxTokens int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs hybrid search across all indexed documents.
Combines keyword (BM25) and semantic (vector) search for best results.

Weights control how the two branches blend. Unset weights come from the
[ranking] section of the config file, falling back to 0.6 semantic /
0.4 text. With --mode auto the query itself picks the branch: quoted
phrases and filename-like tokens go lexical, natural-language questions
go semantic, everything else stays hybrid.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default 10)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchMode, "mode", "hybrid", "retrieval mode: hybrid, semantic, lexical, auto")
	searchCmd.Flags().Float64Var(&searchSemWeight, "semantic-weight", 0, "vector branch weight in [0,1]")
	searchCmd.Flags().Float64Var(&searchTxtWeight, "text-weight", 0, "full-text branch weight in [0,1]")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum normalized semantic score in [0,1]")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only match documents in this category")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "only match documents carrying this tag (repeatable)")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "only match documents uploaded after this date (RFC 3339 or YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "only match documents uploaded before this date (RFC 3339 or YYYY-MM-DD)")
	searchCmd.Flags().IntVar(&searchMaxChunks, "max-chunks", 0, "cap results for context assembly (0 = no cap)")
	searchCmd.Flags().IntVar(&searchMaxTokens, "max-tokens", 0, "cap total result tokens for context assembly (0 = no cap)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	req, err := buildRequest(query)
	if err != nil {
		return err
	}

	results, err := retrievalService.HybridSearch(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchMaxChunks > 0 || searchMaxTokens > 0 {
		results = services.BudgetResults(results, searchMaxChunks, searchMaxTokens)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func buildRequest(query string) (domain.RetrievalRequest, error) {
	req := domain.RetrievalRequest{
		Query:          query,
		Limit:          searchLimit,
		SemanticWeight: searchSemWeight,
		TextWeight:     searchTxtWeight,
		Threshold:      searchThreshold,
		Filter: domain.SearchFilter{
			Category: searchCategory,
			Tags:     searchTags,
		},
	}

	var err error
	if req.Filter.UploadedAfter, err = parseDateFlag(searchAfter); err != nil {
		return req, fmt.Errorf("invalid --after: %w", err)
	}
	if req.Filter.UploadedBefore, err = parseDateFlag(searchBefore); err != nil {
		return req, fmt.Errorf("invalid --before: %w", err)
	}

	// Flag weights win over config weights; both zero means the
	// service applies its own defaults.
	if req.SemanticWeight == 0 && req.TextWeight == 0 && configStore != nil {
		req.SemanticWeight = configStore.GetFloat("ranking.semantic_weight")
		req.TextWeight = configStore.GetFloat("ranking.text_weight")
	}

	switch searchMode {
	case "hybrid", "":
	case "semantic":
		req.SemanticWeight, req.TextWeight = 1, 0
	case "lexical":
		req.SemanticWeight, req.TextWeight = 0, 1
	case "auto":
		switch mode := services.ClassifyQuery(query); mode {
		case services.QuerySemantic:
			req.SemanticWeight, req.TextWeight = 1, 0
		case services.QueryLexical:
			req.SemanticWeight, req.TextWeight = 0, 1
		default:
		}
		logger.Debug("Auto mode classified query as %s", services.ClassifyQuery(query))
	default:
		return req, fmt.Errorf("unknown mode %q (want hybrid, semantic, lexical or auto)", searchMode)
	}

	return req, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.Filename
		}

		cmd.Printf("  [%d] %s (%.2f, %s)\n", i+1, title, results[i].CombinedScore, results[i].MatchedVia)
		if results[i].Document.Category != "" {
			cmd.Printf("      Category: %s\n", results[i].Document.Category)
		}
		if results[i].Snippet != "" {
			cmd.Printf("      %s\n", results[i].Snippet)
		}
		cmd.Println()
	}

	return nil
}
