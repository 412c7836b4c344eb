package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/confluo-search/confluo/internal/core/domain"
	"github.com/confluo-search/confluo/internal/core/services"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query          string   `json:"query" jsonschema:"the search query to find document chunks"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	SemanticWeight float64  `json:"semantic_weight,omitempty" jsonschema:"vector branch weight in [0,1]; defaults to configuration"`
	TextWeight     float64  `json:"text_weight,omitempty" jsonschema:"full-text branch weight in [0,1]; defaults to configuration"`
	Threshold      float64  `json:"threshold,omitempty" jsonschema:"minimum normalized semantic score in [0,1]"`
	Category       string   `json:"category,omitempty" jsonschema:"only match documents in this category"`
	Tags           []string `json:"tags,omitempty" jsonschema:"only match documents carrying all of these tags"`
	MaxChunks      int      `json:"max_chunks,omitempty" jsonschema:"cap the number of returned chunks for context assembly"`
	MaxTokens      int      `json:"max_tokens,omitempty" jsonschema:"cap the total token count of returned chunks"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Filename   string  `json:"filename"`
	Category   string  `json:"category,omitempty"`
	Score      float64 `json:"score"`
	MatchedVia string  `json:"matched_via"`
	Snippet    string  `json:"snippet,omitempty"`
	Text       string  `json:"text"`
	TokenCount int     `json:"token_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid search (keyword and semantic) across all indexed documents",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := domain.RetrievalRequest{
		Query:          input.Query,
		Limit:          input.Limit,
		SemanticWeight: input.SemanticWeight,
		TextWeight:     input.TextWeight,
		Threshold:      input.Threshold,
		Filter: domain.SearchFilter{
			Category: input.Category,
			Tags:     input.Tags,
		},
	}

	// Unset weights come from configuration. The config store reloads
	// on file change, so a weight edit applies to the next call.
	if req.SemanticWeight == 0 && req.TextWeight == 0 && s.ports.Config != nil {
		req.SemanticWeight = s.ports.Config.GetFloat("ranking.semantic_weight")
		req.TextWeight = s.ports.Config.GetFloat("ranking.text_weight")
	}

	results, err := s.ports.Retrieval.HybridSearch(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	if input.MaxChunks > 0 || input.MaxTokens > 0 {
		results = services.BudgetResults(results, input.MaxChunks, input.MaxTokens)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].Chunk.ID,
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Title,
			Filename:   results[i].Document.Filename,
			Category:   results[i].Document.Category,
			Score:      results[i].CombinedScore,
			MatchedVia: results[i].MatchedVia.String(),
			Snippet:    results[i].Snippet,
			Text:       results[i].Chunk.Text,
			TokenCount: results[i].Chunk.TokenCount,
		}
	}

	return nil, output, nil
}
