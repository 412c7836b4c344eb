package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// uriScheme is the custom URI scheme for Confluo resources.
const uriScheme = "confluo://"

// rankingConfig mirrors the [ranking] config section for clients that
// want to know how scores are blended.
type rankingConfig struct {
	SemanticWeight float64 `json:"semantic_weight"`
	TextWeight     float64 `json:"text_weight"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ranking",
		Name:        "ranking",
		Description: "Current ranking weights used by hybrid search",
		MIMEType:    "application/json",
	}, s.handleRankingResource)
}

// handleRankingResource returns the active ranking weights.
func (s *Server) handleRankingResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	cfg := rankingConfig{
		SemanticWeight: domain.DefaultSemanticWeight,
		TextWeight:     domain.DefaultTextWeight,
	}
	if s.ports.Config != nil {
		if w := s.ports.Config.GetFloat("ranking.semantic_weight"); w > 0 {
			cfg.SemanticWeight = w
		}
		if w := s.ports.Config.GetFloat("ranking.text_weight"); w > 0 {
			cfg.TextWeight = w
		}
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
