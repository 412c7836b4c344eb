package mcp

import (
	"github.com/confluo-search/confluo/internal/core/ports/driven"
	"github.com/confluo-search/confluo/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers hybrid search calls.
	Retrieval driving.RetrievalService

	// Config supplies ranking weights for calls that do not set their
	// own. Optional; without it the service defaults apply.
	Config driven.ConfigStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
