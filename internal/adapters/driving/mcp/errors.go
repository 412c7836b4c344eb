// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Confluo. It lets AI assistants like Claude run hybrid retrieval
// over the local document indexes.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
