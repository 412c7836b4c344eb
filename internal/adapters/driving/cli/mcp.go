package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confluo-search/confluo/internal/adapters/driving/mcp"
	"github.com/confluo-search/confluo/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  confluo mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  confluo mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "confluo": {
        "command": "/path/to/confluo",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Config:    configStore,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// The server is long-running, so follow config file edits. A
	// changed ranking weight applies to the next search call.
	if configStore != nil {
		stop, err := configStore.Watch(func() {
			logger.Info("Config reloaded from %s", configStore.Path())
		})
		if err != nil {
			logger.Warn("Config watching disabled: %v", err)
		} else {
			defer stop()
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
