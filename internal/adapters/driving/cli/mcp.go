package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/mcp"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/logger"
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

The server exposes:
  - tool ask             answer a question about one document
  - tool list_documents  list documents and index state
  - resource pravo://documents/{id}  cached document text

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  pravo mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pravo mcp serve --port 8080`,
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

	a, err := getApp()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{Engines: a.Engines()}
	for _, doc := range domain.Catalog() {
		source, err := a.Source(doc.ID)
		if err != nil {
			continue
		}
		ports.Sources = append(ports.Sources, source)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		if err := a.WatchPrompts(ctx); err != nil {
			logger.Warn("prompt watcher: %v", err)
		}
	}()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
