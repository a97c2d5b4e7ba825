package cli

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/mcp"
	"github.com/custodia-labs/qapairs/internal/logger"
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

The server offers the segment_message and search_pairs tools and exposes the
records of the latest extraction as qapairs://records resources.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Examples:
  # Stdio mode (default)
  qapairs mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  qapairs mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("db", "", "record database file")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return eris.Wrap(err, "getting port flag")
	}

	settings, err := backend.Settings().Get()
	if err != nil {
		return eris.Wrap(err, "loading settings")
	}

	extraction, releaseExtraction, err := backend.Extraction(settings, false)
	if err != nil {
		return err
	}
	defer releaseExtraction() //nolint:errcheck

	ports := &mcp.Ports{Extraction: extraction}

	// Segmentation works without a database; record tools report none.
	records, releaseRecords, err := openRecords(cmd)
	if err != nil {
		logger.Warn("records unavailable: %v", err)
	} else {
		defer releaseRecords() //nolint:errcheck
		ports.Records = records
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
