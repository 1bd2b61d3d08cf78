package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Starts an SSE server exposing the course library and scaffolding
workflow as MCP tools for agent clients.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	wf, err := newCourseWorkflow()
	if err != nil {
		return err
	}

	srv := mcpserver.New(searcher, wf, cfg.Results)
	sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", cfg.McpAddr)))

	logger.Info("mcp server listening", "addr", cfg.McpAddr)
	return sse.Start(cfg.McpAddr)
}
