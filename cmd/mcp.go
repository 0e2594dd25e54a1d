package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kwhalen/escalation-helper/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio for AI agent integration",
	Long: `Exposes search_knowledge_base and ask_question tools over the Model
Context Protocol. Stdout carries protocol messages, so all logging goes
to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, pipeline, _, err := buildEngine(ctx, cfg, false)
	if err != nil {
		return err
	}

	mcp.Version = Version
	return mcp.NewServer(pipeline, eng).Serve()
}
