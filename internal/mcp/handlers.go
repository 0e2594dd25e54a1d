package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// handleSearchKnowledgeBase performs semantic search over the knowledge base.
func (s *Server) handleSearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 3)
	if limit <= 0 {
		limit = 3
	}

	chunks, err := s.pipeline.Retrieve(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	if len(chunks) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may not be indexed yet. Run `eschelp ingest` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(chunks)), nil
}

// handleAskQuestion runs the full pipeline and returns a grounded answer.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	res, err := s.engine.AskOnce(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(res.Answer)
	if len(res.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for _, src := range res.Sources {
			sb.WriteString(fmt.Sprintf("- %s\n", src))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts retrieved chunks into a rich text format
// optimized for AI agent consumption.
func formatSearchResults(chunks []vectordb.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(chunks)))

	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Source: %s\n", c.Chunk.Source))
		sb.WriteString(fmt.Sprintf("Relevance: %s (%.1f%% similar)\n", c.RelevanceLabel(), c.SimilarityPct()))
		sb.WriteString("\n")
		sb.WriteString(c.Chunk.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
