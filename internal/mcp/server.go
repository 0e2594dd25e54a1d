// Package mcp exposes the assistant to AI agents over the Model Context
// Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kwhalen/escalation-helper/internal/engine"
	"github.com/kwhalen/escalation-helper/internal/retrieval"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes knowledge-base search and the
// question-answering pipeline.
type Server struct {
	pipeline *retrieval.Pipeline
	engine   *engine.Engine
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(pipeline *retrieval.Pipeline, eng *engine.Engine) *Server {
	s := &Server{
		pipeline: pipeline,
		engine:   eng,
	}

	s.mcp = server.NewMCPServer(
		"eschelp",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeBaseTool, s.handleSearchKnowledgeBase)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
