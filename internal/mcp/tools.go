package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeBaseTool defines the search_knowledge_base MCP tool.
var searchKnowledgeBaseTool = mcp.NewTool("search_knowledge_base",
	mcp.WithDescription("Search the POS troubleshooting knowledge base semantically. Returns the most relevant articles with similarity scores."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language description of the issue"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 3)"),
	),
)

// askQuestionTool defines the ask_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Ask a troubleshooting question and get a grounded answer from the knowledge base. Low-confidence answers are flagged."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The support question to answer"),
	),
)
