// Package llm abstracts the chat-completion backends the assistant runs
// against. Rerank scoring and answer generation both go through Provider, so
// backends stay swappable and tests can substitute a canned double.
package llm

import "context"

// Role identifies who authored a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes one chat-completion call. Model overrides the
// provider's configured default when set. JSONMode constrains output to a
// JSON object, which the reranker depends on for score parsing.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// Usage reports token consumption for a completed call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// CompletionResponse is the model's reply plus accounting metadata.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Provider is a chat-completion backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}
