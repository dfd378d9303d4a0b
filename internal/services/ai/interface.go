// File: internal/services/ai/interface.go
package ai

import "context"

// Turn is one role/content pair in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionProvider forwards an assembled message list to the upstream LLM
// gateway. The credential is per-request because key resolution happens at
// the caller (shared vs. personal key).
type CompletionProvider interface {
	CreateChatCompletion(ctx context.Context, apiKey, model string, messages []Turn) (string, error)
}
