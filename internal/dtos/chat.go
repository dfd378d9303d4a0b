// File: internal/dtos/chat.go
package dtos

import (
	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/services/ai"
)

// ChatRequest is the chat proxy's wire contract: the prior transcript plus
// the new user turn, the persona shaping the reply, and the caller's session
// token.
type ChatRequest struct {
	Messages     []ai.Turn            `json:"messages"`
	Config       domain.PersonaConfig `json:"config"`
	SessionToken string               `json:"sessionToken"`
}

// ChatResponse carries only the assistant's reply text.
type ChatResponse struct {
	Content string `json:"content"`
}

// MessageDTO is a stored turn plus its Markdown rendered as HTML for the
// rich-text transcript view.
type MessageDTO struct {
	ID          uint   `json:"id"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html"`
	CreatedAt   string `json:"created_at"`
}

// SaveTurnRequest appends one turn to a conversation.
type SaveTurnRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PublishRequest copies a private persona into the shared catalog.
type PublishRequest struct {
	Index       int    `json:"index"`
	Category    string `json:"category"`
	IsAnonymous bool   `json:"is_anonymous"`
}
