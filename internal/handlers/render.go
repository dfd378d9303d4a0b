// File: internal/handlers/render.go
package handlers

import (
	"bytes"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/dtos"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderMarkdown converts a message body to HTML for the transcript view.
// On a conversion failure the raw text is returned so the transcript never
// drops a turn.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		log.Printf("[Render] Markdown conversion failed: %v", err)
		return content
	}
	return buf.String()
}

func toMessageDTOs(messages []domain.ChatMessage) []dtos.MessageDTO {
	out := make([]dtos.MessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, dtos.MessageDTO{
			ID:          m.ID,
			Role:        m.Role,
			Content:     m.Content,
			ContentHTML: renderMarkdown(m.Content),
			CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
