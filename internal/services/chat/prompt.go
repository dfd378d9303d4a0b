// File: internal/services/chat/prompt.go
package chat

import (
	"fmt"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/services/ai"
)

// BuildSystemPrompt substitutes the persona fields into the fixed
// instruction template. Inputs are used verbatim, with no trimming or
// escaping, so the prompt is reproducible for any strings including empty
// ones.
func BuildSystemPrompt(config domain.PersonaConfig) string {
	return fmt.Sprintf("You are %s. Your personality is %s. %s",
		config.Name, config.Personality, config.Instructions)
}

// BuildMessages prepends the persona's system turn to the caller-supplied
// transcript, preserving order. No truncation or summarization happens here;
// any trimming is done at persistence time by the retention cap.
func BuildMessages(config domain.PersonaConfig, transcript []ai.Turn) []ai.Turn {
	messages := make([]ai.Turn, 0, len(transcript)+1)
	messages = append(messages, ai.Turn{
		Role:    domain.RoleSystem,
		Content: BuildSystemPrompt(config),
	})
	messages = append(messages, transcript...)
	return messages
}
