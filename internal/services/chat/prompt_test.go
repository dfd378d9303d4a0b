// File: internal/services/chat/prompt_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/services/ai"
)

func TestBuildSystemPrompt(t *testing.T) {
	config := domain.PersonaConfig{
		Name:         "Study Buddy",
		Personality:  "patient and encouraging",
		Instructions: "Help the user prepare for exams.",
	}

	prompt := BuildSystemPrompt(config)

	assert.Equal(t,
		"You are Study Buddy. Your personality is patient and encouraging. Help the user prepare for exams.",
		prompt)
}

func TestBuildSystemPrompt_EmptyFields(t *testing.T) {
	// Empty fields substitute as empty strings, no trimming.
	prompt := BuildSystemPrompt(domain.PersonaConfig{})
	assert.Equal(t, "You are . Your personality is . ", prompt)
}

func TestBuildMessages(t *testing.T) {
	config := domain.PersonaConfig{
		Name:         "Study Buddy",
		Personality:  "patient",
		Instructions: "Quiz me.",
	}
	transcript := []ai.Turn{
		{Role: domain.RoleUser, Content: "Hello"},
		{Role: domain.RoleAssistant, Content: "Hi! Ready to study?"},
		{Role: domain.RoleUser, Content: "Quiz me on biology"},
	}

	messages := BuildMessages(config, transcript)

	assert.Len(t, messages, 4)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, "You are Study Buddy. Your personality is patient. Quiz me.", messages[0].Content)

	// Transcript order is preserved verbatim after the system turn.
	for i, turn := range transcript {
		assert.Equal(t, turn, messages[i+1])
	}
}

func TestBuildMessages_EmptyTranscript(t *testing.T) {
	messages := BuildMessages(domain.PersonaConfig{Name: "Muse"}, nil)

	assert.Len(t, messages, 1)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
}
