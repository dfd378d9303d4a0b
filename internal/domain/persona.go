// File: internal/domain/persona.go
package domain

import (
	"errors"
	"strings"
	"time"
)

// AnonymousCreator replaces the creator username on anonymously published
// personas for everyone except moderators.
const AnonymousCreator = "Anonymous"

// AllowedModels is the fixed allow-list of upstream model identifiers a
// persona may be configured with.
var AllowedModels = []string{
	"openai/gpt-4o-mini",
	"openai/gpt-4o",
	"anthropic/claude-3.5-sonnet",
	"google/gemini-pro-1.5",
}

// AllowedCategories tags published personas in the hub catalog.
var AllowedCategories = []string{"study", "creative", "productivity", "fun", "coding"}

// PersonaConfig is the user-authored definition that shapes a conversation.
// Avatar holds an emoji glyph, a data: URI, or a remote URL; Background holds
// a data: URI or is empty.
type PersonaConfig struct {
	Name         string `json:"name"`
	Personality  string `json:"personality"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	Avatar       string `json:"avatar"`
	Background   string `json:"background"`
}

func (c *PersonaConfig) IsValid() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("persona name is required")
	}
	if !ModelAllowed(c.Model) {
		return errors.New("model is not in the allow-list")
	}
	return nil
}

func ModelAllowed(model string) bool {
	for _, m := range AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

func CategoryAllowed(category string) bool {
	for _, c := range AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}

// PublicPersona is one row in public_ais: a point-in-time copy of a private
// persona published to the shared catalog. Edits to the private original do
// not propagate.
type PublicPersona struct {
	ID              string    `json:"id" gorm:"primarykey;size:36"`
	Name            string    `json:"name" gorm:"not null;size:100"`
	Personality     string    `json:"personality"`
	Instructions    string    `json:"instructions"`
	Model           string    `json:"model" gorm:"not null;size:100"`
	Avatar          string    `json:"avatar"`
	Background      string    `json:"background"`
	Category        string    `json:"category" gorm:"index;size:32"`
	CreatorUsername string    `json:"creator_username" gorm:"size:64"`
	IsAnonymous     bool      `json:"is_anonymous" gorm:"column:is_anonymous;default:false"`
	CreatedAt       time.Time `json:"created_at"`
}

func (PublicPersona) TableName() string { return "public_ais" }

// Config returns the persona's chat-shaping fields.
func (p *PublicPersona) Config() PersonaConfig {
	return PersonaConfig{
		Name:         p.Name,
		Personality:  p.Personality,
		Instructions: p.Instructions,
		Model:        p.Model,
		Avatar:       p.Avatar,
		Background:   p.Background,
	}
}
