// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// BaseURL points at the OpenRouter completions API.
	BaseURL string

	// SiteURL and SiteTitle are forwarded as the HTTP-Referer and X-Title
	// attribution headers OpenRouter expects.
	SiteURL   string
	SiteTitle string

	// Timeout bounds a single upstream attempt. The gateway is called at
	// most once per request; there are no retries.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("OPENROUTER_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://openrouter.ai/api/v1",
		SiteURL:   "https://tafara-ai.vercel.app",
		SiteTitle: "Tafara.ai",
		Timeout:   30 * time.Second,
	}
}
