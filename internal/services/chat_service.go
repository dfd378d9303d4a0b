// File: internal/services/chat_service.go
package services

import (
	"context"

	"github.com/tafara-ai/tafara/internal/auth"
	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/repository/user"
	"github.com/tafara-ai/tafara/internal/services/ai"
	chatservice "github.com/tafara-ai/tafara/internal/services/chat"
)

// ChatService is the chat proxy: it authenticates the session token, resolves
// which upstream credential to use, assembles the persona's system turn with
// the caller transcript, and forwards the result to the LLM gateway. The
// shared credential is held server-side and is never returned to callers.
type ChatService struct {
	userRepo     user.UserRepository
	provider     ai.CompletionProvider
	jwtSecretKey []byte
	sharedAPIKey string
	logger       Logger
}

func NewChatService(
	userRepo user.UserRepository,
	provider ai.CompletionProvider,
	jwtSecretKey string,
	sharedAPIKey string,
	logger Logger,
) (*ChatService, error) {
	if userRepo == nil {
		return nil, ai.NewConfigError("user repository is required")
	}
	if provider == nil {
		return nil, ai.NewConfigError("completion provider is required")
	}
	if jwtSecretKey == "" {
		return nil, ai.NewConfigError("JWT secret key is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		userRepo:     userRepo,
		provider:     provider,
		jwtSecretKey: []byte(jwtSecretKey),
		sharedAPIKey: sharedAPIKey,
		logger:       logger,
	}, nil
}

// Complete performs one conversation-continuation exchange. It makes exactly
// one upstream attempt; persistence of the exchanged turns is the caller's
// responsibility.
func (s *ChatService) Complete(
	ctx context.Context,
	sessionToken string,
	config domain.PersonaConfig,
	transcript []ai.Turn,
) (string, error) {
	if sessionToken == "" {
		return "", chatservice.ErrUnauthorized
	}

	userID, err := auth.ValidateToken(sessionToken, s.jwtSecretKey)
	if err != nil {
		s.logger.Warn("chat request with invalid session token", "error", err.Error())
		return "", chatservice.ErrUnauthorized
	}

	apiKey, err := s.resolveAPIKey(ctx, userID)
	if err != nil {
		return "", err
	}

	messages := chatservice.BuildMessages(config, transcript)

	s.logger.Info("forwarding chat completion",
		"user_id", userID,
		"model", config.Model,
		"turns", len(messages))

	reply, err := s.provider.CreateChatCompletion(ctx, apiKey, config.Model, messages)
	if err != nil {
		s.logger.Error("upstream completion failed", "user_id", userID, "error", err.Error())
		return "", err
	}

	return reply, nil
}

// resolveAPIKey picks the shared operator credential for preset accounts and
// the profile's own key otherwise. A profile with neither yields ErrNoAPIKey
// before any upstream call is made.
func (s *ChatService) resolveAPIKey(ctx context.Context, userID uint) (string, error) {
	profile, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("profile lookup failed during key resolution", "user_id", userID)
		return "", chatservice.ErrNoAPIKey
	}

	if profile.IsPresetAccount {
		if s.sharedAPIKey == "" {
			s.logger.Error("preset account has no shared key configured", "user_id", userID)
			return "", chatservice.ErrNoAPIKey
		}
		return s.sharedAPIKey, nil
	}

	if profile.APIKey == "" {
		return "", chatservice.ErrNoAPIKey
	}
	return profile.APIKey, nil
}

// SharedKeyFor returns the operator credential, but only for preset
// accounts; every other caller is refused.
func (s *ChatService) SharedKeyFor(ctx context.Context, userID uint) (string, error) {
	profile, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", chatservice.ErrUnauthorized
	}
	if !profile.IsPresetAccount {
		return "", chatservice.ErrUnauthorized
	}
	if s.sharedAPIKey == "" {
		return "", chatservice.ErrNoAPIKey
	}
	return s.sharedAPIKey, nil
}
