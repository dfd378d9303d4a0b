// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/tafara-ai/tafara/internal/auth"
	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/repository/user"
	"github.com/tafara-ai/tafara/internal/services"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

type AuthService struct {
	userRepo        user.UserRepository
	jwtSecretKey    string
	presetUsernames []string
	logger          services.Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, presetUsernames []string, logger services.Logger) *AuthService {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &AuthService{
		userRepo:        userRepo,
		jwtSecretKey:    jwtSecretKey,
		presetUsernames: presetUsernames,
		logger:          logger,
	}
}

// Register creates a profile. Non-preset accounts must provide their own
// OpenRouter key in sk-or- form; operator-designated usernames get the
// preset flag and use the shared credential instead.
func (s *AuthService) Register(ctx context.Context, username, email, password, apiKey string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	apiKey = strings.TrimSpace(apiKey)

	if !usernameRegex.MatchString(username) {
		return nil, errors.New("username must be 3-20 characters, alphanumeric or underscore")
	}

	isPreset := s.isPresetUsername(username)
	if !isPreset {
		if apiKey == "" {
			return nil, errors.New("an OpenRouter API key is required")
		}
		if !domain.ValidProviderKey(apiKey) {
			return nil, errors.New("invalid OpenRouter API key format")
		}
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	newUser := &domain.User{
		Username:        username,
		Email:           strings.TrimSpace(email),
		APIKey:          apiKey,
		IsPresetAccount: isPreset,
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", created.ID, "preset", isPreset)
	return created, nil
}

// Login authenticates a user and returns the profile with a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	account, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed - user not found", "username_length", len(username))
		return nil, "", ErrInvalidCredentials
	}

	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(account.ID, []byte(s.jwtSecretKey))
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", account.ID)
	return account, token, nil
}

// ValidateJWTToken checks a session token and returns the user id.
func (s *AuthService) ValidateJWTToken(token string) (uint, error) {
	return auth.ValidateToken(token, []byte(s.jwtSecretKey))
}

// GetProfile loads the caller's profile.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateAPIKey replaces the caller's personal credential.
func (s *AuthService) UpdateAPIKey(ctx context.Context, userID uint, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if !domain.ValidProviderKey(apiKey) {
		return errors.New("invalid OpenRouter API key format")
	}
	return s.userRepo.UpdateAPIKey(ctx, userID, apiKey)
}

func (s *AuthService) isPresetUsername(username string) bool {
	for _, u := range s.presetUsernames {
		if u == username {
			return true
		}
	}
	return false
}
