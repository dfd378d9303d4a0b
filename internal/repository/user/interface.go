package user

import (
	"context"

	"github.com/tafara-ai/tafara/internal/domain"
)

// UserRepository handles user_profiles data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateAPIKey(ctx context.Context, userID uint, apiKey string) error
}
