package message

import (
	"context"

	"github.com/tafara-ai/tafara/internal/domain"
)

// MessageRepository handles chat_messages data operations. A conversation is
// identified by the (userID, aiID) pair.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	FindRecent(ctx context.Context, userID uint, aiID string, limit int) ([]domain.ChatMessage, error)
	CountByConversation(ctx context.Context, userID uint, aiID string) (int64, error)
	TrimToCap(ctx context.Context, userID uint, aiID string, cap int) (int64, error)
	DeleteByConversation(ctx context.Context, userID uint, aiID string) error
}
