// File: internal/repository/message/gorm_message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/tafara-ai/tafara/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create - validates input before insert; message content is never logged.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for user %d: %v", message.UserID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

// FindRecent returns at most limit most-recent turns for the conversation,
// ordered oldest-first for display.
func (r *gormMessageRepository) FindRecent(ctx context.Context, userID uint, aiID string, limit int) ([]domain.ChatMessage, error) {
	if userID == 0 || aiID == "" {
		return nil, errors.New("invalid conversation key")
	}
	if limit <= 0 {
		limit = domain.MaxMessages
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ai_id = ?", userID, aiID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for user %d: %v", userID, err)
		return nil, errors.New("database error fetching messages")
	}

	// Reverse to chronological order (oldest first).
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByConversation(ctx context.Context, userID uint, aiID string) (int64, error) {
	if userID == 0 || aiID == "" {
		return 0, errors.New("invalid conversation key")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).
		Where("user_id = ? AND ai_id = ?", userID, aiID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for user %d: %v", userID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

// TrimToCap deletes exactly the oldest count-cap rows when the conversation
// exceeds cap. Count-then-delete is not transactional; a concurrent save can
// transiently overshoot by one turn and is resolved on the next trim.
func (r *gormMessageRepository) TrimToCap(ctx context.Context, userID uint, aiID string, cap int) (int64, error) {
	if userID == 0 || aiID == "" {
		return 0, errors.New("invalid conversation key")
	}
	if cap <= 0 {
		return 0, errors.New("cap must be positive")
	}

	count, err := r.CountByConversation(ctx, userID, aiID)
	if err != nil {
		return 0, err
	}
	excess := count - int64(cap)
	if excess <= 0 {
		return 0, nil
	}

	var oldest []domain.ChatMessage
	err = r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND ai_id = ?", userID, aiID).
		Order("created_at ASC, id ASC").
		Limit(int(excess)).
		Find(&oldest).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error selecting excess messages for user %d: %v", userID, err)
		return 0, errors.New("database error selecting excess messages")
	}

	ids := make([]uint, 0, len(oldest))
	for _, m := range oldest {
		ids = append(ids, m.ID)
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.ChatMessage{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error trimming messages for user %d: %v", userID, result.Error)
		return 0, errors.New("database error trimming messages")
	}

	return result.RowsAffected, nil
}

// DeleteByConversation removes every turn for the (user, persona) pair.
func (r *gormMessageRepository) DeleteByConversation(ctx context.Context, userID uint, aiID string) error {
	if userID == 0 || aiID == "" {
		return errors.New("invalid conversation key")
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND ai_id = ?", userID, aiID).
		Delete(&domain.ChatMessage{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting conversation for user %d: %v", userID, result.Error)
		return errors.New("database error deleting conversation")
	}

	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.UserID == 0 {
		return errors.New("user ID is required")
	}
	if message.AIID == "" {
		return errors.New("persona ID is required")
	}
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return errors.New("role must be user or assistant")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
