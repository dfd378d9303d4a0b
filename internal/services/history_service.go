// File: internal/services/history_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/repository/message"
)

// HistoryService keeps the persisted transcript for each (user, persona)
// pair bounded at domain.MaxMessages. The cap is best-effort: trimming after
// insert, not inside a transaction.
type HistoryService struct {
	messageRepo message.MessageRepository
	logger      Logger
}

func NewHistoryService(messageRepo message.MessageRepository, logger Logger) *HistoryService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &HistoryService{messageRepo: messageRepo, logger: logger}
}

// SaveTurn appends one turn and then trims the conversation to the retention
// cap. Trim failures are logged but never surfaced; the save already
// succeeded and the cap self-heals on the next write.
func (s *HistoryService) SaveTurn(ctx context.Context, userID uint, aiID, role, content string) (*domain.ChatMessage, error) {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return nil, errors.New("role must be user or assistant")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}

	saved, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		UserID:  userID,
		AIID:    aiID,
		Role:    role,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	if trimmed, err := s.messageRepo.TrimToCap(ctx, userID, aiID, domain.MaxMessages); err != nil {
		s.logger.Warn("retention trim failed",
			"user_id", userID, "ai_id", aiID, "error", err.Error())
	} else if trimmed > 0 {
		s.logger.Debug("retention trim removed oldest turns",
			"user_id", userID, "ai_id", aiID, "removed", trimmed)
	}

	return saved, nil
}

// LoadTranscript returns the retained turns oldest-first, establishing the
// initial transcript state for the next chat proxy call.
func (s *HistoryService) LoadTranscript(ctx context.Context, userID uint, aiID string) ([]domain.ChatMessage, error) {
	return s.messageRepo.FindRecent(ctx, userID, aiID, domain.MaxMessages)
}

// ClearConversation drops every retained turn for the pair.
func (s *HistoryService) ClearConversation(ctx context.Context, userID uint, aiID string) error {
	return s.messageRepo.DeleteByConversation(ctx, userID, aiID)
}
