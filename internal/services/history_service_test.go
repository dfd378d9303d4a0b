// File: internal/services/history_service_test.go
package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/repository/message"
)

func setupHistoryService(t *testing.T) *HistoryService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.ChatMessage{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewHistoryService(message.NewMessageRepository(db), &NoOpLogger{})
}

func TestSaveTurn_Validation(t *testing.T) {
	svc := setupHistoryService(t)
	ctx := context.Background()

	_, err := svc.SaveTurn(ctx, 1, "alice-0", "system", "not allowed")
	assert.Error(t, err)

	_, err = svc.SaveTurn(ctx, 1, "alice-0", domain.RoleUser, "  ")
	assert.Error(t, err)

	saved, err := svc.SaveTurn(ctx, 1, "alice-0", domain.RoleUser, "hello")
	assert.NoError(t, err)
	assert.NotZero(t, saved.ID)
}

func TestSaveTurn_EnforcesRetentionCap(t *testing.T) {
	svc := setupHistoryService(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxMessages+10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		_, err := svc.SaveTurn(ctx, 1, "alice-0", role, fmt.Sprintf("turn %d", i+1))
		assert.NoError(t, err)
	}

	transcript, err := svc.LoadTranscript(ctx, 1, "alice-0")
	assert.NoError(t, err)
	assert.Len(t, transcript, domain.MaxMessages)

	// Only the newest turns survive, oldest first.
	assert.Equal(t, fmt.Sprintf("turn %d", 11), transcript[0].Content)
	assert.Equal(t, fmt.Sprintf("turn %d", domain.MaxMessages+10), transcript[len(transcript)-1].Content)
}

func TestClearConversation(t *testing.T) {
	svc := setupHistoryService(t)
	ctx := context.Background()

	_, err := svc.SaveTurn(ctx, 1, "alice-0", domain.RoleUser, "hello")
	assert.NoError(t, err)
	_, err = svc.SaveTurn(ctx, 1, "muse-7", domain.RoleUser, "other conversation")
	assert.NoError(t, err)

	assert.NoError(t, svc.ClearConversation(ctx, 1, "alice-0"))

	cleared, err := svc.LoadTranscript(ctx, 1, "alice-0")
	assert.NoError(t, err)
	assert.Empty(t, cleared)

	kept, err := svc.LoadTranscript(ctx, 1, "muse-7")
	assert.NoError(t, err)
	assert.Len(t, kept, 1)
}
