// File: internal/repository/message/gorm_message_repository_test.go
package message

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tafara-ai/tafara/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.ChatMessage{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedConversation inserts n alternating turns with strictly increasing
// timestamps so ordering assertions are unambiguous.
func seedConversation(t *testing.T, db *gorm.DB, userID uint, aiID string, n int) {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Second)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msg := domain.ChatMessage{
			UserID:    userID,
			AIID:      aiID,
			Role:      role,
			Content:   fmt.Sprintf("turn %d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		assert.NoError(t, db.Create(&msg).Error)
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.ChatMessage{UserID: 1, AIID: "alice-0", Role: "system", Content: "x"})
	assert.Error(t, err, "system turns are never persisted")

	_, err = repo.Create(ctx, &domain.ChatMessage{UserID: 1, AIID: "alice-0", Role: domain.RoleUser, Content: "   "})
	assert.Error(t, err)

	_, err = repo.Create(ctx, &domain.ChatMessage{UserID: 1, AIID: "alice-0", Role: domain.RoleUser, Content: "hello"})
	assert.NoError(t, err)
}

func TestTrimToCap_KeepsNewestFifteen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedConversation(t, db, 1, "alice-0", 20)

	trimmed, err := repo.TrimToCap(ctx, 1, "alice-0", domain.MaxMessages)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), trimmed)

	messages, err := repo.FindRecent(ctx, 1, "alice-0", domain.MaxMessages)
	assert.NoError(t, err)
	assert.Len(t, messages, domain.MaxMessages)

	// The oldest five turns are gone; survivors stay in order.
	assert.Equal(t, "turn 6", messages[0].Content)
	assert.Equal(t, "turn 20", messages[len(messages)-1].Content)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestTrimToCap_UnderCapIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedConversation(t, db, 1, "alice-0", 10)

	trimmed, err := repo.TrimToCap(ctx, 1, "alice-0", domain.MaxMessages)
	assert.NoError(t, err)
	assert.Zero(t, trimmed)

	count, err := repo.CountByConversation(ctx, 1, "alice-0")
	assert.NoError(t, err)
	assert.Equal(t, int64(10), count)
}

func TestTrimToCap_ScopedToConversation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedConversation(t, db, 1, "alice-0", 20)
	seedConversation(t, db, 1, "alice-1", 3)
	seedConversation(t, db, 2, "alice-0", 3)

	_, err := repo.TrimToCap(ctx, 1, "alice-0", domain.MaxMessages)
	assert.NoError(t, err)

	// Other conversations are untouched.
	count, err := repo.CountByConversation(ctx, 1, "alice-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountByConversation(ctx, 2, "alice-0")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestFindRecent_OldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedConversation(t, db, 1, "muse-7", 4)

	messages, err := repo.FindRecent(ctx, 1, "muse-7", domain.MaxMessages)
	assert.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.Equal(t, "turn 1", messages[0].Content)
	assert.Equal(t, "turn 4", messages[3].Content)
}

func TestDeleteByConversation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedConversation(t, db, 1, "muse-7", 5)

	assert.NoError(t, repo.DeleteByConversation(ctx, 1, "muse-7"))

	count, err := repo.CountByConversation(ctx, 1, "muse-7")
	assert.NoError(t, err)
	assert.Zero(t, count)
}
