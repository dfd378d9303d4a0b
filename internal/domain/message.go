// File: internal/domain/message.go
package domain

import "time"

// MaxMessages is the retention cap per (user, persona) conversation. Saving a
// turn beyond the cap deletes the oldest excess rows.
const MaxMessages = 15

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn in a (user, persona) conversation, stored in
// chat_messages. AIID is the persona identifier the turn belongs to; for
// private personas it is the "<username>-<index>" form.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;index:idx_conversation;not null"`
	AIID      string    `json:"ai_id" gorm:"column:ai_id;index:idx_conversation;not null;size:100"`
	Role      string    `json:"role" gorm:"not null;size:16"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
