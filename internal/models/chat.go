package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession groups the messages of one assistant conversation.
type ChatSession struct {
	ID       string         `gorm:"type:uuid;primaryKey" json:"id"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	Messages []ChatMessage  `gorm:"foreignKey:SessionID" json:"messages,omitempty"`

	// MessageCount is only filled by listing queries.
	MessageCount int64 `gorm:"->;-:migration" json:"message_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the session UUID.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// ChatMessage is one turn of a conversation. Messages are appended, never mutated.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SessionID string         `gorm:"type:uuid;not null;index:idx_session_msg" json:"session_id"`
	Role      string         `gorm:"size:16;not null" json:"role"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"index:idx_session_msg" json:"created_at"`
}
