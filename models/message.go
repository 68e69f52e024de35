package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a message in a conversation. Immutable once
// persisted, except for deletion.
type Message struct {
	ID             uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Role           Role                        `gorm:"not null" json:"role"`
	Content        string                      `json:"content"`
	TokenCount     int                         `json:"token_count"`
	PhotoURLs      datatypes.JSONSlice[string] `json:"photo_urls,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// HasPhotos reports whether the message carries image attachments.
func (m *Message) HasPhotos() bool {
	return len(m.PhotoURLs) > 0
}
