package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents a conversation owned by exactly one user.
// UpdatedAt is bumped on every message append.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
