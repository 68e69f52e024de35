package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// ConversationDAO handles conversation-related database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation for the user
func (d *ConversationDAO) CreateConversation(ctx context.Context, userID uint64, title string) (*models.Conversation, error) {
	convo := &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
	}
	if err := d.db.WithContext(ctx).Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversationByID retrieves a conversation by ID
func (d *ConversationDAO) GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&convo).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// ListConversationsByUserID retrieves the user's conversations,
// most recently updated first.
func (d *ConversationDAO) ListConversationsByUserID(ctx context.Context, userID uint64, offset, limit int) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}

// UpdateTitle changes a conversation's title and bumps updated_at.
func (d *ConversationDAO) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return d.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now()}).Error
}

// DeleteConversation removes the conversation row.
func (d *ConversationDAO) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Delete(&models.Conversation{}, "id = ?", id).Error
}
