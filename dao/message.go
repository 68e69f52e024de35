package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// MessageDAO handles message-related database operations
type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// CreateMessage adds a message to a conversation
func (d *MessageDAO) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if err := d.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// AppendMessage persists the message and bumps the conversation's
// updated_at in one transaction. Either both land or neither does.
func (d *MessageDAO) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages retrieves a page of messages in creation order.
func (d *MessageDAO) ListMessages(ctx context.Context, conversationID uuid.UUID, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	q := d.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestMessages retrieves the n most recent messages, oldest first.
func (d *MessageDAO) LatestMessages(ctx context.Context, conversationID uuid.UUID, n int) ([]models.Message, error) {
	var messages []models.Message
	if err := d.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(n).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	// reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountMessages counts the messages in a conversation.
func (d *MessageDAO) CountMessages(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetMessageByID retrieves a single message.
func (d *MessageDAO) GetMessageByID(ctx context.Context, id uint64) (*models.Message, error) {
	var msg models.Message
	if err := d.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage removes a single message.
func (d *MessageDAO) DeleteMessage(ctx context.Context, id uint64) error {
	return d.db.WithContext(ctx).Delete(&models.Message{}, id).Error
}

// DeleteMessagesByConversationID removes every message in a conversation.
func (d *MessageDAO) DeleteMessagesByConversationID(ctx context.Context, conversationID uuid.UUID) error {
	return d.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&models.Message{}).Error
}
