package logic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// ConversationLogic handles conversation-related business logic,
// including the ownership check every message operation goes through.
type ConversationLogic struct {
	userDAO    *dao.UserDAO
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
	files      AttachmentStore
	log        *logger.Logger
}

func NewConversationLogic(
	userDAO *dao.UserDAO,
	convoDAO *dao.ConversationDAO,
	messageDAO *dao.MessageDAO,
	files AttachmentStore,
	baseLog *logger.Logger,
) *ConversationLogic {
	return &ConversationLogic{
		userDAO:    userDAO,
		convoDAO:   convoDAO,
		messageDAO: messageDAO,
		files:      files,
		log:        baseLog.With("logic", "ConversationLogic"),
	}
}

// Authorize verifies the conversation exists and is owned by the named
// user. Authentication already guarantees the user exists, so a missing
// user row is an internal-state fault. No side effects.
func (l *ConversationLogic) Authorize(ctx context.Context, conversationID uuid.UUID, username string) (*models.User, *models.Conversation, error) {
	user, err := l.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("user", username)
		}
		return nil, nil, err
	}

	convo, err := l.convoDAO.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("conversation", conversationID)
		}
		return nil, nil, err
	}

	if convo.UserID != user.ID {
		return nil, nil, apperr.PermissionDenied("you do not have permission to access this conversation")
	}
	return user, convo, nil
}

// CreateConversation creates a new conversation for the user.
func (l *ConversationLogic) CreateConversation(ctx context.Context, username, title string) (*models.Conversation, error) {
	user, err := l.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", username)
		}
		return nil, err
	}
	return l.convoDAO.CreateConversation(ctx, user.ID, title)
}

// GetConversations retrieves a page of the user's conversations, most
// recently updated first.
func (l *ConversationLogic) GetConversations(ctx context.Context, username string, page, pageSize int) ([]models.Conversation, error) {
	user, err := l.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", username)
		}
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	return l.convoDAO.ListConversationsByUserID(ctx, user.ID, offset, limit)
}

// RenameConversation updates the title, ensuring the user owns it.
func (l *ConversationLogic) RenameConversation(ctx context.Context, conversationID uuid.UUID, username, title string) (*models.Conversation, error) {
	if title == "" {
		return nil, apperr.InvalidArgument("title is required")
	}
	_, _, err := l.Authorize(ctx, conversationID, username)
	if err != nil {
		return nil, err
	}
	if err := l.convoDAO.UpdateTitle(ctx, conversationID, title); err != nil {
		return nil, err
	}
	return l.convoDAO.GetConversationByID(ctx, conversationID)
}

// DeleteConversation removes the conversation with all its messages and
// releases their attachment storage.
func (l *ConversationLogic) DeleteConversation(ctx context.Context, conversationID uuid.UUID, username string) error {
	_, _, err := l.Authorize(ctx, conversationID, username)
	if err != nil {
		return err
	}

	messages, err := l.messageDAO.ListMessages(ctx, conversationID, 0, 0)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		for _, url := range msg.PhotoURLs {
			l.files.Delete(url)
		}
	}

	if err := l.messageDAO.DeleteMessagesByConversationID(ctx, conversationID); err != nil {
		return err
	}
	return l.convoDAO.DeleteConversation(ctx, conversationID)
}

func pageBounds(page, pageSize int) (offset, limit int) {
	if pageSize < 1 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}
