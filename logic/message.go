package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
	"github.com/VSO-Labs/Daddy-John-Backend/pkg"
)

// ChatCompleter is the external AI completion backend.
type ChatCompleter interface {
	Complete(ctx context.Context, input string, history []pkg.HistoryEntry) (string, int, error)
	CompleteWithPhotos(ctx context.Context, input string, history []pkg.HistoryEntry, photos []pkg.Photo) (string, int, error)
}

// AttachmentStore is the external binary storage for message photos.
type AttachmentStore interface {
	Store(data []byte, originalName, contentType string) (string, error)
	Delete(url string) bool
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ConversationSummary is the bounded recent-window digest handed to
// clients for context.
type ConversationSummary struct {
	ConversationID uuid.UUID          `json:"conversation_id"`
	Title          string             `json:"title"`
	MessageCount   int64              `json:"message_count"`
	RecentMessages []pkg.HistoryEntry `json:"recent_messages"`
}

// MessageLogic composes the guard, the ledger, the gateway and the
// repositories into the end-to-end send flow.
type MessageLogic struct {
	convos       *ConversationLogic
	messageDAO   *dao.MessageDAO
	usage        *UsageLogic
	chat         ChatCompleter
	files        AttachmentStore
	maxHistory   int
	maxPhotos    int
	maxPhotoSize int64
	log          *logger.Logger
}

func NewMessageLogic(
	convos *ConversationLogic,
	messageDAO *dao.MessageDAO,
	usage *UsageLogic,
	chat ChatCompleter,
	files AttachmentStore,
	maxHistory, maxPhotos int,
	maxPhotoSize int64,
	baseLog *logger.Logger,
) *MessageLogic {
	if maxHistory < 1 {
		maxHistory = 10
	}
	return &MessageLogic{
		convos:       convos,
		messageDAO:   messageDAO,
		usage:        usage,
		chat:         chat,
		files:        files,
		maxHistory:   maxHistory,
		maxPhotos:    maxPhotos,
		maxPhotoSize: maxPhotoSize,
		log:          baseLog.With("logic", "MessageLogic"),
	}
}

// SendMessage runs the full pipeline: authorize, admit against quota,
// persist the user message, call the chat backend with the history
// window, persist the assistant reply and record usage. Once the user
// message is persisted the flow always produces an assistant message —
// gateway failures are absorbed into the fallback reply. The one
// exception is caller cancellation, which stops the flow and leaves the
// user message unpaired.
func (l *MessageLogic) SendMessage(ctx context.Context, conversationID uuid.UUID, username, content string, photos []pkg.Photo) (*models.Message, error) {
	user, convo, err := l.convos.Authorize(ctx, conversationID, username)
	if err != nil {
		return nil, err
	}

	if err := l.usage.Admit(ctx, user); err != nil {
		return nil, err
	}

	if content == "" && len(photos) == 0 {
		return nil, apperr.InvalidArgument("message content or photos required")
	}
	if err := l.validatePhotos(photos); err != nil {
		return nil, err
	}

	photoURLs, err := l.storePhotos(photos)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ConversationID: convo.ID,
		Role:           models.RoleUser,
		Content:        content,
		TokenCount:     pkg.EstimateTokens(content),
		PhotoURLs:      photoURLs,
	}

	history, err := l.historyWindow(ctx, convo.ID)
	if err != nil {
		return nil, err
	}

	if _, err := l.messageDAO.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	var reply string
	var replyTokens int
	if len(photos) > 0 {
		reply, replyTokens, err = l.chat.CompleteWithPhotos(ctx, content, history, photos)
	} else {
		reply, replyTokens, err = l.chat.Complete(ctx, content, history)
	}
	if err != nil {
		// Caller cancellation. The persisted user message stays
		// unpaired; no assistant message is fabricated after cancel.
		l.log.Warn("send cancelled before assistant reply",
			"conversation_id", convo.ID, "user_message_id", userMsg.ID, "error", err.Error())
		return nil, err
	}

	assistantMsg := &models.Message{
		ConversationID: convo.ID,
		Role:           models.RoleAssistant,
		Content:        reply,
		TokenCount:     replyTokens,
	}
	if _, err := l.messageDAO.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := l.usage.Record(ctx, user, userMsg.TokenCount+replyTokens); err != nil {
		l.log.Error("failed to record usage", "user_id", user.ID, "error", err.Error())
	}

	return assistantMsg, nil
}

func (l *MessageLogic) validatePhotos(photos []pkg.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	if l.maxPhotos > 0 && len(photos) > l.maxPhotos {
		return apperr.InvalidArgument(fmt.Sprintf("maximum %d photos allowed per message", l.maxPhotos))
	}
	for _, photo := range photos {
		if !allowedPhotoTypes[photo.ContentType] {
			return apperr.InvalidArgument("only image files (JPG, JPEG, PNG, GIF, WEBP) are allowed")
		}
		if l.maxPhotoSize > 0 && int64(len(photo.Data)) > l.maxPhotoSize {
			return apperr.InvalidArgument(fmt.Sprintf("photo size must be less than %dMB", l.maxPhotoSize/(1024*1024)))
		}
	}
	return nil
}

func (l *MessageLogic) storePhotos(photos []pkg.Photo) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		url, err := l.files.Store(photo.Data, photo.Name, photo.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// historyWindow returns the most recent messages reduced to role and
// content, oldest first, bounded by the configured window size.
func (l *MessageLogic) historyWindow(ctx context.Context, conversationID uuid.UUID) ([]pkg.HistoryEntry, error) {
	messages, err := l.messageDAO.LatestMessages(ctx, conversationID, l.maxHistory)
	if err != nil {
		return nil, err
	}
	history := make([]pkg.HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		history = append(history, pkg.HistoryEntry{Role: string(msg.Role), Content: msg.Content})
	}
	return history, nil
}

// GetMessages returns a page of the conversation's messages in ascending
// creation order, after an ownership check.
func (l *MessageLogic) GetMessages(ctx context.Context, conversationID uuid.UUID, username string, page, pageSize int) ([]models.Message, error) {
	_, _, err := l.convos.Authorize(ctx, conversationID, username)
	if err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	return l.messageDAO.ListMessages(ctx, conversationID, offset, limit)
}

// GetMessage returns one message after verifying both conversation
// ownership and that the message belongs to that conversation.
func (l *MessageLogic) GetMessage(ctx context.Context, messageID uint64, conversationID uuid.UUID, username string) (*models.Message, error) {
	_, _, err := l.convos.Authorize(ctx, conversationID, username)
	if err != nil {
		return nil, err
	}
	msg, err := l.messageDAO.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message", messageID)
		}
		return nil, err
	}
	if msg.ConversationID != conversationID {
		return nil, apperr.PermissionDenied("message does not belong to this conversation")
	}
	return msg, nil
}

// DeleteMessage removes a message and releases its attachment storage.
func (l *MessageLogic) DeleteMessage(ctx context.Context, messageID uint64, conversationID uuid.UUID, username string) error {
	msg, err := l.GetMessage(ctx, messageID, conversationID, username)
	if err != nil {
		return err
	}
	for _, url := range msg.PhotoURLs {
		l.files.Delete(url)
	}
	return l.messageDAO.DeleteMessage(ctx, messageID)
}

// GetSummary returns the conversation's message count and bounded recent
// window.
func (l *MessageLogic) GetSummary(ctx context.Context, conversationID uuid.UUID, username string) (*ConversationSummary, error) {
	_, convo, err := l.convos.Authorize(ctx, conversationID, username)
	if err != nil {
		return nil, err
	}
	count, err := l.messageDAO.CountMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	recent, err := l.historyWindow(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &ConversationSummary{
		ConversationID: convo.ID,
		Title:          convo.Title,
		MessageCount:   count,
		RecentMessages: recent,
	}, nil
}
