package controller

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VSO-Labs/Daddy-John-Backend/logic"
	"github.com/VSO-Labs/Daddy-John-Backend/middleware"
	"github.com/VSO-Labs/Daddy-John-Backend/pkg"
)

// MessageController handles HTTP requests for messages within a
// conversation.
type MessageController struct {
	messageLogic *logic.MessageLogic
}

func NewMessageController(logic *logic.MessageLogic) *MessageController {
	return &MessageController{messageLogic: logic}
}

// SendMessage handles POST /api/conversations/:id/messages
func (c *MessageController) SendMessage(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	type Request struct {
		Content string `json:"content" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := c.messageLogic.SendMessage(ctx.Request.Context(), convoID, middleware.Username(ctx), req.Content, nil)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

// SendMessageWithPhotos handles POST /api/conversations/:id/messages/with-photos
// as a multipart form: optional "content" field plus "photos" file parts.
func (c *MessageController) SendMessageWithPhotos(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content := ctx.PostForm("content")

	files := form.File["photos"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "at least one photo is required"})
		return
	}

	photos := make([]pkg.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		photos = append(photos, pkg.Photo{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	msg, err := c.messageLogic.SendMessage(ctx.Request.Context(), convoID, middleware.Username(ctx), content, photos)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

// GetMessages handles GET /api/conversations/:id/messages
func (c *MessageController) GetMessages(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	page, pageSize := pageParams(ctx)
	messages, err := c.messageLogic.GetMessages(ctx.Request.Context(), convoID, middleware.Username(ctx), page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// GetMessage handles GET /api/conversations/:id/messages/:messageId
func (c *MessageController) GetMessage(ctx *gin.Context) {
	convoID, messageID, ok := c.parseIDs(ctx)
	if !ok {
		return
	}

	msg, err := c.messageLogic.GetMessage(ctx.Request.Context(), messageID, convoID, middleware.Username(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, msg)
}

// DeleteMessage handles DELETE /api/conversations/:id/messages/:messageId
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	convoID, messageID, ok := c.parseIDs(ctx)
	if !ok {
		return
	}

	if err := c.messageLogic.DeleteMessage(ctx.Request.Context(), messageID, convoID, middleware.Username(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetSummary handles GET /api/conversations/:id/messages/summary
func (c *MessageController) GetSummary(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	summary, err := c.messageLogic.GetSummary(ctx.Request.Context(), convoID, middleware.Username(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func (c *MessageController) parseIDs(ctx *gin.Context) (uuid.UUID, uint64, bool) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return uuid.Nil, 0, false
	}
	messageID, err := strconv.ParseUint(ctx.Param("messageId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return uuid.Nil, 0, false
	}
	return convoID, messageID, true
}
