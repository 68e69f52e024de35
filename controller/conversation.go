package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VSO-Labs/Daddy-John-Backend/logic"
	"github.com/VSO-Labs/Daddy-John-Backend/middleware"
)

// ConversationController handles HTTP requests for conversations
type ConversationController struct {
	convoLogic *logic.ConversationLogic
}

func NewConversationController(logic *logic.ConversationLogic) *ConversationController {
	return &ConversationController{convoLogic: logic}
}

// CreateConversation handles POST /api/conversations
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
	type Request struct {
		Title string `json:"title"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convo, err := c.convoLogic.CreateConversation(ctx.Request.Context(), middleware.Username(ctx), req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, convo)
}

// GetConversations handles GET /api/conversations
func (c *ConversationController) GetConversations(ctx *gin.Context) {
	page, pageSize := pageParams(ctx)
	convos, err := c.convoLogic.GetConversations(ctx.Request.Context(), middleware.Username(ctx), page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, convos)
}

// RenameConversation handles PUT /api/conversations/:id
func (c *ConversationController) RenameConversation(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	type Request struct {
		Title string `json:"title" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convo, err := c.convoLogic.RenameConversation(ctx.Request.Context(), convoID, middleware.Username(ctx), req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, convo)
}

// DeleteConversation handles DELETE /api/conversations/:id
func (c *ConversationController) DeleteConversation(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	if err := c.convoLogic.DeleteConversation(ctx.Request.Context(), convoID, middleware.Username(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
