package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logic"
	"github.com/VSO-Labs/Daddy-John-Backend/middleware"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// SubscriptionController handles HTTP requests for plans and usage.
type SubscriptionController struct {
	subLogic   *logic.SubscriptionLogic
	usageLogic *logic.UsageLogic
	userDAO    *dao.UserDAO
}

func NewSubscriptionController(subLogic *logic.SubscriptionLogic, usageLogic *logic.UsageLogic, userDAO *dao.UserDAO) *SubscriptionController {
	return &SubscriptionController{subLogic: subLogic, usageLogic: usageLogic, userDAO: userDAO}
}

// GetSubscription handles GET /api/subscription
func (c *SubscriptionController) GetSubscription(ctx *gin.Context) {
	user, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	plan, err := c.subLogic.ActivePlanFor(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	sub, err := c.subLogic.CurrentSubscription(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"plan": plan, "subscription": sub})
}

// ActivatePlan handles POST /api/subscription
func (c *SubscriptionController) ActivatePlan(ctx *gin.Context) {
	user, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	type Request struct {
		Plan string `json:"plan" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := c.subLogic.ActivatePlan(ctx.Request.Context(), user, req.Plan)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, sub)
}

// GetTodayUsage handles GET /api/usage/today
func (c *SubscriptionController) GetTodayUsage(ctx *gin.Context) {
	user, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	usage, err := c.usageLogic.TodayUsage(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, usage)
}

func (c *SubscriptionController) currentUser(ctx *gin.Context) (*models.User, bool) {
	u, err := c.userDAO.GetUserByUsername(ctx.Request.Context(), middleware.Username(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, apperr.NotFound("user", middleware.Username(ctx)))
			return nil, false
		}
		respondError(ctx, err)
		return nil, false
	}
	return u, true
}
