package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
)

// respondError maps taxonomy errors to their HTTP status; anything else
// is an internal error.
func respondError(ctx *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		ctx.JSON(ae.Status, gin.H{"error": ae.Code, "message": ae.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": err.Error()})
}

// pageParams reads ?page= and ?page_size= with sane defaults.
func pageParams(ctx *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
