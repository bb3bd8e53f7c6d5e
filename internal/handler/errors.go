package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/middleware"
	"taskboard/internal/wallet"
	"taskboard/internal/workflow"
)

var timeNow = time.Now

// respondError maps workflow and store errors onto HTTP responses.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		capacity *workflow.CapacityExceededError
		fields   *workflow.InvalidFieldError
		invalid  *workflow.ValidationError
	)
	switch {
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capacity.Error(),
			"code":      "capacity_exceeded",
			"column":    capacity.Column,
			"wip_limit": capacity.Limit,
		})
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  fields.Error(),
			"code":   "invalid_field",
			"fields": fields.Fields,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": invalid.Message,
			"code":  "validation_error",
			"field": invalid.Field,
		})
	case errors.Is(err, workflow.ErrAlreadyStarted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card already started", "code": "already_started"})
	case errors.Is(err, workflow.ErrAlreadyCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card already completed", "code": "already_completed"})
	case errors.Is(err, workflow.ErrAlreadyActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sprint is already active", "code": "already_active"})
	case errors.Is(err, wallet.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
	case errors.Is(err, workflow.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can change this comment"})
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(err)})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notFoundMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Not found"
	}
	return msg
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// currentUser reads the id set by JWTAuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
