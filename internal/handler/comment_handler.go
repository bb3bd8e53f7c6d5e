package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

type CommentService interface {
	AddComment(ctx context.Context, userID, cardID uuid.UUID, content string) (*model.Comment, error)
	Comments(ctx context.Context, userID, cardID uuid.UUID) ([]model.Comment, error)
	EditComment(ctx context.Context, userID, commentID uuid.UUID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

type CommentHandler struct {
	comments CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), userID, cardID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(comment))
}

func (h *CommentHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.Comments(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponses(comments))
}

func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	comment, err := h.comments.EditComment(c.Request.Context(), userID, commentID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
