package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/workflow"
)

type CardService interface {
	CreateCard(ctx context.Context, ownerID uuid.UUID, in workflow.CardInput) (*model.Card, error)
	CardDetail(ctx context.Context, ownerID, cardID uuid.UUID) (*workflow.CardDetail, error)
	Cards(ctx context.Context, ownerID uuid.UUID, filter repository.CardFilter) ([]model.Card, error)
	UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, patch workflow.CardPatch) (*model.Card, error)
	MoveCard(ctx context.Context, ownerID, cardID, targetColumnID uuid.UUID, position *int) (*model.Card, error)
	StartCard(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error)
	CompleteCard(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error)
	BulkUpdate(ctx context.Context, ownerID uuid.UUID, cardIDs []uuid.UUID, updates map[string]any) (*workflow.BulkResult, error)
}

type CardHandler struct {
	cards CardService
	log   *zap.Logger
}

func NewCardHandler(cards CardService, log *zap.Logger) *CardHandler {
	return &CardHandler{cards: cards, log: log}
}

type CreateCardRequest struct {
	ColumnID       uuid.UUID  `json:"column_id" binding:"required"`
	Title          string     `json:"title" binding:"required,max=200"`
	Description    string     `json:"description"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	Position       int        `json:"position" binding:"min=0"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status         string     `json:"status" binding:"omitempty,oneof=normal at_risk blocked overdue"`
	Tags           []string   `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
}

type UpdateCardRequest struct {
	Title          *string    `json:"title" binding:"omitempty,max=200"`
	Description    *string    `json:"description"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	ClearAssignee  bool       `json:"clear_assignee"`
	Position       *int       `json:"position" binding:"omitempty,min=0"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status         *string    `json:"status" binding:"omitempty,oneof=normal at_risk blocked overdue"`
	Tags           []string   `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	ClearDueDate   bool       `json:"clear_due_date"`
}

type MoveCardRequest struct {
	TargetColumnID uuid.UUID `json:"target_column_id" binding:"required"`
	Position       *int      `json:"position" binding:"omitempty,min=0"`
}

type BulkUpdateRequest struct {
	CardIDs []uuid.UUID    `json:"card_ids" binding:"required,min=1"`
	Updates map[string]any `json:"updates" binding:"required"`
}

type BulkUpdateResponse struct {
	Updated int            `json:"updated"`
	Cards   []CardResponse `json:"cards"`
}

// Create godoc
// @Summary      Create a card in a column
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCardRequest true "Card"
// @Success      201 {object} CardResponse
// @Failure      409 {object} map[string]interface{}
// @Router       /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	card, err := h.cards.CreateCard(c.Request.Context(), userID, workflow.CardInput{
		ColumnID:       req.ColumnID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		Position:       req.Position,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Priority:       model.Priority(req.Priority),
		Status:         model.CardStatus(req.Status),
		Tags:           req.Tags,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, newCardResponse(card, timeNow()))
}

func (h *CardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var filter repository.CardFilter
	if raw := c.Query("board_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid board_id format")
			return
		}
		filter.BoardID = id
	}
	if raw := c.Query("column_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid column_id format")
			return
		}
		filter.ColumnID = id
	}
	now := timeNow()
	if raw := c.Query("overdue"); raw != "" {
		overdue, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "overdue must be true or false")
			return
		}
		if overdue {
			filter.OverdueAt = &now
		}
	}

	cards, err := h.cards.Cards(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponses(cards, now))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.cards.CardDetail(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, CardDetailResponse{
		CardResponse: newCardResponse(&detail.Card, timeNow()),
		ColumnName:   detail.ColumnName,
		BoardID:      detail.BoardID,
		BoardName:    detail.BoardName,
		Comments:     newCommentResponses(detail.Comments),
		Attachments:  newAttachmentResponses(detail.Attachments),
	})
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	patch := workflow.CardPatch{
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		ClearAssignee:  req.ClearAssignee,
		Position:       req.Position,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
		DueDate:        req.DueDate,
		ClearDueDate:   req.ClearDueDate,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := model.CardStatus(*req.Status)
		patch.Status = &s
	}

	card, err := h.cards.UpdateCard(c.Request.Context(), userID, cardID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(card, timeNow()))
}

// Move godoc
// @Summary      Move a card to another column
// @Description  Rejected with 409 when the target column is at its WIP limit.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        request body MoveCardRequest true "Target"
// @Success      200 {object} CardResponse
// @Failure      409 {object} map[string]interface{}
// @Router       /cards/{id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	card, err := h.cards.MoveCard(c.Request.Context(), userID, cardID, req.TargetColumnID, req.Position)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(card, timeNow()))
}

func (h *CardHandler) Start(c *gin.Context) {
	h.transition(c, h.cards.StartCard)
}

func (h *CardHandler) Complete(c *gin.Context) {
	h.transition(c, h.cards.CompleteCard)
}

func (h *CardHandler) transition(c *gin.Context, apply func(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, err := apply(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(card, timeNow()))
}

// BulkUpdate godoc
// @Summary      Apply the same field updates to several cards
// @Description  Only status, priority, assigned_to and tags may be updated.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkUpdateRequest true "Selection and updates"
// @Success      200 {object} BulkUpdateResponse
// @Failure      400 {object} map[string]interface{}
// @Router       /cards/bulk-update [post]
func (h *CardHandler) BulkUpdate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	result, err := h.cards.BulkUpdate(c.Request.Context(), userID, req.CardIDs, req.Updates)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, BulkUpdateResponse{
		Updated: result.Updated,
		Cards:   newCardResponses(result.Cards, timeNow()),
	})
}
