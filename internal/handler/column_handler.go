package handler

import (
	"context"
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ColumnService interface {
	CreateColumn(ctx context.Context, ownerID uuid.UUID, in workflow.ColumnInput) (*model.Column, error)
	Column(ctx context.Context, ownerID, columnID uuid.UUID) (*model.Column, error)
	Columns(ctx context.Context, ownerID, boardID uuid.UUID) ([]model.Column, error)
	ColumnCardCount(ctx context.Context, columnID uuid.UUID) (int64, error)
	UpdateColumn(ctx context.Context, ownerID, columnID uuid.UUID, patch workflow.ColumnPatch) (*model.Column, error)
	DeleteColumn(ctx context.Context, ownerID, columnID uuid.UUID) error
	ReorderColumns(ctx context.Context, ownerID, boardID uuid.UUID, orders []workflow.ColumnOrder) ([]model.Column, error)
}

type ColumnHandler struct {
	columns ColumnService
	log     *zap.Logger
}

func NewColumnHandler(columns ColumnService, log *zap.Logger) *ColumnHandler {
	return &ColumnHandler{columns: columns, log: log}
}

type CreateColumnRequest struct {
	BoardID  uuid.UUID `json:"board_id" binding:"required"`
	Name     string    `json:"name" binding:"required,max=100"`
	Position *int      `json:"position"`
	WIPLimit *int      `json:"wip_limit" binding:"omitempty,min=0"`
	Color    string    `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateColumnRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	Position      *int    `json:"position"`
	WIPLimit      *int    `json:"wip_limit" binding:"omitempty,min=0"`
	ClearWIPLimit bool    `json:"clear_wip_limit"`
	Color         *string `json:"color" binding:"omitempty,hexcolor"`
}

type ReorderColumnsRequest struct {
	Columns []struct {
		ID       uuid.UUID `json:"id" binding:"required"`
		Position int       `json:"position"`
	} `json:"columns" binding:"required,min=1,dive"`
}

// withCount fills card_count for a column loaded without its cards.
func (h *ColumnHandler) withCount(c *gin.Context, column *model.Column) (ColumnResponse, error) {
	count, err := h.columns.ColumnCardCount(c.Request.Context(), column.ID)
	if err != nil {
		return ColumnResponse{}, err
	}
	return newColumnResponse(column, timeNow()).withCount(column, count), nil
}

func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	column, err := h.columns.CreateColumn(c.Request.Context(), userID, workflow.ColumnInput{
		BoardID:  req.BoardID,
		Name:     req.Name,
		Position: req.Position,
		WIPLimit: req.WIPLimit,
		Color:    req.Color,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, newColumnResponse(column, timeNow()))
}

func (h *ColumnHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	columns, err := h.columns.Columns(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]ColumnResponse, 0, len(columns))
	for i := range columns {
		item, err := h.withCount(c, &columns[i])
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ColumnHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.Column(c.Request.Context(), userID, columnID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp, err := h.withCount(c, column)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	column, err := h.columns.UpdateColumn(c.Request.Context(), userID, columnID, workflow.ColumnPatch{
		Name:          req.Name,
		Position:      req.Position,
		WIPLimit:      req.WIPLimit,
		ClearWIPLimit: req.ClearWIPLimit,
		Color:         req.Color,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp, err := h.withCount(c, column)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.columns.DeleteColumn(c.Request.Context(), userID, columnID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ColumnHandler) ReorderColumns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	orders := make([]workflow.ColumnOrder, 0, len(req.Columns))
	for _, col := range req.Columns {
		orders = append(orders, workflow.ColumnOrder{ID: col.ID, Position: col.Position})
	}

	columns, err := h.columns.ReorderColumns(c.Request.Context(), userID, boardID, orders)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]ColumnResponse, 0, len(columns))
	for i := range columns {
		item, err := h.withCount(c, &columns[i])
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}
