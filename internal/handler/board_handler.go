package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/workflow"
)

type BoardService interface {
	CreateBoard(ctx context.Context, ownerID uuid.UUID, board *model.Board) error
	Boards(ctx context.Context, ownerID uuid.UUID, filter repository.BoardFilter) ([]model.Board, error)
	BoardDetail(ctx context.Context, ownerID, boardID uuid.UUID) (*model.Board, error)
	UpdateBoard(ctx context.Context, ownerID, boardID uuid.UUID, patch workflow.BoardPatch) (*model.Board, error)
	DeleteBoard(ctx context.Context, ownerID, boardID uuid.UUID) error
	DuplicateBoard(ctx context.Context, ownerID, boardID uuid.UUID) (*model.Board, error)
	BoardStatistics(ctx context.Context, ownerID, boardID uuid.UUID) (*workflow.BoardStats, error)
}

type BoardHandler struct {
	boards BoardService
	log    *zap.Logger
}

func NewBoardHandler(boards BoardService, log *zap.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, log: log}
}

type CreateBoardRequest struct {
	Name           string   `json:"name" binding:"required,max=200"`
	Description    string   `json:"description"`
	BoardType      string   `json:"board_type" binding:"omitempty,oneof=personal project sprint"`
	DefaultColumns []string `json:"default_columns" binding:"omitempty,dive,required,max=100"`
}

type UpdateBoardRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=200"`
	Description    *string  `json:"description"`
	BoardType      *string  `json:"board_type" binding:"omitempty,oneof=personal project sprint"`
	IsActive       *bool    `json:"is_active"`
	DefaultColumns []string `json:"default_columns" binding:"omitempty,dive,required,max=100"`
}

type BoardStatsResponse struct {
	TotalCards          int                      `json:"total_cards"`
	CompletedCards      int                      `json:"completed_cards"`
	InProgressCards     int                      `json:"in_progress_cards"`
	OverdueCards        int                      `json:"overdue_cards"`
	TotalEstimatedHours float64                  `json:"total_estimated_hours"`
	TotalActualHours    float64                  `json:"total_actual_hours"`
	CardsByPriority     map[model.Priority]int   `json:"cards_by_priority"`
	CardsByStatus       map[model.CardStatus]int `json:"cards_by_status"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	board := &model.Board{
		Name:           req.Name,
		Description:    req.Description,
		BoardType:      model.BoardType(req.BoardType),
		DefaultColumns: req.DefaultColumns,
	}
	if err := h.boards.CreateBoard(c.Request.Context(), userID, board); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, newBoardResponse(board, timeNow()))
}

func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	filter := repository.BoardFilter{
		BoardType: model.BoardType(c.Query("board_type")),
		Search:    c.Query("search"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "is_active must be true or false")
			return
		}
		filter.IsActive = &active
	}

	boards, err := h.boards.Boards(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	now := timeNow()
	resp := make([]BoardResponse, 0, len(boards))
	for i := range boards {
		resp = append(resp, newBoardResponse(&boards[i], now))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	board, err := h.boards.BoardDetail(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newBoardResponse(board, timeNow()))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	patch := workflow.BoardPatch{
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       req.IsActive,
		DefaultColumns: req.DefaultColumns,
	}
	if req.BoardType != nil {
		t := model.BoardType(*req.BoardType)
		patch.BoardType = &t
	}

	board, err := h.boards.UpdateBoard(c.Request.Context(), userID, boardID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newBoardResponse(board, timeNow()))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Duplicate copies the board and its columns; cards are not copied.
func (h *BoardHandler) Duplicate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	board, err := h.boards.DuplicateBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newBoardResponse(board, timeNow()))
}

func (h *BoardHandler) Statistics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.boards.BoardStatistics(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, BoardStatsResponse(*stats))
}
