package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/workflow"
)

type SprintService interface {
	CreateSprint(ctx context.Context, ownerID uuid.UUID, in workflow.SprintInput) (*model.Sprint, error)
	Sprints(ctx context.Context, ownerID, boardID uuid.UUID) ([]model.Sprint, error)
	SprintReport(ctx context.Context, ownerID, sprintID uuid.UUID) (*workflow.SprintReport, error)
	SprintCards(ctx context.Context, ownerID, sprintID uuid.UUID) ([]model.Card, error)
	UpdateSprint(ctx context.Context, ownerID, sprintID uuid.UUID, patch workflow.SprintPatch) (*model.Sprint, error)
	DeleteSprint(ctx context.Context, ownerID, sprintID uuid.UUID) error
	ActivateSprint(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error)
	CompleteSprint(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error)
}

type SprintHandler struct {
	sprints SprintService
	log     *zap.Logger
}

func NewSprintHandler(sprints SprintService, log *zap.Logger) *SprintHandler {
	return &SprintHandler{sprints: sprints, log: log}
}

type CreateSprintRequest struct {
	BoardID            uuid.UUID   `json:"board_id" binding:"required"`
	Name               string      `json:"name" binding:"required,max=200"`
	Goal               string      `json:"goal"`
	StartDate          time.Time   `json:"start_date" binding:"required"`
	EndDate            time.Time   `json:"end_date" binding:"required"`
	PlannedHours       float64     `json:"planned_hours" binding:"min=0"`
	PlannedStoryPoints int         `json:"planned_story_points" binding:"min=0"`
	CardIDs            []uuid.UUID `json:"card_ids"`
}

type UpdateSprintRequest struct {
	Name                 *string     `json:"name" binding:"omitempty,max=200"`
	Goal                 *string     `json:"goal"`
	StartDate            *time.Time  `json:"start_date"`
	EndDate              *time.Time  `json:"end_date"`
	PlannedHours         *float64    `json:"planned_hours" binding:"omitempty,min=0"`
	ActualHours          *float64    `json:"actual_hours" binding:"omitempty,min=0"`
	PlannedStoryPoints   *int        `json:"planned_story_points" binding:"omitempty,min=0"`
	CompletedStoryPoints *int        `json:"completed_story_points" binding:"omitempty,min=0"`
	CardIDs              []uuid.UUID `json:"card_ids"`
}

func (h *SprintHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	sprint, err := h.sprints.CreateSprint(c.Request.Context(), userID, workflow.SprintInput{
		BoardID:            req.BoardID,
		Name:               req.Name,
		Goal:               req.Goal,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		PlannedHours:       req.PlannedHours,
		PlannedStoryPoints: req.PlannedStoryPoints,
		CardIDs:            req.CardIDs,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newSprintResponse(sprint))
}

func (h *SprintHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sprints, err := h.sprints.Sprints(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]SprintResponse, 0, len(sprints))
	for i := range sprints {
		resp = append(resp, newSprintResponse(&sprints[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Sprint with completion rate and card summary
// @Tags         sprints
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sprint ID"
// @Success      200 {object} SprintResponse
// @Failure      404 {object} map[string]string
// @Router       /sprints/{id} [get]
func (h *SprintHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sprintID, ok := pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.sprints.SprintReport(c.Request.Context(), userID, sprintID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newSprintReportResponse(report))
}

func (h *SprintHandler) Cards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sprintID, ok := pathID(c, "id")
	if !ok {
		return
	}

	cards, err := h.sprints.SprintCards(c.Request.Context(), userID, sprintID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponses(cards, timeNow()))
}

func (h *SprintHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sprintID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	sprint, err := h.sprints.UpdateSprint(c.Request.Context(), userID, sprintID, workflow.SprintPatch{
		Name:                 req.Name,
		Goal:                 req.Goal,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		PlannedHours:         req.PlannedHours,
		ActualHours:          req.ActualHours,
		PlannedStoryPoints:   req.PlannedStoryPoints,
		CompletedStoryPoints: req.CompletedStoryPoints,
		CardIDs:              req.CardIDs,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newSprintResponse(sprint))
}

func (h *SprintHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sprintID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sprints.DeleteSprint(c.Request.Context(), userID, sprintID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Start godoc
// @Summary      Make the sprint the active sprint of its board
// @Description  Other active sprints on the board are deactivated. Starting an active sprint is rejected.
// @Tags         sprints
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sprint ID"
// @Success      200 {object} SprintResponse
// @Failure      400 {object} map[string]string
// @Router       /sprints/{id}/start [post]
func (h *SprintHandler) Start(c *gin.Context) {
	h.transition(c, h.sprints.ActivateSprint)
}

func (h *SprintHandler) Complete(c *gin.Context) {
	h.transition(c, h.sprints.CompleteSprint)
}

func (h *SprintHandler) transition(c *gin.Context, apply func(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sprintID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sprint, err := apply(c.Request.Context(), userID, sprintID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newSprintResponse(sprint))
}
