package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taskboard/internal/model"
	"taskboard/internal/workflow"
)

type UserResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Email               string          `json:"email"`
	Name                string          `json:"name"`
	WalletBalance       decimal.Decimal `json:"wallet_balance"`
	PenaltyPerMiss      decimal.Decimal `json:"penalty_per_miss"`
	ConsecutiveFailures int             `json:"consecutive_failures"`
	CreatedAt           time.Time       `json:"created_at"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		WalletBalance:       u.WalletBalance,
		PenaltyPerMiss:      u.PenaltyPerMiss,
		ConsecutiveFailures: u.ConsecutiveFailures,
		CreatedAt:           u.CreatedAt,
	}
}

type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	PenaltyDate *string         `json:"penalty_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type WalletResponse struct {
	Balance             decimal.Decimal       `json:"balance"`
	PenaltyPerMiss      decimal.Decimal       `json:"penalty_per_miss"`
	ConsecutiveFailures int                   `json:"consecutive_failures"`
	Transactions        []TransactionResponse `json:"transactions"`
}

type BoardResponse struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	BoardType      model.BoardType  `json:"board_type"`
	IsActive       bool             `json:"is_active"`
	DefaultColumns []string         `json:"default_columns"`
	Columns        []ColumnResponse `json:"columns,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func newBoardResponse(b *model.Board, now time.Time) BoardResponse {
	resp := BoardResponse{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		Name:           b.Name,
		Description:    b.Description,
		BoardType:      b.BoardType,
		IsActive:       b.IsActive,
		DefaultColumns: b.DefaultColumns,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if resp.DefaultColumns == nil {
		resp.DefaultColumns = []string{}
	}
	for i := range b.Columns {
		resp.Columns = append(resp.Columns, newColumnResponse(&b.Columns[i], now))
	}
	return resp
}

type ColumnResponse struct {
	ID                uuid.UUID      `json:"id"`
	BoardID           uuid.UUID      `json:"board_id"`
	Name              string         `json:"name"`
	Position          int            `json:"position"`
	WIPLimit          *int           `json:"wip_limit"`
	Color             string         `json:"color"`
	CardCount         int64          `json:"card_count"`
	IsWIPLimitReached bool           `json:"is_wip_limit_reached"`
	Cards             []CardResponse `json:"cards,omitempty"`
}

// newColumnResponse counts the preloaded cards; use withCount when they are not loaded.
func newColumnResponse(c *model.Column, now time.Time) ColumnResponse {
	resp := ColumnResponse{
		ID:       c.ID,
		BoardID:  c.BoardID,
		Name:     c.Name,
		Position: c.Position,
		WIPLimit: c.WIPLimit,
		Color:    c.Color,
	}
	for i := range c.Cards {
		resp.Cards = append(resp.Cards, newCardResponse(&c.Cards[i], now))
	}
	return resp.withCount(c, int64(len(c.Cards)))
}

func (r ColumnResponse) withCount(c *model.Column, count int64) ColumnResponse {
	r.CardCount = count
	r.IsWIPLimitReached = c.IsWIPLimitReached(count)
	return r
}

type CardResponse struct {
	ID                   uuid.UUID        `json:"id"`
	ColumnID             uuid.UUID        `json:"column_id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	AssignedTo           *uuid.UUID       `json:"assigned_to"`
	CreatedBy            uuid.UUID        `json:"created_by"`
	Position             int              `json:"position"`
	EstimatedHours       float64          `json:"estimated_hours"`
	ActualHours          float64          `json:"actual_hours"`
	Priority             model.Priority   `json:"priority"`
	Status               model.CardStatus `json:"status"`
	Tags                 []string         `json:"tags"`
	DueDate              *time.Time       `json:"due_date"`
	StartedAt            *time.Time       `json:"started_at"`
	CompletedAt          *time.Time       `json:"completed_at"`
	IsOverdue            bool             `json:"is_overdue"`
	CompletionPercentage float64          `json:"completion_percentage"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func newCardResponse(c *model.Card, now time.Time) CardResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CardResponse{
		ID:                   c.ID,
		ColumnID:             c.ColumnID,
		Title:                c.Title,
		Description:          c.Description,
		AssignedTo:           c.AssignedTo,
		CreatedBy:            c.CreatedBy,
		Position:             c.Position,
		EstimatedHours:       c.EstimatedHours,
		ActualHours:          c.ActualHours,
		Priority:             c.Priority,
		Status:               c.Status,
		Tags:                 tags,
		DueDate:              c.DueDate,
		StartedAt:            c.StartedAt,
		CompletedAt:          c.CompletedAt,
		IsOverdue:            c.IsOverdue(now),
		CompletionPercentage: c.CompletionPercentage(),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func newCardResponses(cards []model.Card, now time.Time) []CardResponse {
	resp := make([]CardResponse, 0, len(cards))
	for i := range cards {
		resp = append(resp, newCardResponse(&cards[i], now))
	}
	return resp
}

type CardDetailResponse struct {
	CardResponse
	ColumnName  string               `json:"column_name"`
	BoardID     uuid.UUID            `json:"board_id"`
	BoardName   string               `json:"board_name"`
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
}

type SprintResponse struct {
	ID                   uuid.UUID     `json:"id"`
	BoardID              uuid.UUID     `json:"board_id"`
	Name                 string        `json:"name"`
	Goal                 string        `json:"goal"`
	StartDate            time.Time     `json:"start_date"`
	EndDate              time.Time     `json:"end_date"`
	IsActive             bool          `json:"is_active"`
	IsCompleted          bool          `json:"is_completed"`
	PlannedHours         float64       `json:"planned_hours"`
	ActualHours          float64       `json:"actual_hours"`
	PlannedStoryPoints   int           `json:"planned_story_points"`
	CompletedStoryPoints int           `json:"completed_story_points"`
	DurationDays         int           `json:"duration_days"`
	Velocity             float64       `json:"velocity"`
	CompletionRate       *float64      `json:"completion_rate,omitempty"`
	CardsSummary         *CardsSummary `json:"cards_summary,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

type CardsSummary struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"in_progress"`
}

func newSprintResponse(s *model.Sprint) SprintResponse {
	return SprintResponse{
		ID:                   s.ID,
		BoardID:              s.BoardID,
		Name:                 s.Name,
		Goal:                 s.Goal,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		IsActive:             s.IsActive,
		IsCompleted:          s.IsCompleted,
		PlannedHours:         s.PlannedHours,
		ActualHours:          s.ActualHours,
		PlannedStoryPoints:   s.PlannedStoryPoints,
		CompletedStoryPoints: s.CompletedStoryPoints,
		DurationDays:         s.DurationDays(),
		Velocity:             s.Velocity(),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func newSprintReportResponse(r *workflow.SprintReport) SprintResponse {
	resp := newSprintResponse(&r.Sprint)
	rate := r.CompletionRate
	resp.CompletionRate = &rate
	resp.CardsSummary = &CardsSummary{
		Total:      r.Cards.Total,
		Completed:  r.Cards.Completed,
		InProgress: r.Cards.InProgress,
	}
	return resp
}

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	CardID     uuid.UUID `json:"card_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		CardID:     c.CardID,
		AuthorID:   c.AuthorID,
		AuthorName: c.Author.Name,
		Content:    c.Content,
		IsEdited:   c.IsEdited,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func newCommentResponses(comments []model.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, newCommentResponse(&comments[i]))
	}
	return resp
}

type AttachmentResponse struct {
	ID         uuid.UUID `json:"id"`
	CardID     uuid.UUID `json:"card_id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAttachmentResponse(a *model.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		CardID:     a.CardID,
		Filename:   a.Filename,
		FileSize:   a.FileSize,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
	}
}

func newAttachmentResponses(attachments []model.Attachment) []AttachmentResponse {
	resp := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		resp = append(resp, newAttachmentResponse(&attachments[i]))
	}
	return resp
}
