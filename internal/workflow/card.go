package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type CardInput struct {
	ColumnID       uuid.UUID
	Title          string
	Description    string
	AssignedTo     *uuid.UUID
	Position       int
	EstimatedHours *float64
	ActualHours    float64
	Priority       model.Priority
	Status         model.CardStatus
	Tags           []string
	DueDate        *time.Time
}

// CardPatch carries plain edits. Timestamps and the column cannot be changed
// here: use MoveCard, StartCard and CompleteCard.
type CardPatch struct {
	Title          *string
	Description    *string
	AssignedTo     *uuid.UUID
	ClearAssignee  bool
	Position       *int
	EstimatedHours *float64
	ActualHours    *float64
	Priority       *model.Priority
	Status         *model.CardStatus
	Tags           []string
	DueDate        *time.Time
	ClearDueDate   bool
}

// CardDetail is a card with its surroundings for the detail view.
type CardDetail struct {
	Card        model.Card
	ColumnName  string
	BoardID     uuid.UUID
	BoardName   string
	Comments    []model.Comment
	Attachments []model.Attachment
}

const detailCommentLimit = 10

// checkCapacity must run after the column row is locked.
func (e *Engine) checkCapacity(ctx context.Context, s *store, column *model.Column, operation string) error {
	if column.WIPLimit == nil {
		return nil
	}
	count, err := s.cards.CountByColumn(ctx, column.ID)
	if err != nil {
		return fmt.Errorf("count cards in column: %w", err)
	}
	if column.IsWIPLimitReached(count) {
		metrics.WIPRejections.WithLabelValues(operation).Inc()
		e.log.Info("wip limit reached",
			zap.String("operation", operation),
			zap.Stringer("column_id", column.ID),
			zap.String("column", column.Name),
			zap.Int("wip_limit", *column.WIPLimit),
		)
		return &CapacityExceededError{Column: column.Name, Limit: *column.WIPLimit}
	}
	return nil
}

// Card hours are stored as NUMERIC(5,2), sprint hours as NUMERIC(6,2).
const (
	maxCardHours   = 1000
	maxSprintHours = 10000
)

// fitsHours reports whether v has at most two decimal places and stays below limit.
func fitsHours(v float64, limit int64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2)) && d.LessThan(decimal.NewFromInt(limit))
}

func validateHours(estimated, actual float64) error {
	if estimated <= 0 {
		return invalid("estimated_hours", "Estimated hours must be greater than 0")
	}
	if !fitsHours(estimated, maxCardHours) {
		return invalid("estimated_hours", "Estimated hours must be below 1000 with at most 2 decimal places")
	}
	if actual < 0 {
		return invalid("actual_hours", "Actual hours must not be negative")
	}
	if !fitsHours(actual, maxCardHours) {
		return invalid("actual_hours", "Actual hours must be below 1000 with at most 2 decimal places")
	}
	return nil
}

func (e *Engine) validateDueDate(due *time.Time) error {
	if due != nil && due.Before(e.clock()) {
		return invalid("due_date", "Due date cannot be in the past")
	}
	return nil
}

func checkAssignee(ctx context.Context, s *store, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *userID)
	if err != nil {
		return err
	}
	if user == nil {
		return invalid("assigned_to", "assignee does not exist")
	}
	return nil
}

// CreateCard places a new card in a column, subject to the column's WIP limit.
func (e *Engine) CreateCard(ctx context.Context, ownerID uuid.UUID, in CardInput) (*model.Card, error) {
	card := model.Card{
		ColumnID:       in.ColumnID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		AssignedTo:     in.AssignedTo,
		CreatedBy:      ownerID,
		Position:       in.Position,
		EstimatedHours: model.DefaultEstimatedHours,
		ActualHours:    in.ActualHours,
		Priority:       in.Priority,
		Status:         in.Status,
		Tags:           in.Tags,
		DueDate:        in.DueDate,
	}
	if in.EstimatedHours != nil {
		card.EstimatedHours = *in.EstimatedHours
	}
	if card.Priority == "" {
		card.Priority = model.PriorityMedium
	}
	if card.Status == "" {
		card.Status = model.StatusNormal
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}

	if card.Title == "" {
		return nil, invalid("title", "title is required")
	}
	if err := validateHours(card.EstimatedHours, card.ActualHours); err != nil {
		return nil, err
	}
	if !card.Priority.Valid() {
		return nil, invalid("priority", fmt.Sprintf("unknown priority %q", card.Priority))
	}
	if !card.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", card.Status))
	}
	if err := e.validateDueDate(card.DueDate); err != nil {
		return nil, err
	}

	err := e.inTx(ctx, func(s *store) error {
		column, err := s.columns.LockOwnedByID(ctx, in.ColumnID, ownerID)
		if err != nil {
			return err
		}
		if err := checkAssignee(ctx, s, card.AssignedTo); err != nil {
			return err
		}
		if err := e.checkCapacity(ctx, s, column, "create"); err != nil {
			return err
		}
		return s.cards.Create(ctx, &card)
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (e *Engine) Card(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error) {
	return e.read().cards.GetOwnedByID(ctx, cardID, ownerID)
}

func (e *Engine) CardDetail(ctx context.Context, ownerID, cardID uuid.UUID) (*CardDetail, error) {
	s := e.read()
	card, err := s.cards.GetOwnedByID(ctx, cardID, ownerID)
	if err != nil {
		return nil, err
	}
	column, err := s.columns.GetOwnedByID(ctx, card.ColumnID, ownerID)
	if err != nil {
		return nil, err
	}
	board, err := s.boards.GetOwnedByID(ctx, column.BoardID, ownerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByCard(ctx, card.ID, detailCommentLimit)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	return &CardDetail{
		Card:        *card,
		ColumnName:  column.Name,
		BoardID:     board.ID,
		BoardName:   board.Name,
		Comments:    comments,
		Attachments: attachments,
	}, nil
}

func (e *Engine) Cards(ctx context.Context, ownerID uuid.UUID, filter repository.CardFilter) ([]model.Card, error) {
	return e.read().cards.List(ctx, ownerID, filter)
}

// UpdateCard applies plain edits. It never touches started_at, completed_at or the column.
func (e *Engine) UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, patch CardPatch) (*model.Card, error) {
	var card *model.Card
	err := e.inTx(ctx, func(s *store) error {
		var err error
		card, err = s.cards.LockOwnedByID(ctx, cardID, ownerID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return invalid("title", "title is required")
			}
			card.Title = title
		}
		if patch.Description != nil {
			card.Description = *patch.Description
		}
		if patch.ClearAssignee {
			card.AssignedTo = nil
		} else if patch.AssignedTo != nil {
			if err := checkAssignee(ctx, s, patch.AssignedTo); err != nil {
				return err
			}
			card.AssignedTo = patch.AssignedTo
		}
		if patch.Position != nil {
			card.Position = *patch.Position
		}
		if patch.EstimatedHours != nil {
			card.EstimatedHours = *patch.EstimatedHours
		}
		if patch.ActualHours != nil {
			card.ActualHours = *patch.ActualHours
		}
		if err := validateHours(card.EstimatedHours, card.ActualHours); err != nil {
			return err
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return invalid("priority", fmt.Sprintf("unknown priority %q", *patch.Priority))
			}
			card.Priority = *patch.Priority
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return invalid("status", fmt.Sprintf("unknown status %q", *patch.Status))
			}
			card.Status = *patch.Status
		}
		if patch.Tags != nil {
			card.Tags = patch.Tags
		}
		if patch.ClearDueDate {
			card.DueDate = nil
		} else if patch.DueDate != nil {
			if err := e.validateDueDate(patch.DueDate); err != nil {
				return err
			}
			card.DueDate = patch.DueDate
		}
		return s.cards.Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// stampArrival records the first arrival in a working or finished column.
// Existing timestamps are never overwritten.
func stampArrival(card *model.Card, columnName string, now time.Time) {
	switch strings.ToLower(strings.TrimSpace(columnName)) {
	case "in progress", "doing":
		if card.StartedAt == nil {
			card.StartedAt = &now
		}
	case "done":
		if card.CompletedAt == nil {
			card.CompletedAt = &now
		}
	}
}

// MoveCard transfers a card to targetColumnID.
//
// Without an explicit position the card goes after the last card of the
// target column; an empty column puts it at position 1, not 0. Explicit
// positions are used verbatim and siblings are not renumbered.
//
// The WIP limit is skipped when the card is already in the target column. On
// CapacityExceeded nothing is written.
func (e *Engine) MoveCard(ctx context.Context, ownerID, cardID, targetColumnID uuid.UUID, position *int) (*model.Card, error) {
	var card *model.Card
	err := e.inTx(ctx, func(s *store) error {
		var err error
		card, err = s.cards.LockOwnedByID(ctx, cardID, ownerID)
		if err != nil {
			return err
		}
		target, err := s.columns.LockOwnedByID(ctx, targetColumnID, ownerID)
		if err != nil {
			return err
		}

		if card.ColumnID != target.ID {
			current, err := s.columns.GetOwnedByID(ctx, card.ColumnID, ownerID)
			if err != nil {
				return err
			}
			if current.BoardID != target.BoardID {
				return invalid("target_column_id", "cannot move a card to a column on another board")
			}
			if err := e.checkCapacity(ctx, s, target, "move"); err != nil {
				return err
			}
		}

		newPosition := 0
		if position != nil {
			newPosition = *position
		} else {
			maxPosition, err := s.cards.MaxPosition(ctx, target.ID)
			if err != nil {
				return err
			}
			newPosition = maxPosition + 1
		}

		card.ColumnID = target.ID
		card.Position = newPosition
		stampArrival(card, target.Name, e.clock())
		return s.cards.Update(ctx, card)
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			metrics.CardMoves.WithLabelValues("rejected").Inc()
		} else {
			metrics.CardMoves.WithLabelValues("failed").Inc()
		}
		return nil, err
	}
	metrics.CardMoves.WithLabelValues("moved").Inc()
	return card, nil
}

// StartCard marks work as started without moving the card.
func (e *Engine) StartCard(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error) {
	var card *model.Card
	err := e.inTx(ctx, func(s *store) error {
		var err error
		card, err = s.cards.LockOwnedByID(ctx, cardID, ownerID)
		if err != nil {
			return err
		}
		if card.StartedAt != nil {
			return ErrAlreadyStarted
		}
		now := e.clock()
		card.StartedAt = &now
		card.Status = model.StatusNormal
		return s.cards.Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// CompleteCard marks the card done without moving it.
func (e *Engine) CompleteCard(ctx context.Context, ownerID, cardID uuid.UUID) (*model.Card, error) {
	var card *model.Card
	err := e.inTx(ctx, func(s *store) error {
		var err error
		card, err = s.cards.LockOwnedByID(ctx, cardID, ownerID)
		if err != nil {
			return err
		}
		if card.CompletedAt != nil {
			return ErrAlreadyCompleted
		}
		now := e.clock()
		card.CompletedAt = &now
		card.Status = model.StatusNormal
		return s.cards.Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// BulkUpdatableFields is the allow-list for BulkUpdate.
var BulkUpdatableFields = []string{"status", "priority", "assigned_to", "tags"}

type BulkResult struct {
	Updated int
	Cards   []model.Card
}

type cardChange func(card *model.Card)

// parseBulkUpdates turns decoded JSON values into card mutations.
func parseBulkUpdates(updates map[string]any) ([]cardChange, *uuid.UUID, error) {
	if len(updates) == 0 {
		return nil, nil, invalid("updates", "at least one field is required")
	}

	var bad []string
	for key := range updates {
		if !contains(BulkUpdatableFields, key) {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, nil, &InvalidFieldError{Fields: bad}
	}

	var (
		changes  []cardChange
		assignee *uuid.UUID
	)
	for key, raw := range updates {
		switch key {
		case "status":
			str, ok := raw.(string)
			status := model.CardStatus(str)
			if !ok || !status.Valid() {
				return nil, nil, invalid("status", fmt.Sprintf("unknown status %v", raw))
			}
			changes = append(changes, func(c *model.Card) { c.Status = status })
		case "priority":
			str, ok := raw.(string)
			priority := model.Priority(str)
			if !ok || !priority.Valid() {
				return nil, nil, invalid("priority", fmt.Sprintf("unknown priority %v", raw))
			}
			changes = append(changes, func(c *model.Card) { c.Priority = priority })
		case "assigned_to":
			if raw == nil {
				changes = append(changes, func(c *model.Card) { c.AssignedTo = nil })
				continue
			}
			str, ok := raw.(string)
			if !ok {
				return nil, nil, invalid("assigned_to", "assigned_to must be a user id or null")
			}
			id, err := uuid.Parse(str)
			if err != nil {
				return nil, nil, invalid("assigned_to", "assigned_to must be a user id or null")
			}
			assignee = &id
			changes = append(changes, func(c *model.Card) {
				v := id
				c.AssignedTo = &v
			})
		case "tags":
			tags, err := toStrings(raw)
			if err != nil {
				return nil, nil, invalid("tags", err.Error())
			}
			changes = append(changes, func(c *model.Card) { c.Tags = append([]string(nil), tags...) })
		}
	}
	return changes, assignee, nil
}

func toStrings(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("tags must be a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.New("tags must be a list of strings")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// BulkUpdate applies the same allow-listed field values to every card in
// cardIDs that ownerID can see. Ids outside the caller's boards are skipped,
// not reported. Any key outside the allow-list rejects the whole request.
func (e *Engine) BulkUpdate(ctx context.Context, ownerID uuid.UUID, cardIDs []uuid.UUID, updates map[string]any) (*BulkResult, error) {
	changes, assignee, err := parseBulkUpdates(updates)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	err = e.inTx(ctx, func(s *store) error {
		if err := checkAssignee(ctx, s, assignee); err != nil {
			return err
		}
		cards, err := s.cards.LockOwnedByIDs(ctx, cardIDs, ownerID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(cards))
		for i := range cards {
			for _, change := range changes {
				change(&cards[i])
			}
			if err := s.cards.Update(ctx, &cards[i]); err != nil {
				return err
			}
			ids = append(ids, cards[i].ID)
		}
		result.Updated = len(cards)
		result.Cards, err = s.cards.GetOwnedByIDs(ctx, ids, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
