package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type SprintInput struct {
	BoardID            uuid.UUID
	Name               string
	Goal               string
	StartDate          time.Time
	EndDate            time.Time
	PlannedHours       float64
	PlannedStoryPoints int
	CardIDs            []uuid.UUID
}

// SprintPatch carries sprint edits. A non-nil CardIDs replaces the linked cards.
type SprintPatch struct {
	Name                 *string
	Goal                 *string
	StartDate            *time.Time
	EndDate              *time.Time
	PlannedHours         *float64
	ActualHours          *float64
	PlannedStoryPoints   *int
	CompletedStoryPoints *int
	CardIDs              []uuid.UUID
}

// SprintReport is a sprint with its derived figures.
type SprintReport struct {
	Sprint         model.Sprint
	DurationDays   int
	Velocity       float64
	CompletionRate float64
	Cards          repository.SprintCardCounts
}

func validateSprint(sprint *model.Sprint) error {
	if strings.TrimSpace(sprint.Name) == "" {
		return invalid("name", "name is required")
	}
	if !sprint.EndDate.After(sprint.StartDate) {
		return invalid("end_date", "End date must be after start date")
	}
	if sprint.PlannedHours < 0 || !fitsHours(sprint.PlannedHours, maxSprintHours) {
		return invalid("planned_hours", "hours must be between 0 and 9999.99 with at most 2 decimal places")
	}
	if sprint.ActualHours < 0 || !fitsHours(sprint.ActualHours, maxSprintHours) {
		return invalid("actual_hours", "hours must be between 0 and 9999.99 with at most 2 decimal places")
	}
	if sprint.PlannedStoryPoints < 0 || sprint.CompletedStoryPoints < 0 {
		return invalid("planned_story_points", "story points must not be negative")
	}
	return nil
}

// linkCards replaces the sprint's cards. Every id must be a card on the sprint's board.
func linkCards(ctx context.Context, s *store, sprint *model.Sprint, cardIDs []uuid.UUID) error {
	if len(cardIDs) > 0 {
		found, err := s.cards.OnBoard(ctx, cardIDs, sprint.BoardID)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]struct{}, len(found))
		for _, id := range found {
			known[id] = struct{}{}
		}
		for _, id := range cardIDs {
			if _, ok := known[id]; !ok {
				return invalid("card_ids", fmt.Sprintf("card %s is not on this board", id))
			}
		}
	}
	return s.sprints.ReplaceCards(ctx, sprint.ID, cardIDs)
}

// CreateSprint stores a new, inactive sprint.
func (e *Engine) CreateSprint(ctx context.Context, ownerID uuid.UUID, in SprintInput) (*model.Sprint, error) {
	sprint := model.Sprint{
		BoardID:            in.BoardID,
		Name:               strings.TrimSpace(in.Name),
		Goal:               in.Goal,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		PlannedHours:       in.PlannedHours,
		PlannedStoryPoints: in.PlannedStoryPoints,
	}
	if err := validateSprint(&sprint); err != nil {
		return nil, err
	}

	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.boards.GetOwnedByID(ctx, in.BoardID, ownerID); err != nil {
			return err
		}
		if err := s.sprints.Create(ctx, &sprint); err != nil {
			return fmt.Errorf("create sprint: %w", err)
		}
		return linkCards(ctx, s, &sprint, in.CardIDs)
	})
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (e *Engine) Sprint(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error) {
	return e.read().sprints.GetOwnedByID(ctx, sprintID, ownerID)
}

func (e *Engine) Sprints(ctx context.Context, ownerID, boardID uuid.UUID) ([]model.Sprint, error) {
	s := e.read()
	if _, err := s.boards.GetOwnedByID(ctx, boardID, ownerID); err != nil {
		return nil, err
	}
	return s.sprints.ListByBoard(ctx, boardID)
}

// SprintReport computes the derived sprint figures from current state.
func (e *Engine) SprintReport(ctx context.Context, ownerID, sprintID uuid.UUID) (*SprintReport, error) {
	s := e.read()
	sprint, err := s.sprints.GetOwnedByID(ctx, sprintID, ownerID)
	if err != nil {
		return nil, err
	}
	counts, err := s.sprints.CardCounts(ctx, sprint.ID)
	if err != nil {
		return nil, fmt.Errorf("count sprint cards: %w", err)
	}
	return &SprintReport{
		Sprint:         *sprint,
		DurationDays:   sprint.DurationDays(),
		Velocity:       sprint.Velocity(),
		CompletionRate: model.CompletionRate(counts.Completed, counts.Total),
		Cards:          counts,
	}, nil
}

// SprintCards lists the cards linked to a sprint.
func (e *Engine) SprintCards(ctx context.Context, ownerID, sprintID uuid.UUID) ([]model.Card, error) {
	s := e.read()
	sprint, err := s.sprints.GetOwnedByID(ctx, sprintID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.sprints.Cards(ctx, sprint.ID)
}

// UpdateSprint edits a sprint. is_active and is_completed only change through
// ActivateSprint and CompleteSprint and are never written here.
func (e *Engine) UpdateSprint(ctx context.Context, ownerID, sprintID uuid.UUID, patch SprintPatch) (*model.Sprint, error) {
	var sprint *model.Sprint
	err := e.inTx(ctx, func(s *store) error {
		var err error
		sprint, err = s.sprints.LockOwnedByID(ctx, sprintID, ownerID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			sprint.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Goal != nil {
			sprint.Goal = *patch.Goal
		}
		if patch.StartDate != nil {
			sprint.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			sprint.EndDate = *patch.EndDate
		}
		if patch.PlannedHours != nil {
			sprint.PlannedHours = *patch.PlannedHours
		}
		if patch.ActualHours != nil {
			sprint.ActualHours = *patch.ActualHours
		}
		if patch.PlannedStoryPoints != nil {
			sprint.PlannedStoryPoints = *patch.PlannedStoryPoints
		}
		if patch.CompletedStoryPoints != nil {
			sprint.CompletedStoryPoints = *patch.CompletedStoryPoints
		}
		if err := validateSprint(sprint); err != nil {
			return err
		}
		if err := s.sprints.UpdateDetails(ctx, sprint); err != nil {
			return err
		}
		if patch.CardIDs != nil {
			return linkCards(ctx, s, sprint, patch.CardIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sprint, nil
}

func (e *Engine) DeleteSprint(ctx context.Context, ownerID, sprintID uuid.UUID) error {
	return e.inTx(ctx, func(s *store) error {
		sprint, err := s.sprints.GetOwnedByID(ctx, sprintID, ownerID)
		if err != nil {
			return err
		}
		return s.sprints.Delete(ctx, sprint.ID)
	})
}

// ActivateSprint makes the sprint the single active sprint of its board.
//
// Note the asymmetry: activating an already active sprint fails with
// ErrAlreadyActive, while any other active sprint on the board is switched
// off without complaint. The board-wide invariant holds afterwards even if
// several sprints were active before the call.
func (e *Engine) ActivateSprint(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error) {
	var (
		sprint      *model.Sprint
		deactivated int64
	)
	err := e.inTx(ctx, func(s *store) error {
		found, err := s.sprints.GetOwnedByID(ctx, sprintID, ownerID)
		if err != nil {
			return err
		}
		locked, err := s.sprints.LockByBoard(ctx, found.BoardID)
		if err != nil {
			return fmt.Errorf("lock board sprints: %w", err)
		}
		for i := range locked {
			if locked[i].ID == found.ID {
				sprint = &locked[i]
			}
		}
		if sprint == nil {
			return ErrNotFound
		}
		if sprint.IsActive {
			return ErrAlreadyActive
		}
		if sprint.IsCompleted {
			return invalid("is_completed", "a completed sprint cannot be started again")
		}

		deactivated, err = s.sprints.DeactivateOthers(ctx, sprint.BoardID, sprint.ID)
		if err != nil {
			return fmt.Errorf("deactivate sprints: %w", err)
		}
		sprint.IsActive = true
		return s.sprints.Update(ctx, sprint)
	})
	if err != nil {
		return nil, err
	}

	metrics.SprintActivations.Inc()
	if deactivated > 0 {
		metrics.SprintsDeactivated.Add(float64(deactivated))
		e.log.Info("sprints deactivated by activation",
			zap.Stringer("sprint_id", sprint.ID),
			zap.Stringer("board_id", sprint.BoardID),
			zap.Int64("count", deactivated),
		)
	}
	return sprint, nil
}

// CompleteSprint closes the sprint. Repeated calls succeed.
func (e *Engine) CompleteSprint(ctx context.Context, ownerID, sprintID uuid.UUID) (*model.Sprint, error) {
	var sprint *model.Sprint
	err := e.inTx(ctx, func(s *store) error {
		var err error
		sprint, err = s.sprints.LockOwnedByID(ctx, sprintID, ownerID)
		if err != nil {
			return err
		}
		sprint.IsActive = false
		sprint.IsCompleted = true
		return s.sprints.Update(ctx, sprint)
	})
	if err != nil {
		return nil, err
	}
	return sprint, nil
}
