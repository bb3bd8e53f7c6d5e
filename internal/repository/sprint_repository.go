package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type SprintRepository struct {
	db *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

// SprintCardCounts summarises the cards linked to a sprint.
type SprintCardCounts struct {
	Total      int64
	Completed  int64
	InProgress int64
}

func (r *SprintRepository) Create(ctx context.Context, sprint *model.Sprint) error {
	return r.db.WithContext(ctx).Omit("Board").Create(sprint).Error
}

func (r *SprintRepository) owned(ctx context.Context, id, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN boards ON boards.id = sprints.board_id").
		Where("sprints.id = ? AND boards.owner_id = ?", id, ownerID)
}

func (r *SprintRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := r.owned(ctx, id, ownerID).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return &sprint, nil
}

// LockOwnedByID is GetOwnedByID with the sprint row locked for the rest of
// the transaction.
func (r *SprintRepository) LockOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := r.owned(ctx, id, ownerID).Clauses(forUpdate).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return &sprint, nil
}

func (r *SprintRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("start_date DESC").Find(&sprints).Error
	return sprints, err
}

// LockByBoard locks every sprint row of a board. Activation takes this lock so
// two concurrent activations on one board cannot both win.
func (r *SprintRepository) LockByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := r.db.WithContext(ctx).Clauses(forUpdate).
		Where("board_id = ?", boardID).
		Order("id").
		Find(&sprints).Error
	return sprints, err
}

// DeactivateOthers clears is_active on every other sprint of the board and
// reports how many were switched off.
func (r *SprintRepository) DeactivateOthers(ctx context.Context, boardID, exceptID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Sprint{}).
		Where("board_id = ? AND id <> ? AND is_active = ?", boardID, exceptID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *SprintRepository) Update(ctx context.Context, sprint *model.Sprint) error {
	result := r.db.WithContext(ctx).Omit("Board").Save(sprint)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSprintNotFound
	}
	return nil
}

// editableSprintFields never include is_active or is_completed; those only
// change through activation and completion.
var editableSprintFields = []string{
	"Name", "Goal", "StartDate", "EndDate",
	"PlannedHours", "ActualHours", "PlannedStoryPoints", "CompletedStoryPoints",
	"UpdatedAt",
}

// UpdateDetails writes the editable sprint fields, zero values included.
func (r *SprintRepository) UpdateDetails(ctx context.Context, sprint *model.Sprint) error {
	result := r.db.WithContext(ctx).Model(sprint).
		Select(editableSprintFields).
		Updates(sprint)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSprintNotFound
	}
	return nil
}

func (r *SprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("sprint_id = ?", id).Delete(&model.SprintCard{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Sprint{}, "id = ?", id).Error
}

func (r *SprintRepository) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	sub := r.db.Model(&model.Sprint{}).Select("id").Where("board_id = ?", boardID)
	if err := r.db.WithContext(ctx).Where("sprint_id IN (?)", sub).Delete(&model.SprintCard{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Sprint{}).Error
}

// ReplaceCards makes cardIDs the complete set of cards linked to the sprint.
func (r *SprintRepository) ReplaceCards(ctx context.Context, sprintID uuid.UUID, cardIDs []uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("sprint_id = ?", sprintID).Delete(&model.SprintCard{}).Error; err != nil {
		return err
	}
	if len(cardIDs) == 0 {
		return nil
	}
	links := make([]model.SprintCard, 0, len(cardIDs))
	seen := make(map[uuid.UUID]struct{}, len(cardIDs))
	for _, id := range cardIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, model.SprintCard{SprintID: sprintID, CardID: id})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// UnlinkCards drops the given cards from every sprint.
func (r *SprintRepository) UnlinkCards(ctx context.Context, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Delete(&model.SprintCard{}).Error
}

func (r *SprintRepository) Cards(ctx context.Context, sprintID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN sprint_cards ON sprint_cards.card_id = cards.id").
		Where("sprint_cards.sprint_id = ?", sprintID).
		Order("cards.position, cards.created_at").
		Find(&cards).Error
	return cards, err
}

func (r *SprintRepository) CardCounts(ctx context.Context, sprintID uuid.UUID) (SprintCardCounts, error) {
	var counts SprintCardCounts
	err := r.db.WithContext(ctx).Model(&model.SprintCard{}).
		Select("COUNT(*) AS total, COUNT(cards.completed_at) AS completed, " +
			"COALESCE(SUM(CASE WHEN cards.started_at IS NOT NULL AND cards.completed_at IS NULL THEN 1 ELSE 0 END), 0) AS in_progress").
		Joins("JOIN cards ON cards.id = sprint_cards.card_id").
		Where("sprint_cards.sprint_id = ?", sprintID).
		Scan(&counts).Error
	return counts, err
}
