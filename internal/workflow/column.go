package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskboard/internal/model"
)

var validate = validator.New()

type ColumnInput struct {
	BoardID  uuid.UUID
	Name     string
	Position *int
	WIPLimit *int
	Color    string
}

// ColumnPatch carries the editable column fields; nil means unchanged.
type ColumnPatch struct {
	Name          *string
	Position      *int
	WIPLimit      *int
	ClearWIPLimit bool
	Color         *string
}

// ColumnOrder assigns a position to one column during a reorder.
type ColumnOrder struct {
	ID       uuid.UUID
	Position int
}

func validateWIPLimit(limit *int) error {
	if limit != nil && *limit < 0 {
		return invalid("wip_limit", "WIP limit must not be negative")
	}
	return nil
}

func validateColor(color string) error {
	if validate.Var(color, "required,hexcolor") != nil {
		return invalid("color", "color must be a hex code like #6B7280")
	}
	return nil
}

func (e *Engine) CreateColumn(ctx context.Context, ownerID uuid.UUID, in ColumnInput) (*model.Column, error) {
	column := model.Column{
		BoardID:  in.BoardID,
		Name:     strings.TrimSpace(in.Name),
		WIPLimit: in.WIPLimit,
		Color:    in.Color,
	}
	if column.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if column.Color == "" {
		column.Color = model.DefaultColumnColor
	}
	if err := validateColor(column.Color); err != nil {
		return nil, err
	}
	if err := validateWIPLimit(column.WIPLimit); err != nil {
		return nil, err
	}

	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.boards.GetOwnedByID(ctx, in.BoardID, ownerID); err != nil {
			return err
		}
		taken, err := s.columns.NameTaken(ctx, in.BoardID, column.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return invalid("name", fmt.Sprintf("column %q already exists on this board", column.Name))
		}

		if in.Position != nil {
			column.Position = *in.Position
		} else {
			maxPosition, err := s.columns.GetMaxPosition(ctx, in.BoardID)
			if err != nil {
				return err
			}
			column.Position = maxPosition + 1
		}
		return s.columns.Create(ctx, &column)
	})
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (e *Engine) Column(ctx context.Context, ownerID, columnID uuid.UUID) (*model.Column, error) {
	return e.read().columns.GetOwnedByID(ctx, columnID, ownerID)
}

func (e *Engine) Columns(ctx context.Context, ownerID, boardID uuid.UUID) ([]model.Column, error) {
	s := e.read()
	if _, err := s.boards.GetOwnedByID(ctx, boardID, ownerID); err != nil {
		return nil, err
	}
	return s.columns.GetByBoardID(ctx, boardID)
}

// ColumnCardCount is used by responses to report is_wip_limit_reached.
func (e *Engine) ColumnCardCount(ctx context.Context, columnID uuid.UUID) (int64, error) {
	return e.read().cards.CountByColumn(ctx, columnID)
}

// UpdateColumn edits a column. Lowering the WIP limit below the current card
// count is allowed; it only blocks further additions.
func (e *Engine) UpdateColumn(ctx context.Context, ownerID, columnID uuid.UUID, patch ColumnPatch) (*model.Column, error) {
	var column *model.Column
	err := e.inTx(ctx, func(s *store) error {
		var err error
		column, err = s.columns.LockOwnedByID(ctx, columnID, ownerID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return invalid("name", "name is required")
			}
			taken, err := s.columns.NameTaken(ctx, column.BoardID, name, column.ID)
			if err != nil {
				return err
			}
			if taken {
				return invalid("name", fmt.Sprintf("column %q already exists on this board", name))
			}
			column.Name = name
		}
		if patch.Position != nil {
			column.Position = *patch.Position
		}
		if patch.ClearWIPLimit {
			column.WIPLimit = nil
		} else if patch.WIPLimit != nil {
			if err := validateWIPLimit(patch.WIPLimit); err != nil {
				return err
			}
			column.WIPLimit = patch.WIPLimit
		}
		if patch.Color != nil {
			if err := validateColor(*patch.Color); err != nil {
				return err
			}
			column.Color = *patch.Color
		}
		return s.columns.Update(ctx, column)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes the column and cascades over its cards.
func (e *Engine) DeleteColumn(ctx context.Context, ownerID, columnID uuid.UUID) error {
	var paths []string
	err := e.inTx(ctx, func(s *store) error {
		column, err := s.columns.LockOwnedByID(ctx, columnID, ownerID)
		if err != nil {
			return err
		}
		cardIDs, err := s.cards.IDsByColumns(ctx, []uuid.UUID{column.ID})
		if err != nil {
			return err
		}
		if paths, err = deleteCards(ctx, s, cardIDs); err != nil {
			return err
		}
		return s.columns.Delete(ctx, column.ID)
	})
	if err != nil {
		return err
	}
	e.removeFiles(paths)
	return nil
}

// ReorderColumns writes new positions for a board's columns. Ids belonging to
// other boards are ignored.
func (e *Engine) ReorderColumns(ctx context.Context, ownerID, boardID uuid.UUID, orders []ColumnOrder) ([]model.Column, error) {
	var columns []model.Column
	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.boards.GetOwnedByID(ctx, boardID, ownerID); err != nil {
			return err
		}
		updates := make([]model.Column, len(orders))
		for i, o := range orders {
			updates[i] = model.Column{ID: o.ID, Position: o.Position}
		}
		if err := s.columns.ReorderColumns(ctx, boardID, updates); err != nil {
			return err
		}
		var err error
		columns, err = s.columns.GetByBoardID(ctx, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}
