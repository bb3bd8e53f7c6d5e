package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type stagePreset struct {
	color    string
	wipLimit *int
}

func intPtr(v int) *int { return &v }

// stagePresets styles the standard template columns.
var stagePresets = map[string]stagePreset{
	"Backlog":     {color: "#9CA3AF"},
	"To Do":       {color: "#3B82F6"},
	"In Progress": {color: "#F59E0B", wipLimit: intPtr(3)},
	"Review":      {color: "#8B5CF6"},
	"Done":        {color: "#10B981"},
}

// ApplyBoardDefaults is the board initialization step: it fills in board type,
// active flag and column template, and returns the columns to create with it.
// An empty column list is replaced by the five-stage template.
func ApplyBoardDefaults(board *model.Board) ([]model.Column, error) {
	board.Name = strings.TrimSpace(board.Name)
	if board.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if board.BoardType == "" {
		board.BoardType = model.BoardTypePersonal
	}
	if !board.BoardType.Valid() {
		return nil, invalid("board_type", fmt.Sprintf("unknown board type %q", board.BoardType))
	}

	useTemplate := len(board.DefaultColumns) == 0
	if useTemplate {
		board.DefaultColumns = append([]string(nil), model.DefaultColumnNames...)
	}

	seen := make(map[string]struct{}, len(board.DefaultColumns))
	columns := make([]model.Column, 0, len(board.DefaultColumns))
	for i, raw := range board.DefaultColumns {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, invalid("default_columns", "column names must not be empty")
		}
		if _, dup := seen[name]; dup {
			return nil, invalid("default_columns", fmt.Sprintf("duplicate column name %q", name))
		}
		seen[name] = struct{}{}
		board.DefaultColumns[i] = name

		column := model.Column{Name: name, Position: i, Color: model.DefaultColumnColor}
		if preset, ok := stagePresets[name]; ok && useTemplate {
			column.Color = preset.color
			column.WIPLimit = preset.wipLimit
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// CreateBoard stores a board owned by ownerID together with its initial columns.
func (e *Engine) CreateBoard(ctx context.Context, ownerID uuid.UUID, board *model.Board) error {
	board.OwnerID = ownerID
	board.IsActive = true
	columns, err := ApplyBoardDefaults(board)
	if err != nil {
		return err
	}

	return e.inTx(ctx, func(s *store) error {
		if err := s.boards.Create(ctx, board); err != nil {
			return fmt.Errorf("create board: %w", err)
		}
		for i := range columns {
			columns[i].BoardID = board.ID
			if err := s.columns.Create(ctx, &columns[i]); err != nil {
				return fmt.Errorf("create column %q: %w", columns[i].Name, err)
			}
		}
		board.Columns = columns
		return nil
	})
}

func (e *Engine) Boards(ctx context.Context, ownerID uuid.UUID, filter repository.BoardFilter) ([]model.Board, error) {
	return e.read().boards.GetOwned(ctx, ownerID, filter)
}

// BoardDetail returns the board with its columns and their cards.
func (e *Engine) BoardDetail(ctx context.Context, ownerID, boardID uuid.UUID) (*model.Board, error) {
	return e.read().boards.GetWithColumnsAndCards(ctx, boardID, ownerID)
}

// BoardPatch carries the editable board fields; nil means unchanged.
type BoardPatch struct {
	Name           *string
	Description    *string
	BoardType      *model.BoardType
	IsActive       *bool
	DefaultColumns []string
}

func (e *Engine) UpdateBoard(ctx context.Context, ownerID, boardID uuid.UUID, patch BoardPatch) (*model.Board, error) {
	var board *model.Board
	err := e.inTx(ctx, func(s *store) error {
		var err error
		board, err = s.boards.GetOwnedByID(ctx, boardID, ownerID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return invalid("name", "name is required")
			}
			board.Name = name
		}
		if patch.Description != nil {
			board.Description = *patch.Description
		}
		if patch.BoardType != nil {
			if !patch.BoardType.Valid() {
				return invalid("board_type", fmt.Sprintf("unknown board type %q", *patch.BoardType))
			}
			board.BoardType = *patch.BoardType
		}
		if patch.IsActive != nil {
			board.IsActive = *patch.IsActive
		}
		if patch.DefaultColumns != nil {
			board.DefaultColumns = patch.DefaultColumns
		}
		return s.boards.Update(ctx, board)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// DeleteBoard removes the board and everything hanging off it.
func (e *Engine) DeleteBoard(ctx context.Context, ownerID, boardID uuid.UUID) error {
	var paths []string
	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.boards.GetOwnedByID(ctx, boardID, ownerID); err != nil {
			return err
		}
		columns, err := s.columns.GetByBoardID(ctx, boardID)
		if err != nil {
			return err
		}
		columnIDs := make([]uuid.UUID, len(columns))
		for i, c := range columns {
			columnIDs[i] = c.ID
		}
		cardIDs, err := s.cards.IDsByColumns(ctx, columnIDs)
		if err != nil {
			return err
		}
		if paths, err = deleteCards(ctx, s, cardIDs); err != nil {
			return err
		}
		if err := s.sprints.DeleteByBoardID(ctx, boardID); err != nil {
			return err
		}
		if err := s.columns.DeleteByBoardID(ctx, boardID); err != nil {
			return err
		}
		return s.boards.Delete(ctx, boardID)
	})
	if err != nil {
		return err
	}
	e.removeFiles(paths)
	return nil
}

// deleteCards cascades over comments, attachments and sprint links and
// returns the stored attachment paths for cleanup after commit.
func deleteCards(ctx context.Context, s *store, cardIDs []uuid.UUID) ([]string, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	paths, err := s.attachments.PathsByCardIDs(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	if err := s.attachments.DeleteByCardIDs(ctx, cardIDs); err != nil {
		return nil, err
	}
	if err := s.comments.DeleteByCardIDs(ctx, cardIDs); err != nil {
		return nil, err
	}
	if err := s.sprints.UnlinkCards(ctx, cardIDs); err != nil {
		return nil, err
	}
	if err := s.cards.DeleteByIDs(ctx, cardIDs); err != nil {
		return nil, err
	}
	return paths, nil
}

// DuplicateBoard copies a board and its columns, without cards.
func (e *Engine) DuplicateBoard(ctx context.Context, ownerID, boardID uuid.UUID) (*model.Board, error) {
	var copied model.Board
	err := e.inTx(ctx, func(s *store) error {
		board, err := s.boards.GetOwnedByID(ctx, boardID, ownerID)
		if err != nil {
			return err
		}
		columns, err := s.columns.GetByBoardID(ctx, boardID)
		if err != nil {
			return err
		}

		copied = model.Board{
			OwnerID:        ownerID,
			Name:           board.Name + " (Copy)",
			Description:    board.Description,
			BoardType:      board.BoardType,
			IsActive:       true,
			DefaultColumns: append([]string(nil), board.DefaultColumns...),
		}
		if err := s.boards.Create(ctx, &copied); err != nil {
			return fmt.Errorf("create board copy: %w", err)
		}
		for _, c := range columns {
			column := model.Column{
				BoardID:  copied.ID,
				Name:     c.Name,
				Position: c.Position,
				WIPLimit: c.WIPLimit,
				Color:    c.Color,
			}
			if err := s.columns.Create(ctx, &column); err != nil {
				return fmt.Errorf("copy column %q: %w", c.Name, err)
			}
			copied.Columns = append(copied.Columns, column)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("board duplicated", zap.Stringer("source", boardID), zap.Stringer("copy", copied.ID))
	return &copied, nil
}

type BoardStats struct {
	TotalCards          int
	CompletedCards      int
	InProgressCards     int
	OverdueCards        int
	TotalEstimatedHours float64
	TotalActualHours    float64
	CardsByPriority     map[model.Priority]int
	CardsByStatus       map[model.CardStatus]int
}

// ComputeBoardStats aggregates a board's cards as of now.
func ComputeBoardStats(cards []model.Card, now time.Time) BoardStats {
	stats := BoardStats{
		CardsByPriority: make(map[model.Priority]int, len(model.Priorities)),
		CardsByStatus:   make(map[model.CardStatus]int, len(model.CardStatuses)),
	}
	for _, p := range model.Priorities {
		stats.CardsByPriority[p] = 0
	}
	for _, st := range model.CardStatuses {
		stats.CardsByStatus[st] = 0
	}

	for _, c := range cards {
		stats.TotalCards++
		switch {
		case c.CompletedAt != nil:
			stats.CompletedCards++
		case c.StartedAt != nil:
			stats.InProgressCards++
		}
		if c.IsOverdue(now) {
			stats.OverdueCards++
		}
		stats.TotalEstimatedHours += c.EstimatedHours
		stats.TotalActualHours += c.ActualHours
		stats.CardsByPriority[c.Priority]++
		stats.CardsByStatus[c.Status]++
	}
	return stats
}

func (e *Engine) BoardStatistics(ctx context.Context, ownerID, boardID uuid.UUID) (*BoardStats, error) {
	s := e.read()
	if _, err := s.boards.GetOwnedByID(ctx, boardID, ownerID); err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	stats := ComputeBoardStats(cards, e.clock())
	return &stats, nil
}
