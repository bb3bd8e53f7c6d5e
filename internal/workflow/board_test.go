package workflow_test

import (
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoard_Template(t *testing.T) {
	f := setup(t)
	board := f.board("  Roadmap ")

	assert.Equal(t, "Roadmap", board.Name)
	assert.Equal(t, model.BoardTypePersonal, board.BoardType)
	assert.True(t, board.IsActive)
	assert.Equal(t, model.DefaultColumnNames, board.DefaultColumns)

	columns, err := f.engine.Columns(f.ctx, f.owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 5)
	for i, c := range columns {
		assert.Equal(t, model.DefaultColumnNames[i], c.Name)
		assert.Equal(t, i, c.Position)
		if c.Name == "In Progress" {
			require.NotNil(t, c.WIPLimit)
			assert.Equal(t, 3, *c.WIPLimit)
		} else {
			assert.Nil(t, c.WIPLimit, c.Name)
		}
	}
}

func TestCreateBoard_CustomColumns(t *testing.T) {
	f := setup(t)
	board := f.board("Custom", "Ideas", "In Progress", "Shipped")

	require.Len(t, board.Columns, 3)
	// Presets only style the template; a custom "In Progress" has no limit.
	assert.Nil(t, f.column(board, "In Progress").WIPLimit)
	assert.Equal(t, model.DefaultColumnColor, f.column(board, "Ideas").Color)
}

func TestApplyBoardDefaults_Validation(t *testing.T) {
	tests := []struct {
		name  string
		board model.Board
		field string
	}{
		{"blank name", model.Board{Name: "  "}, "name"},
		{"unknown type", model.Board{Name: "x", BoardType: "team"}, "board_type"},
		{"blank column", model.Board{Name: "x", DefaultColumns: []string{"a", " "}}, "default_columns"},
		{"duplicate column", model.Board{Name: "x", DefaultColumns: []string{"a", " a"}}, "default_columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := workflow.ApplyBoardDefaults(&tt.board)

			var verr *workflow.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBoards_ScopedToOwner(t *testing.T) {
	f := setup(t)
	board := f.board("Mine")
	stranger := f.user("stranger")

	boards, err := f.engine.Boards(f.ctx, stranger.ID, repository.BoardFilter{})
	require.NoError(t, err)
	assert.Empty(t, boards)

	_, err = f.engine.BoardDetail(f.ctx, stranger.ID, board.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	_, err = f.engine.UpdateBoard(f.ctx, stranger.ID, board.ID, workflow.BoardPatch{Name: ptr("taken")})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestUpdateBoard(t *testing.T) {
	f := setup(t)
	board := f.board("Work")

	updated, err := f.engine.UpdateBoard(f.ctx, f.owner.ID, board.ID, workflow.BoardPatch{
		Name:      ptr("Renamed"),
		BoardType: ptr(model.BoardTypeSprint),
		IsActive:  ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.BoardTypeSprint, updated.BoardType)
	assert.False(t, updated.IsActive)

	_, err = f.engine.UpdateBoard(f.ctx, f.owner.ID, board.ID, workflow.BoardPatch{BoardType: ptr(model.BoardType("team"))})
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestDuplicateBoard(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	f.card(f.column(board, "To Do"), "not copied")

	copied, err := f.engine.DuplicateBoard(f.ctx, f.owner.ID, board.ID)
	require.NoError(t, err)

	assert.NotEqual(t, board.ID, copied.ID)
	assert.Equal(t, "Work (Copy)", copied.Name)
	assert.True(t, copied.IsActive)
	require.Len(t, copied.Columns, 5)
	inProgress := f.column(copied, "In Progress")
	require.NotNil(t, inProgress.WIPLimit)
	assert.Equal(t, 3, *inProgress.WIPLimit)

	cards, err := f.engine.Cards(f.ctx, f.owner.ID, repository.CardFilter{BoardID: copied.ID})
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestBoardStatistics(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	todo := f.column(board, "To Do")

	started := f.card(todo, "started")
	_, err := f.engine.StartCard(f.ctx, f.owner.ID, started.ID)
	require.NoError(t, err)

	done := f.card(todo, "done")
	_, err = f.engine.CompleteCard(f.ctx, f.owner.ID, done.ID)
	require.NoError(t, err)

	_, err = f.engine.CreateCard(f.ctx, f.owner.ID, workflow.CardInput{
		ColumnID:       todo.ID,
		Title:          "late",
		Priority:       model.PriorityUrgent,
		EstimatedHours: ptr(4.0),
		ActualHours:    2,
		DueDate:        ptr(now.Add(time.Hour)),
	})
	require.NoError(t, err)

	// Two days later the due date has passed.
	later := workflow.New(f.db, workflow.WithClock(func() time.Time { return now.Add(48 * time.Hour) }))
	stats, err := later.BoardStatistics(f.ctx, f.owner.ID, board.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, 1, stats.CompletedCards)
	assert.Equal(t, 1, stats.InProgressCards)
	assert.Equal(t, 1, stats.OverdueCards)
	assert.Equal(t, 6.0, stats.TotalEstimatedHours)
	assert.Equal(t, 2.0, stats.TotalActualHours)
	assert.Equal(t, 1, stats.CardsByPriority[model.PriorityUrgent])
	assert.Equal(t, 2, stats.CardsByPriority[model.PriorityMedium])
	assert.Equal(t, 0, stats.CardsByPriority[model.PriorityLow])
	assert.Equal(t, 3, stats.CardsByStatus[model.StatusNormal])
	assert.Contains(t, stats.CardsByStatus, model.StatusBlocked)
}

func TestComputeBoardStats_Empty(t *testing.T) {
	stats := workflow.ComputeBoardStats(nil, now)

	assert.Zero(t, stats.TotalCards)
	assert.Len(t, stats.CardsByPriority, len(model.Priorities))
	assert.Len(t, stats.CardsByStatus, len(model.CardStatuses))
}

func TestDeleteBoard_Cascades(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	card := f.card(f.column(board, "To Do"), "x")
	f.sprint(board, "A", card.ID)
	_, err := f.engine.AddComment(f.ctx, f.owner.ID, card.ID, "note")
	require.NoError(t, err)
	_, err = f.engine.AddAttachment(f.ctx, f.owner.ID, card.ID, workflow.Upload{Filename: "spec.pdf", Size: 12, StoredPath: "ab/spec.pdf"})
	require.NoError(t, err)

	require.NoError(t, f.engine.DeleteBoard(f.ctx, f.owner.ID, board.ID))

	_, err = f.engine.BoardDetail(f.ctx, f.owner.ID, board.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
	for _, table := range []any{&model.Column{}, &model.Card{}, &model.Sprint{}, &model.SprintCard{}, &model.Comment{}, &model.Attachment{}} {
		var n int64
		require.NoError(t, f.db.Model(table).Count(&n).Error)
		assert.Zero(t, n, "%T", table)
	}
	assert.Equal(t, []string{"ab/spec.pdf"}, f.files.removed)
}

func TestColumns_CreateUpdateDelete(t *testing.T) {
	f := setup(t)
	board := f.board("Work")

	column, err := f.engine.CreateColumn(f.ctx, f.owner.ID, workflow.ColumnInput{BoardID: board.ID, Name: "QA", WIPLimit: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 5, column.Position)
	assert.Equal(t, model.DefaultColumnColor, column.Color)

	_, err = f.engine.CreateColumn(f.ctx, f.owner.ID, workflow.ColumnInput{BoardID: board.ID, Name: "QA"})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = f.engine.UpdateColumn(f.ctx, f.owner.ID, column.ID, workflow.ColumnPatch{Color: ptr("orange")})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	f.card(column, "only one")
	_, err = f.engine.CreateCard(f.ctx, f.owner.ID, workflow.CardInput{ColumnID: column.ID, Title: "second"})
	assert.ErrorIs(t, err, workflow.ErrCapacityExceeded)

	updated, err := f.engine.UpdateColumn(f.ctx, f.owner.ID, column.ID, workflow.ColumnPatch{ClearWIPLimit: true})
	require.NoError(t, err)
	assert.Nil(t, updated.WIPLimit)
	f.card(column, "second")

	require.NoError(t, f.engine.DeleteColumn(f.ctx, f.owner.ID, column.ID))
	_, err = f.engine.Column(f.ctx, f.owner.ID, column.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
	assert.Zero(t, f.countIn(column))
}

func TestUpdateColumn_LoweringLimitBelowCount(t *testing.T) {
	f := setup(t)
	inProgress := f.column(f.board("Work"), "In Progress")
	f.card(inProgress, "a")
	f.card(inProgress, "b")

	updated, err := f.engine.UpdateColumn(f.ctx, f.owner.ID, inProgress.ID, workflow.ColumnPatch{WIPLimit: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, *updated.WIPLimit)
	assert.EqualValues(t, 2, f.countIn(inProgress))

	_, err = f.engine.CreateCard(f.ctx, f.owner.ID, workflow.CardInput{ColumnID: inProgress.ID, Title: "c"})
	assert.ErrorIs(t, err, workflow.ErrCapacityExceeded)
}

func TestReorderColumns(t *testing.T) {
	f := setup(t)
	board := f.board("Work", "A", "B", "C")
	other := f.board("Other", "X")

	columns, err := f.engine.ReorderColumns(f.ctx, f.owner.ID, board.ID, []workflow.ColumnOrder{
		{ID: f.column(board, "A").ID, Position: 2},
		{ID: f.column(board, "C").ID, Position: 0},
		{ID: f.column(other, "X").ID, Position: 9},
	})
	require.NoError(t, err)

	var names []string
	for _, c := range columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"C", "B", "A"}, names)

	untouched, err := f.engine.Column(f.ctx, f.owner.ID, f.column(other, "X").ID)
	require.NoError(t, err)
	assert.Equal(t, 0, untouched.Position)
}
