package workflow_test

import (
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (f *fixture) sprint(board *model.Board, name string, cardIDs ...uuid.UUID) *model.Sprint {
	f.t.Helper()
	sprint, err := f.engine.CreateSprint(f.ctx, f.owner.ID, workflow.SprintInput{
		BoardID:   board.ID,
		Name:      name,
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
		CardIDs:   cardIDs,
	})
	require.NoError(f.t, err)
	return sprint
}

func (f *fixture) activeSprints(board *model.Board) []string {
	f.t.Helper()
	sprints, err := f.engine.Sprints(f.ctx, f.owner.ID, board.ID)
	require.NoError(f.t, err)
	var names []string
	for _, s := range sprints {
		if s.IsActive {
			names = append(names, s.Name)
		}
	}
	return names
}

func TestCreateSprint_Validation(t *testing.T) {
	f := setup(t)
	board := f.board("Work")

	tests := []struct {
		name  string
		in    workflow.SprintInput
		field string
	}{
		{"no name", workflow.SprintInput{StartDate: now, EndDate: now.Add(time.Hour)}, "name"},
		{"end equals start", workflow.SprintInput{Name: "s", StartDate: now, EndDate: now}, "end_date"},
		{"end before start", workflow.SprintInput{Name: "s", StartDate: now, EndDate: now.Add(-time.Hour)}, "end_date"},
		{"negative hours", workflow.SprintInput{Name: "s", StartDate: now, EndDate: now.Add(time.Hour), PlannedHours: -1}, "planned_hours"},
		{"hours too large", workflow.SprintInput{Name: "s", StartDate: now, EndDate: now.Add(time.Hour), PlannedHours: 10000}, "planned_hours"},
		{"hours with three decimals", workflow.SprintInput{Name: "s", StartDate: now, EndDate: now.Add(time.Hour), PlannedHours: 0.005}, "planned_hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.BoardID = board.ID
			_, err := f.engine.CreateSprint(f.ctx, f.owner.ID, tt.in)

			var verr *workflow.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateSprint_Defaults(t *testing.T) {
	f := setup(t)
	sprint := f.sprint(f.board("Work"), "Sprint 1")

	assert.False(t, sprint.IsActive)
	assert.False(t, sprint.IsCompleted)
	assert.Equal(t, 14, sprint.DurationDays())
}

func TestCreateSprint_CardsMustBeOnBoard(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	other := f.board("Other")
	stray := f.card(f.column(other, "To Do"), "stray")

	_, err := f.engine.CreateSprint(f.ctx, f.owner.ID, workflow.SprintInput{
		BoardID:   board.ID,
		Name:      "Sprint 1",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
		CardIDs:   []uuid.UUID{stray.ID},
	})

	var verr *workflow.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "card_ids", verr.Field)

	sprints, err := f.engine.Sprints(f.ctx, f.owner.ID, board.ID)
	require.NoError(t, err)
	assert.Empty(t, sprints)
}

func TestCreateSprint_ForeignBoard(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	stranger := f.user("stranger")

	_, err := f.engine.CreateSprint(f.ctx, stranger.ID, workflow.SprintInput{
		BoardID:   board.ID,
		Name:      "mine now",
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestActivateSprint_SwitchesActiveSprint(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	a, b := f.sprint(board, "A"), f.sprint(board, "B")

	_, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, f.activeSprints(board))

	activated, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Equal(t, []string{"B"}, f.activeSprints(board))

	_, err = f.engine.ActivateSprint(f.ctx, f.owner.ID, b.ID)
	assert.ErrorIs(t, err, workflow.ErrAlreadyActive)
	assert.Equal(t, []string{"B"}, f.activeSprints(board))
}

func TestActivateSprint_RepairsSeveralActive(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	a, b, c := f.sprint(board, "A"), f.sprint(board, "B"), f.sprint(board, "C")
	require.NoError(t, f.db.Model(&model.Sprint{}).
		Where("id IN ?", []uuid.UUID{a.ID, b.ID}).
		Update("is_active", true).Error)

	_, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, f.activeSprints(board))
}

func TestActivateSprint_OtherBoardsUntouched(t *testing.T) {
	f := setup(t)
	work, home := f.board("Work"), f.board("Home")
	a, b := f.sprint(work, "A"), f.sprint(home, "B")

	_, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)
	_, err = f.engine.ActivateSprint(f.ctx, f.owner.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, f.activeSprints(work))
	assert.Equal(t, []string{"B"}, f.activeSprints(home))
}

func TestCompleteSprint(t *testing.T) {
	f := setup(t)
	sprint := f.sprint(f.board("Work"), "A")
	_, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)

	completed, err := f.engine.CompleteSprint(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)
	assert.False(t, completed.IsActive)
	assert.True(t, completed.IsCompleted)

	again, err := f.engine.CompleteSprint(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)
	assert.True(t, again.IsCompleted)

	_, err = f.engine.ActivateSprint(f.ctx, f.owner.ID, sprint.ID)
	var verr *workflow.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is_completed", verr.Field)
}

func TestSprintReport(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	todo := f.column(board, "To Do")
	cards := []*model.Card{f.card(todo, "a"), f.card(todo, "b"), f.card(todo, "c"), f.card(todo, "d")}
	sprint := f.sprint(board, "A", cards[0].ID, cards[1].ID, cards[2].ID, cards[3].ID)

	_, err := f.engine.CompleteCard(f.ctx, f.owner.ID, cards[0].ID)
	require.NoError(t, err)
	_, err = f.engine.StartCard(f.ctx, f.owner.ID, cards[1].ID)
	require.NoError(t, err)
	_, err = f.engine.UpdateSprint(f.ctx, f.owner.ID, sprint.ID, workflow.SprintPatch{
		PlannedStoryPoints:   ptr(20),
		CompletedStoryPoints: ptr(5),
	})
	require.NoError(t, err)

	report, err := f.engine.SprintReport(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, report.Cards.Total)
	assert.EqualValues(t, 1, report.Cards.Completed)
	assert.EqualValues(t, 1, report.Cards.InProgress)
	assert.Equal(t, 25.0, report.CompletionRate)
	assert.Equal(t, 25.0, report.Velocity)
	assert.Equal(t, 14, report.DurationDays)

	linked, err := f.engine.SprintCards(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 4)
}

func TestUpdateSprint(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	todo := f.column(board, "To Do")
	a, b := f.card(todo, "a"), f.card(todo, "b")
	sprint := f.sprint(board, "A", a.ID)

	updated, err := f.engine.UpdateSprint(f.ctx, f.owner.ID, sprint.ID, workflow.SprintPatch{
		Name:    ptr("Renamed"),
		CardIDs: []uuid.UUID{b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)

	linked, err := f.engine.SprintCards(f.ctx, f.owner.ID, sprint.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, b.ID, linked[0].ID)

	_, err = f.engine.UpdateSprint(f.ctx, f.owner.ID, sprint.ID, workflow.SprintPatch{EndDate: ptr(now.Add(-time.Hour))})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = f.engine.UpdateSprint(f.ctx, f.owner.ID, sprint.ID, workflow.SprintPatch{ActualHours: ptr(12000.0)})
	var verr *workflow.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "actual_hours", verr.Field)
}

func TestUpdateSprint_KeepsActivationMadeMeanwhile(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	a, b := f.sprint(board, "A"), f.sprint(board, "B")
	_, err := f.engine.ActivateSprint(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)

	// B is activated between reading A and writing it back.
	switched := false
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:activate_b", func(tx *gorm.DB) {
		if switched || tx.Statement.Table != "sprints" {
			return
		}
		switched = true
		raw := tx.Session(&gorm.Session{NewDB: true})
		require.NoError(t, raw.Exec("UPDATE sprints SET is_active = ? WHERE id = ?", false, a.ID).Error)
		require.NoError(t, raw.Exec("UPDATE sprints SET is_active = ? WHERE id = ?", true, b.ID).Error)
	}))

	_, err = f.engine.UpdateSprint(f.ctx, f.owner.ID, a.ID, workflow.SprintPatch{Goal: ptr("ship it")})
	require.NoError(t, err)

	assert.True(t, switched)
	assert.Equal(t, []string{"B"}, f.activeSprints(board))
	reloaded, err := f.engine.Sprint(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ship it", reloaded.Goal)
	assert.False(t, reloaded.IsCompleted)
}

func TestDeleteSprint(t *testing.T) {
	f := setup(t)
	board := f.board("Work")
	card := f.card(f.column(board, "To Do"), "a")
	sprint := f.sprint(board, "A", card.ID)

	require.NoError(t, f.engine.DeleteSprint(f.ctx, f.owner.ID, sprint.ID))

	_, err := f.engine.Sprint(f.ctx, f.owner.ID, sprint.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
	var links int64
	require.NoError(t, f.db.Model(&model.SprintCard{}).Where("sprint_id = ?", sprint.ID).Count(&links).Error)
	assert.Zero(t, links)
	// The card itself survives.
	f.reload(card)
}
