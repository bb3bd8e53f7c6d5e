package workflow_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/workflow"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	engine *workflow.Engine
	files  *recordingRemover
	owner  *model.User
}

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return nil
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	files := &recordingRemover{}
	f := &fixture{
		t:   t,
		ctx: context.Background(),
		db:  db,
		engine: workflow.New(db,
			workflow.WithClock(func() time.Time { return now }),
			workflow.WithFileRemover(files),
		),
		files: files,
	}
	f.owner = f.user("owner")
	return f
}

func (f *fixture) user(name string) *model.User {
	f.t.Helper()
	user := &model.User{
		Email:          name + "-" + uuid.NewString() + "@example.com",
		Name:           name,
		HashedPassword: "x",
		PenaltyPerMiss: model.DefaultPenaltyPerMiss,
	}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

// board creates a board for the fixture owner; no column names means the default template.
func (f *fixture) board(name string, columns ...string) *model.Board {
	f.t.Helper()
	board := &model.Board{Name: name, DefaultColumns: columns}
	require.NoError(f.t, f.engine.CreateBoard(f.ctx, f.owner.ID, board))
	return board
}

func (f *fixture) column(board *model.Board, name string) *model.Column {
	f.t.Helper()
	for i := range board.Columns {
		if board.Columns[i].Name == name {
			return &board.Columns[i]
		}
	}
	f.t.Fatalf("board %q has no column %q", board.Name, name)
	return nil
}

func (f *fixture) card(column *model.Column, title string) *model.Card {
	f.t.Helper()
	card, err := f.engine.CreateCard(f.ctx, f.owner.ID, workflow.CardInput{ColumnID: column.ID, Title: title})
	require.NoError(f.t, err)
	return card
}

func (f *fixture) reload(card *model.Card) *model.Card {
	f.t.Helper()
	fresh, err := f.engine.Card(f.ctx, f.owner.ID, card.ID)
	require.NoError(f.t, err)
	return fresh
}

func (f *fixture) countIn(column *model.Column) int64 {
	f.t.Helper()
	n, err := f.engine.ColumnCardCount(f.ctx, column.ID)
	require.NoError(f.t, err)
	return n
}

func ptr[T any](v T) *T { return &v }
