package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/repository"
)

// FileRemover deletes stored attachment files after the rows referencing them
// are gone.
type FileRemover interface {
	Remove(path string) error
}

// Engine applies the board, card and sprint rules. Every mutating call runs in
// a single database transaction.
type Engine struct {
	db    *gorm.DB
	log   *zap.Logger
	now   func() time.Time
	files FileRemover
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithFileRemover(files FileRemover) Option {
	return func(e *Engine) { e.files = files }
}

func New(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{
		db:  db,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type store struct {
	users       *repository.UserRepository
	boards      *repository.BoardRepository
	columns     *repository.ColumnRepository
	cards       *repository.CardRepository
	sprints     *repository.SprintRepository
	comments    *repository.CommentRepository
	attachments *repository.AttachmentRepository
}

func newStore(db *gorm.DB) *store {
	return &store{
		users:       repository.NewUserRepository(db),
		boards:      repository.NewBoardRepository(db),
		columns:     repository.NewColumnRepository(db),
		cards:       repository.NewCardRepository(db),
		sprints:     repository.NewSprintRepository(db),
		comments:    repository.NewCommentRepository(db),
		attachments: repository.NewAttachmentRepository(db),
	}
}

func (e *Engine) read() *store {
	return newStore(e.db)
}

func (e *Engine) inTx(ctx context.Context, fn func(s *store) error) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx))
	})
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

// removeFiles runs after commit; a failure leaves an orphaned file, not bad data.
func (e *Engine) removeFiles(paths []string) {
	if e.files == nil {
		return
	}
	for _, p := range paths {
		if err := e.files.Remove(p); err != nil {
			e.log.Warn("failed to remove attachment file", zap.String("path", p), zap.Error(err))
		}
	}
}
