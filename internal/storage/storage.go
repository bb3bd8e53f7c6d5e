package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStore persists attachment bytes. Only the returned path and size are
// recorded in the database.
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (path string, size int64, err error)
	Remove(path string) error
}

// LocalStore writes files below a root directory, bucketed by year/month.
type LocalStore struct {
	root string
	now  func() time.Time
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, now: time.Now}
}

func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	now := s.now()
	rel := filepath.Join("attachments", now.Format("2006"), now.Format("01"),
		uuid.NewString()+filepath.Ext(filepath.Base(filename)))
	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, fmt.Errorf("create attachment dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", 0, fmt.Errorf("create attachment file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", 0, fmt.Errorf("write attachment file: %w", err)
	}
	return rel, size, nil
}

func (s *LocalStore) Remove(path string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Clean("/"+path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
