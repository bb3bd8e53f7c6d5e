package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// Upload is what the file store reports back for a saved attachment.
type Upload struct {
	Filename   string
	Size       int64
	StoredPath string
}

func (e *Engine) AddComment(ctx context.Context, userID, cardID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "content is required")
	}
	comment := model.Comment{CardID: cardID, AuthorID: userID, Content: content}
	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.cards.GetOwnedByID(ctx, cardID, userID); err != nil {
			return err
		}
		return s.comments.Create(ctx, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (e *Engine) Comments(ctx context.Context, userID, cardID uuid.UUID) ([]model.Comment, error) {
	s := e.read()
	if _, err := s.cards.GetOwnedByID(ctx, cardID, userID); err != nil {
		return nil, err
	}
	return s.comments.ListByCard(ctx, cardID, 0)
}

// EditComment replaces the content. Only the author may edit, and every edit
// marks the comment as edited.
func (e *Engine) EditComment(ctx context.Context, userID, commentID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "content is required")
	}
	var comment *model.Comment
	err := e.inTx(ctx, func(s *store) error {
		var err error
		comment, err = s.comments.GetOwnedByID(ctx, commentID, userID)
		if err != nil {
			return err
		}
		if comment.AuthorID != userID {
			return ErrNotAuthor
		}
		comment.Content = content
		comment.IsEdited = true
		return s.comments.Update(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (e *Engine) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	return e.inTx(ctx, func(s *store) error {
		comment, err := s.comments.GetOwnedByID(ctx, commentID, userID)
		if err != nil {
			return err
		}
		if comment.AuthorID != userID {
			return ErrNotAuthor
		}
		return s.comments.Delete(ctx, comment.ID)
	})
}

// AddAttachment records metadata for a file already written to the file store.
func (e *Engine) AddAttachment(ctx context.Context, userID, cardID uuid.UUID, upload Upload) (*model.Attachment, error) {
	if strings.TrimSpace(upload.Filename) == "" {
		return nil, invalid("file", "filename is required")
	}
	if upload.Size < 0 {
		return nil, invalid("file", "file size must not be negative")
	}
	attachment := model.Attachment{
		CardID:     cardID,
		Filename:   upload.Filename,
		FileSize:   upload.Size,
		StoredPath: upload.StoredPath,
		UploadedBy: userID,
	}
	err := e.inTx(ctx, func(s *store) error {
		if _, err := s.cards.GetOwnedByID(ctx, cardID, userID); err != nil {
			return err
		}
		if err := s.attachments.Create(ctx, &attachment); err != nil {
			return fmt.Errorf("create attachment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (e *Engine) Attachments(ctx context.Context, userID, cardID uuid.UUID) ([]model.Attachment, error) {
	s := e.read()
	if _, err := s.cards.GetOwnedByID(ctx, cardID, userID); err != nil {
		return nil, err
	}
	return s.attachments.ListByCard(ctx, cardID)
}

// DeleteAttachment drops the record and then the stored file.
func (e *Engine) DeleteAttachment(ctx context.Context, userID, attachmentID uuid.UUID) error {
	var path string
	err := e.inTx(ctx, func(s *store) error {
		attachment, err := s.attachments.GetOwnedByID(ctx, attachmentID, userID)
		if err != nil {
			return err
		}
		path = attachment.StoredPath
		return s.attachments.Delete(ctx, attachment.ID)
	})
	if err != nil {
		return err
	}
	e.removeFiles([]string{path})
	return nil
}
