package handler

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/storage"
	"taskboard/internal/workflow"
)

// maxAttachmentSize caps a single uploaded file.
const maxAttachmentSize = 10 << 20

type AttachmentService interface {
	AddAttachment(ctx context.Context, userID, cardID uuid.UUID, upload workflow.Upload) (*model.Attachment, error)
	Attachments(ctx context.Context, userID, cardID uuid.UUID) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, userID, attachmentID uuid.UUID) error
}

type AttachmentHandler struct {
	attachments AttachmentService
	files       storage.FileStore
	log         *zap.Logger
}

func NewAttachmentHandler(attachments AttachmentService, files storage.FileStore, log *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, files: files, log: log}
}

// Upload godoc
// @Summary      Attach a file to a card
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "Card ID"
// @Param        file formData file   true "File"
// @Success      201 {object} AttachmentResponse
// @Failure      400 {object} map[string]string
// @Router       /cards/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if header.Size > maxAttachmentSize {
		badRequest(c, "file is too large")
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer src.Close()

	ctx := c.Request.Context()
	path, size, err := h.files.Save(ctx, header.Filename, src)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	attachment, err := h.attachments.AddAttachment(ctx, userID, cardID, workflow.Upload{
		Filename:   filepath.Base(header.Filename),
		Size:       size,
		StoredPath: path,
	})
	if err != nil {
		if rerr := h.files.Remove(path); rerr != nil {
			h.log.Warn("failed to remove orphaned upload", zap.String("path", path), zap.Error(rerr))
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newAttachmentResponse(attachment))
}

func (h *AttachmentHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachments.Attachments(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newAttachmentResponses(attachments))
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.attachments.DeleteAttachment(c.Request.Context(), userID, attachmentID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
