package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// DocumentService attaches safety data sheets and supporting files to
// workflows. The binary goes to the storage driver, the metadata row to the
// database.
type DocumentService struct {
	db     *gorm.DB
	driver StorageDriver
}

func NewDocumentService(db *gorm.DB, driver StorageDriver) *DocumentService {
	return &DocumentService{db: db, driver: driver}
}

// Attach saves the incoming file and records it against the workflow.
func (s *DocumentService) Attach(ctx context.Context, workflowID uuid.UUID, filename string, reader io.Reader, size int64, mime, uploadedBy string) (*model.Document, error) {
	var workflow model.Workflow
	if err := s.db.WithContext(ctx).First(&workflow, "id = ?", workflowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "workflow", ID: workflowID}
		}
		return nil, fmt.Errorf("failed to retrieve workflow: %w", err)
	}

	if mime == "" {
		mime = "application/octet-stream"
	}
	key := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(filename))

	if err := s.driver.Save(ctx, key, reader, mime); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	document := &model.Document{
		WorkflowID: workflowID,
		Name:       filename,
		Key:        key,
		URL:        url,
		Size:       size,
		MimeType:   mime,
		UploadedBy: uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(document).Error; err != nil {
		if delErr := s.driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	slog.InfoContext(ctx, "document attached", "workflowID", workflowID, "key", key)
	return document, nil
}

// Open streams a stored document back along with its MIME type.
func (s *DocumentService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.driver.Get(ctx, key)
}

// ListByWorkflowID returns the metadata of all documents attached to a
// workflow.
func (s *DocumentService) ListByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	result := s.db.WithContext(ctx).Where("workflow_id = ?", workflowID).Order("created_at asc").Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %w", result.Error)
	}
	return docs, nil
}
