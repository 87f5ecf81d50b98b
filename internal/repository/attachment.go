package repository

import (
	"context"

	"awdtrack/internal/model"
)

// AttachmentRepository stores metadata of files kept in object storage.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, id string) (*model.Attachment, error)
	ListByDocument(ctx context.Context, documentID string) ([]model.Attachment, error)
	Delete(ctx context.Context, id string) error
}
