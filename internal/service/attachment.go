package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"awdtrack/internal/model"
	"awdtrack/internal/routing"
	"awdtrack/internal/storage"
)

// Upload is a file received for a document.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	// Size is the exact byte count, or -1 when unknown.
	Size int64
}

// OpenedAttachment is a streaming attachment body. Close releases it.
type OpenedAttachment struct {
	io.ReadCloser
	Attachment model.Attachment
	Size       int64
}

// AddAttachment uploads the content to object storage, saves metadata to DB,
// and rolls back storage if the DB save fails.
func (s *documentService) AddAttachment(ctx context.Context, sess model.Session, documentID string, up Upload) (*model.Attachment, error) {
	if up.Reader == nil {
		return nil, ErrReaderNil
	}
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := routing.Authorize(sess, *doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	name := path.Base(strings.ReplaceAll(up.Filename, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}
	id := uuid.New().String()
	key := storage.AttachmentKey(doc.ID, id, name)

	info, err := s.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: up.ContentType,
		Metadata: map[string]string{
			"original-filename": name,
			"awd-reference":     doc.AWDReferenceNumber,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = up.ContentType
	}
	stored, err := s.atts.Create(ctx, &model.Attachment{
		ID:          id,
		DocumentID:  doc.ID,
		Filename:    name,
		StoragePath: info.Key,
		Size:        info.Size,
		ContentType: contentType,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// ListAttachments returns attachment metadata with presigned download URLs.
// A URL that cannot be signed is left empty.
func (s *documentService) ListAttachments(ctx context.Context, sess model.Session, documentID string) ([]AttachmentView, error) {
	if _, err := s.findVisible(ctx, sess, documentID); err != nil {
		return nil, err
	}
	atts, err := s.atts.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	views := make([]AttachmentView, 0, len(atts))
	for _, a := range atts {
		v := AttachmentView{Attachment: a}
		url, err := s.store.PresignGet(ctx, a.StoragePath, s.urlExpiry)
		if err != nil {
			logFor(ctx, &s.log).Warn().Err(err).Str("key", a.StoragePath).Msg("presign_failed")
		} else {
			v.URL = url
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *documentService) OpenAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) (*OpenedAttachment, error) {
	if _, err := s.findVisible(ctx, sess, documentID); err != nil {
		return nil, err
	}
	att, err := s.findAttachment(ctx, documentID, attachmentID)
	if err != nil {
		return nil, err
	}
	rc, info, err := s.store.Get(ctx, att.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	size := info.Size
	if size <= 0 {
		size = att.Size
	}
	return &OpenedAttachment{ReadCloser: rc, Attachment: *att, Size: size}, nil
}

// DeleteAttachment removes the object first, then its record, so a failed
// storage delete keeps the reference.
func (s *documentService) DeleteAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) error {
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return err
	}
	if err := routing.Authorize(sess, *doc); err != nil {
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	att, err := s.findAttachment(ctx, documentID, attachmentID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, att.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.atts.Delete(ctx, att.ID)
}

func (s *documentService) findAttachment(ctx context.Context, documentID, attachmentID string) (*model.Attachment, error) {
	if documentID == "" || attachmentID == "" {
		return nil, ErrIDRequired
	}
	att, err := s.atts.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if att.DocumentID != documentID {
		return nil, ErrNotFound
	}
	return att, nil
}
