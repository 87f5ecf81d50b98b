package mocks

import (
	"context"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, sess model.Session, in service.CreateDocumentInput) (*service.DocumentView, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, sess model.Session, id string) (*service.DocumentView, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, sess model.Session, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, sess, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) ApplyAction(ctx context.Context, sess model.Session, id string, in service.ActionInput) (*service.DocumentView, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockDocumentService) ReturnClosed(ctx context.Context, sess model.Session, ids []string, target model.Role, remarks string) (*service.BulkResult, error) {
	args := m.Called(ctx, sess, ids, target, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkResult), args.Error(1)
}

func (m *MockDocumentService) Purge(ctx context.Context, sess model.Session, references []string) (*service.BulkResult, error) {
	args := m.Called(ctx, sess, references)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkResult), args.Error(1)
}

func (m *MockDocumentService) History(ctx context.Context, sess model.Session, id string) ([]model.TrackingEntry, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrackingEntry), args.Error(1)
}

func (m *MockDocumentService) NextReference(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) AddAttachment(ctx context.Context, sess model.Session, documentID string, up service.Upload) (*model.Attachment, error) {
	args := m.Called(ctx, sess, documentID, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockDocumentService) ListAttachments(ctx context.Context, sess model.Session, documentID string) ([]service.AttachmentView, error) {
	args := m.Called(ctx, sess, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AttachmentView), args.Error(1)
}

func (m *MockDocumentService) OpenAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) (*service.OpenedAttachment, error) {
	args := m.Called(ctx, sess, documentID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenedAttachment), args.Error(1)
}

func (m *MockDocumentService) DeleteAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) error {
	args := m.Called(ctx, sess, documentID, attachmentID)
	return args.Error(0)
}
