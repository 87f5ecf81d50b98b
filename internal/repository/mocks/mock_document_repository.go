package mocks

import (
	"context"

	"awdtrack/internal/model"
	"awdtrack/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

// Create records the call without the allocator (functions are not
// comparable). When the first return value is a string it is passed through
// alloc as the existing codes and the allocator's result is stored on doc.
func (m *MockDocumentRepository) Create(ctx context.Context, year int, alloc repository.ReferenceAllocator, doc *model.Document, entry *model.TrackingEntry) (*model.Document, error) {
	args := m.Called(ctx, year, doc, entry)
	if existing, ok := args.Get(0).([]string); ok {
		ref, err := alloc(existing)
		if err != nil {
			return nil, err
		}
		doc.AWDReferenceNumber = ref
		entry.AWDReferenceNumber = ref
		entry.Snapshot.AWDReferenceNumber = ref
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return doc, nil
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, f repository.ListFilter) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) ApplyTransition(ctx context.Context, t repository.Transition) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockDocumentRepository) History(ctx context.Context, documentID string) ([]model.TrackingEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrackingEntry), args.Error(1)
}

func (m *MockDocumentRepository) ReferencesForYear(ctx context.Context, year int) ([]string, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentRepository) Purge(ctx context.Context, reference string) ([]string, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
