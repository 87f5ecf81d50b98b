package mocks

import (
	"context"

	"awdtrack/internal/model"
	"awdtrack/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) StatusCounts(ctx context.Context, s repository.Scope) ([]repository.StatusCount, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockDashboardRepository) OpenDocuments(ctx context.Context, s repository.Scope) ([]model.Document, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDashboardRepository) Mandays(ctx context.Context, s repository.Scope) ([]model.MandayRecord, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MandayRecord), args.Error(1)
}

func (m *MockDashboardRepository) ReturnCount(ctx context.Context, kind model.ReturnKind, s repository.Scope) (int, error) {
	args := m.Called(ctx, kind, s)
	return args.Int(0), args.Error(1)
}
