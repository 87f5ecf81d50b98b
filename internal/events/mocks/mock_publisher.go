package mocks

import (
	"context"

	"awdtrack/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev model.DocumentEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
