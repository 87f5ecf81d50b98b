package mocks

import (
	"context"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockSessionService) Verify(ctx context.Context, token string) (model.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, sess model.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}
