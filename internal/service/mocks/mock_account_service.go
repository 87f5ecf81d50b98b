package mocks

import (
	"context"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Create(ctx context.Context, sess model.Session, in service.AccountInput) (*model.Account, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, sess model.Session, id string) (*model.Account, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context, sess model.Session, limit, offset int) (*service.AccountListResult, error) {
	args := m.Called(ctx, sess, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountListResult), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, sess model.Session, id string, in service.AccountInput) (*model.Account, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) Delete(ctx context.Context, sess model.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}
