package mocks

import (
	"context"
	"io"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, sess model.Session, f service.DashboardFilter) (*service.Dashboard, error) {
	args := m.Called(ctx, sess, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

// MockReportService writes the string in the first return value when one is set.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Mandays(ctx context.Context, sess model.Session, f service.DashboardFilter, w io.Writer) error {
	args := m.Called(ctx, sess, f)
	return writeBody(w, args)
}

func (m *MockReportService) Documents(ctx context.Context, sess model.Session, q service.ListQuery, w io.Writer) error {
	args := m.Called(ctx, sess, q)
	return writeBody(w, args)
}

func writeBody(w io.Writer, args mock.Arguments) error {
	if body, ok := args.Get(0).(string); ok {
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
	}
	return args.Error(1)
}
