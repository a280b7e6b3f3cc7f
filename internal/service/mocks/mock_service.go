package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/skypass/booking-orchestrator/internal/service"
)

// MockService is a testify mock of service.BookingService.
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateSession(ctx context.Context) (*service.SessionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) GetSession(ctx context.Context, id uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) Refresh(ctx context.Context, id uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) Search(ctx context.Context, id uuid.UUID, origin, destination, date string) (*service.SessionView, error) {
	args := m.Called(ctx, id, origin, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) SelectFlight(ctx context.Context, id uuid.UUID, flightID int64) (*service.SessionView, error) {
	args := m.Called(ctx, id, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) SetSeatCount(ctx context.Context, id uuid.UUID, count int) (*service.SessionView, error) {
	args := m.Called(ctx, id, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) Book(ctx context.Context, id uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) ConfirmPayment(ctx context.Context, id uuid.UUID, success bool) (*service.SessionView, error) {
	args := m.Called(ctx, id, success)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockService) TicketURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
