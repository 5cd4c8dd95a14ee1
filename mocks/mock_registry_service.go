package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agriverify/internal/match"
)

// MockRegistryService is a mock implementation of service.RegistryService.
type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) Snapshot() *match.Snapshot {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*match.Snapshot)
}

func (m *MockRegistryService) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
