package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agriverify/internal/domain"
)

// MockFarmerRepo is a mock implementation of port.FarmerRepository.
type MockFarmerRepo struct {
	mock.Mock
}

func (m *MockFarmerRepo) Create(ctx context.Context, farmer *domain.Farmer) error {
	args := m.Called(ctx, farmer)
	return args.Error(0)
}

func (m *MockFarmerRepo) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farmer), args.Error(1)
}

func (m *MockFarmerRepo) List(ctx context.Context, offset, limit int) ([]domain.Farmer, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Farmer), args.Int(1), args.Error(2)
}

func (m *MockFarmerRepo) ListAll(ctx context.Context) ([]domain.Farmer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Farmer), args.Error(1)
}

func (m *MockFarmerRepo) Update(ctx context.Context, farmer *domain.Farmer) error {
	args := m.Called(ctx, farmer)
	return args.Error(0)
}

func (m *MockFarmerRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
