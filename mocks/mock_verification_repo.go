package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agriverify/internal/domain"
)

// MockVerificationRepo is a mock implementation of port.VerificationRepository.
type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) Create(ctx context.Context, doc *domain.VerificationDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockVerificationRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.VerificationDocument, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationDocument), args.Error(1)
}

func (m *MockVerificationRepo) List(ctx context.Context, offset, limit int) ([]domain.VerificationDocument, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationDocument), args.Int(1), args.Error(2)
}

func (m *MockVerificationRepo) ListByFarmer(ctx context.Context, farmerID string, offset, limit int) ([]domain.VerificationDocument, int, error) {
	args := m.Called(ctx, farmerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationDocument), args.Int(1), args.Error(2)
}

func (m *MockVerificationRepo) UpdateResult(ctx context.Context, doc *domain.VerificationDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockVerificationRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
