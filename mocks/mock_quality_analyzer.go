package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agriverify/internal/port"
)

// MockQualityAnalyzer is a mock implementation of port.QualityAnalyzer.
type MockQualityAnalyzer struct {
	mock.Mock
}

func (m *MockQualityAnalyzer) Analyze(ctx context.Context, image []byte) (*port.QualityMetrics, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.QualityMetrics), args.Error(1)
}
