package mocks

import (
	"context"

	"github.com/segyhp/portfolio-reporting/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) GetReports(ctx context.Context, query domain.ReportQuery) (*domain.ReportResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportResponse), args.Error(1)
}

func (m *MockReportService) Fallback(kind string, cause error) *domain.FallbackResponse {
	args := m.Called(kind, cause)
	return args.Get(0).(*domain.FallbackResponse)
}

func (m *MockReportService) BuildDigest(ctx context.Context, kind string) (*domain.Digest, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Digest), args.Error(1)
}

func (m *MockReportService) Kinds() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// NewMockReportService creates a new mock report service instance
func NewMockReportService() *MockReportService {
	return &MockReportService{}
}
