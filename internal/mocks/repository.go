package mocks

import (
	"context"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type MockFactSource struct {
	mock.Mock
}

func (m *MockFactSource) FetchFacts(ctx context.Context, search string, today utils.Date) ([]domain.LedgerFact, error) {
	args := m.Called(ctx, search, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerFact), args.Error(1)
}

func (m *MockFactSource) CountUpcoming(ctx context.Context, today utils.Date, windowDays int) (int, error) {
	args := m.Called(ctx, today, windowDays)
	return args.Int(0), args.Error(1)
}

type MockDigestStore struct {
	mock.Mock
}

func (m *MockDigestStore) Save(ctx context.Context, digest *domain.Digest) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}

func (m *MockDigestStore) Latest(ctx context.Context, kind string) (*domain.Digest, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Digest), args.Error(1)
}
