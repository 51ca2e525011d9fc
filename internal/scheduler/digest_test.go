package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/internal/mocks"
	customError "github.com/segyhp/portfolio-reporting/pkg/errors"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDigestJob_Run(t *testing.T) {
	loans := &domain.Digest{Kind: "loans"}
	reports := &domain.Digest{Kind: "reports"}

	svc := mocks.NewMockReportService()
	svc.On("Kinds").Return([]string{"loans", "reports"})
	svc.On("BuildDigest", mock.Anything, "loans").Return(loans, nil)
	svc.On("BuildDigest", mock.Anything, "reports").Return(reports, nil)

	store := new(mocks.MockDigestStore)
	store.On("Save", mock.Anything, loans).Return(nil)
	store.On("Save", mock.Anything, reports).Return(nil)

	err := NewDigestJob(svc, store, time.Second).Run(context.Background())

	require.NoError(t, err)
	svc.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestDigestJob_Run_ContinuesAfterFailure(t *testing.T) {
	reports := &domain.Digest{Kind: "reports"}

	svc := mocks.NewMockReportService()
	svc.On("Kinds").Return([]string{"loans", "reports"})
	svc.On("BuildDigest", mock.Anything, "loans").Return(nil, customError.WrapDataStoreUnavailable(errors.New("connection refused")))
	svc.On("BuildDigest", mock.Anything, "reports").Return(reports, nil)

	store := new(mocks.MockDigestStore)
	store.On("Save", mock.Anything, reports).Return(nil)

	err := NewDigestJob(svc, store, 0).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrDataStoreUnavailable))
	assert.Contains(t, err.Error(), "loans")
	store.AssertNumberOfCalls(t, "Save", 1)
}

func TestDigestJob_Run_StoreFailure(t *testing.T) {
	loans := &domain.Digest{Kind: "loans"}

	svc := mocks.NewMockReportService()
	svc.On("Kinds").Return([]string{"loans"})
	svc.On("BuildDigest", mock.Anything, "loans").Return(loans, nil)

	store := new(mocks.MockDigestStore)
	store.On("Save", mock.Anything, loans).Return(customError.WrapCacheError(errors.New("READONLY")))

	err := NewDigestJob(svc, store, time.Second).Run(context.Background())

	assert.True(t, errors.Is(err, customError.ErrCacheUnavailable))
}

func TestDigestJob_Run_AppliesTimeout(t *testing.T) {
	svc := mocks.NewMockReportService()
	svc.On("Kinds").Return([]string{"loans"})
	svc.On("BuildDigest", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "loans").Return(&domain.Digest{Kind: "loans"}, nil)

	store := new(mocks.MockDigestStore)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, NewDigestJob(svc, store, time.Minute).Run(context.Background()))
	svc.AssertExpectations(t)
}

func TestRegister(t *testing.T) {
	c := cron.New(cron.WithSeconds())
	job := NewDigestJob(mocks.NewMockReportService(), new(mocks.MockDigestStore), time.Second)

	id, err := Register(c, "0 0 * * * *", job)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = Register(c, "every hour", job)
	assert.Error(t, err)
}
