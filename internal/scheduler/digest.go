package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DigestBuilder computes a summary snapshot for one report kind.
type DigestBuilder interface {
	BuildDigest(ctx context.Context, kind string) (*domain.Digest, error)
	Kinds() []string
}

type DigestJob struct {
	builder DigestBuilder
	store   repository.DigestStore
	timeout time.Duration
}

func NewDigestJob(builder DigestBuilder, store repository.DigestStore, timeout time.Duration) *DigestJob {
	return &DigestJob{
		builder: builder,
		store:   store,
		timeout: timeout,
	}
}

// Run refreshes the digest of every registered kind. A failing kind does not
// stop the others; all failures are returned joined.
func (j *DigestJob) Run(ctx context.Context) error {
	var errs []error

	for _, kind := range j.builder.Kinds() {
		if err := j.refresh(ctx, kind); err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("Digest refresh failed")
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		log.Info().Str("kind", kind).Msg("Digest stored")
	}

	return errors.Join(errs...)
}

func (j *DigestJob) refresh(ctx context.Context, kind string) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	digest, err := j.builder.BuildDigest(ctx, kind)
	if err != nil {
		return err
	}

	return j.store.Save(ctx, digest)
}

// Register schedules the job on c at the given cron expression.
func Register(c *cron.Cron, expr string, job *DigestJob) (cron.EntryID, error) {
	return c.AddFunc(expr, func() {
		log.Info().Msg("Running digest refresh job...")
		_ = job.Run(context.Background())
	})
}
