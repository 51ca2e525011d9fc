package repository

import (
	"context"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"
)

// FactSource provides the denormalized per-account facts a report is built from.
// Implementations must be safe for concurrent use.
type FactSource interface {
	// FetchFacts returns one fact per active account as of today. A non-empty
	// search term keeps accounts whose name, account number, phone numbers or
	// email contain it, case-insensitively. Rows with a next due date come
	// first in ascending date order, undated rows last; ties sort by name.
	FetchFacts(ctx context.Context, search string, today utils.Date) ([]domain.LedgerFact, error)

	// CountUpcoming counts active schedule entries dated within
	// [today, today+windowDays], both ends inclusive.
	CountUpcoming(ctx context.Context, today utils.Date, windowDays int) (int, error)
}

// DigestStore keeps the latest summary snapshot per report kind.
type DigestStore interface {
	// Save replaces the snapshot for digest.Kind.
	Save(ctx context.Context, digest *domain.Digest) error

	// Latest returns the current snapshot, or an error wrapping
	// errors.ErrDigestNotFound when none exists.
	Latest(ctx context.Context, kind string) (*domain.Digest, error)
}
