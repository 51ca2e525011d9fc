package service

import (
	"context"
	"time"

	"github.com/segyhp/portfolio-reporting/internal/config"
	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/internal/repository"
	customError "github.com/segyhp/portfolio-reporting/pkg/errors"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FallbackMessage accompanies the demo payload served when the data store is down.
const FallbackMessage = "Unable to connect to the database. Returning demo data."

type registration struct {
	kind   Kind
	source repository.FactSource
}

// ReportService runs the report pipeline: fetch facts, classify, filter and
// summarize. It keeps no state between requests.
type ReportService struct {
	kinds  map[string]registration
	config *config.Config
	now    func() time.Time
}

// NewReportService wires the loan portfolio and generic report kinds to their
// fact sources. A nil reports source leaves only the loan kind available.
func NewReportService(
	loans repository.FactSource,
	reports repository.FactSource,
	config *config.Config,
) *ReportService {
	kinds := map[string]registration{
		KindLoans: {kind: NewLoanPortfolioKind(config.Report.DueSoonDays), source: loans},
	}
	if reports != nil {
		kinds[KindReports] = registration{kind: NewReportSetKind(config.Report.DueSoonDays), source: reports}
	}

	return &ReportService{
		kinds:  kinds,
		config: config,
		now:    time.Now,
	}
}

// WithClock replaces the time source, which fixes "today" in tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Kinds lists the registered report kind names.
func (s *ReportService) Kinds() []string {
	names := make([]string, 0, len(s.kinds))
	for _, name := range []string{KindLoans, KindReports} {
		if _, ok := s.kinds[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// resolve returns the registration for name, defaulting to the loan kind.
func (s *ReportService) resolve(name string) registration {
	if r, ok := s.kinds[name]; ok {
		return r
	}
	return s.kinds[DefaultKind]
}

func (s *ReportService) today(now time.Time) utils.Date {
	return utils.DateOf(now.In(s.config.ReportLocation()))
}

// GetReports answers one report request. Any fact source failure, including
// cancellation of ctx, yields an error wrapping ErrDataStoreUnavailable; the
// caller then serves Fallback. There are no retries.
func (s *ReportService) GetReports(ctx context.Context, query domain.ReportQuery) (*domain.ReportResponse, error) {
	reg := s.resolve(query.Kind)
	filter := NormalizeFilter(query, reg.kind.Taxonomy())

	now := s.now()
	today := s.today(now)

	rows, universe, upcoming, err := s.load(ctx, reg, filter.Search, today)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", reg.kind.Name()).Str("search", filter.Search).Msg("Fact source unavailable")
		return nil, customError.WrapDataStoreUnavailable(err)
	}

	filtered := ApplyFilter(rows, filter, today)
	totalCount := len(filtered)
	if limit := s.config.Report.MaxRows; limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return &domain.ReportResponse{
		Rows:        filtered,
		TotalCount:  totalCount,
		LastUpdated: now,
		Summary:     reg.kind.Summarize(universe, upcoming),
	}, nil
}

// load fetches and classifies the facts matching search, the unfiltered
// universe the summary is computed over, and the upcoming schedule count. The
// reads are independent and run concurrently; the first failure cancels the rest.
func (s *ReportService) load(ctx context.Context, reg registration, search string, today utils.Date) (rows, universe []domain.ClassifiedRow, upcoming int, err error) {
	if timeout := s.config.Report.RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var facts, allFacts []domain.LedgerFact

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facts, err = reg.source.FetchFacts(gctx, search, today)
		return err
	})
	if search != "" {
		g.Go(func() error {
			var err error
			allFacts, err = reg.source.FetchFacts(gctx, "", today)
			return err
		})
	}
	g.Go(func() error {
		var err error
		upcoming, err = reg.source.CountUpcoming(gctx, today, s.config.Report.UpcomingWindowDays)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	rows = classifyAll(reg.kind, facts, today)
	if search == "" {
		return rows, rows, upcoming, nil
	}
	return rows, classifyAll(reg.kind, allFacts, today), upcoming, nil
}

func classifyAll(kind Kind, facts []domain.LedgerFact, today utils.Date) []domain.ClassifiedRow {
	rows := make([]domain.ClassifiedRow, 0, len(facts))
	for _, fact := range facts {
		rows = append(rows, kind.Classify(fact, today))
	}
	return rows
}

// demoUpcomingPayments is the upcoming schedule count reported with demo data.
const demoUpcomingPayments = 1

// Fallback builds the degraded payload for a failed request: the kind's demo
// rows and their summary. The failure message is included only in debug mode.
func (s *ReportService) Fallback(kindName string, cause error) *domain.FallbackResponse {
	reg := s.resolve(kindName)
	rows := reg.kind.DemoRows()

	response := &domain.FallbackResponse{
		Message: FallbackMessage,
		ReportResponse: domain.ReportResponse{
			Rows:        rows,
			TotalCount:  len(rows),
			LastUpdated: s.now(),
			Summary:     reg.kind.Summarize(rows, demoUpcomingPayments),
		},
	}

	if s.config.App.Debug && cause != nil {
		message := customError.Cause(cause)
		response.Error = &message
	}

	return response
}

// BuildDigest computes the current summary of a kind over its whole portfolio,
// with a per-status breakdown.
func (s *ReportService) BuildDigest(ctx context.Context, kindName string) (*domain.Digest, error) {
	reg := s.resolve(kindName)

	now := s.now()
	today := s.today(now)

	_, universe, upcoming, err := s.load(ctx, reg, "", today)
	if err != nil {
		return nil, customError.WrapDataStoreUnavailable(err)
	}

	return &domain.Digest{
		Kind:        reg.kind.Name(),
		GeneratedAt: now,
		AsOf:        today,
		Summary:     reg.kind.Summarize(universe, upcoming),
		Breakdown:   Breakdown(universe, reg.kind.Taxonomy()),
	}, nil
}
