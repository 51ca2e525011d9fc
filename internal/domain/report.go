package domain

import (
	"strings"
	"time"

	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/shopspring/decimal"
)

// Amounts are JSON numbers wherever a domain value is encoded: API responses
// and the digests the scheduler stores.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the canonical payment outcome of an account. Report kinds render it
// through their own taxonomy (tag and label).
type Status string

const (
	StatusCurrent   Status = "current"
	StatusDueSoon   Status = "due_soon"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// Statuses lists the canonical outcomes in display order.
var Statuses = []Status{StatusCurrent, StatusDueSoon, StatusOverdue, StatusCompleted}

// OnTrack reports whether the outcome counts towards the on-track percentage.
func (s Status) OnTrack() bool {
	return s == StatusCurrent || s == StatusCompleted
}

// StatusAll disables the status filter.
const StatusAll = "all"

// Period is the symbolic width of the symmetric due-date window around today.
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"

	DefaultPeriod = Period30Days
)

// ParsePeriod maps a query token to a Period; unknown tokens fall back to 30d.
func ParsePeriod(token string) Period {
	switch Period(strings.TrimSpace(token)) {
	case Period7Days:
		return Period7Days
	case Period90Days:
		return Period90Days
	default:
		return DefaultPeriod
	}
}

// Days returns the half-width of the window in days.
func (p Period) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period90Days:
		return 90
	default:
		return 30
	}
}

// ReportQuery carries the raw query tokens of a report request. Unknown kind,
// status and period tokens are normalized, never rejected.
type ReportQuery struct {
	Kind   string
	Search string
	Status string
	Period string
}

// FilterRequest is the normalized set of caller filters.
type FilterRequest struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Period Period `json:"period"`
}

// Contact holds the normalized contact channels of an account holder.
type Contact struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// ClassifiedRow is a LedgerFact with its derived status.
type ClassifiedRow struct {
	ID                 string              `json:"id"`
	BorrowerID         int64               `json:"borrowerId"`
	BorrowerName       string              `json:"borrowerName"`
	AccountNumber      string              `json:"accountNumber"`
	LoanAmount         decimal.Decimal     `json:"loanAmount"`
	DisbursedAmount    decimal.Decimal     `json:"disbursedAmount"`
	TotalRepaid        decimal.Decimal     `json:"totalRepaid"`
	OutstandingBalance decimal.Decimal     `json:"outstandingBalance"`
	NextPaymentDue     *utils.Date         `json:"nextPaymentDue"`
	LastPaymentDate    *utils.Date         `json:"lastPaymentDate"`
	LastPaymentAmount  decimal.NullDecimal `json:"lastPaymentAmount"`
	Status             string              `json:"status"`
	StatusLabel        string              `json:"statusLabel"`
	DelinquencyDays    int                 `json:"delinquencyDays"`
	Contact            Contact             `json:"contact"`

	// Outcome is the canonical status behind the taxonomy tag.
	Outcome Status `json:"-"`
}

// SummaryMetrics are portfolio-wide figures computed over the unfiltered set.
type SummaryMetrics struct {
	TotalBorrowers    int             `json:"totalBorrowers"`
	PortfolioBalance  decimal.Decimal `json:"portfolioBalance"`
	UpcomingPayments  int             `json:"upcomingPayments"`
	OnTrackPercentage int             `json:"onTrackPercentage"`
}

// ReportResponse is the payload of GET /api/reports.
type ReportResponse struct {
	Rows        []ClassifiedRow `json:"rows"`
	TotalCount  int             `json:"totalCount"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Summary     SummaryMetrics  `json:"summary"`
}

// FallbackResponse is served when the data store is unavailable. Error is
// always encoded and stays null unless debug output is enabled.
type FallbackResponse struct {
	Message string `json:"message"`
	ReportResponse
	Error *string `json:"error"`
}

// Digest is the periodic snapshot of a report kind's summary.
type Digest struct {
	Kind        string         `json:"kind"`
	GeneratedAt time.Time      `json:"generatedAt"`
	AsOf        utils.Date     `json:"asOf"`
	Summary     SummaryMetrics `json:"summary"`
	Breakdown   map[string]int `json:"breakdown"`
}
