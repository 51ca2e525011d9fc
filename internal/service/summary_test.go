package service

import (
	"testing"

	"github.com/segyhp/portfolio-reporting/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, 0)

	assert.Equal(t, 0, summary.TotalBorrowers)
	assert.True(t, summary.PortfolioBalance.IsZero())
	assert.Equal(t, 0, summary.UpcomingPayments)
	assert.Equal(t, 0, summary.OnTrackPercentage)
}

func TestSummarize_DistinctBorrowers(t *testing.T) {
	first := ledgerFact("1000", "0", dueIn(20))
	second := ledgerFact("2000", "500", dueIn(-2))
	second.ID = "2"
	other := ledgerFact("300", "100", nil)
	other.ID = "3"
	other.BorrowerID = 9

	summary := Summarize([]domain.ClassifiedRow{classified(first), classified(second), classified(other)}, 4)

	assert.Equal(t, 2, summary.TotalBorrowers)
	assert.True(t, summary.PortfolioBalance.Equal(decimal.NewFromInt(2700)), summary.PortfolioBalance.String())
	assert.Equal(t, 4, summary.UpcomingPayments)
	assert.Equal(t, 67, summary.OnTrackPercentage)
}

func TestSummarize_CompletedRowDoesNotMoveBalance(t *testing.T) {
	rows := []domain.ClassifiedRow{classified(ledgerFact("1000", "250.50", dueIn(3)))}
	before := Summarize(rows, 0)

	completed := ledgerFact("800", "800", nil)
	completed.BorrowerID = 2
	after := Summarize(append(rows, classified(completed)), 0)

	assert.True(t, before.PortfolioBalance.Equal(after.PortfolioBalance))
	assert.Equal(t, "749.5", after.PortfolioBalance.String())
}

func TestSummarize_OnTrackCountsCurrentAndCompleted(t *testing.T) {
	rows := []domain.ClassifiedRow{
		classified(ledgerFact("1000", "0", dueIn(20))),
		classified(ledgerFact("1000", "1000", nil)),
		classified(ledgerFact("1000", "0", dueIn(2))),
		classified(ledgerFact("1000", "0", dueIn(-2))),
	}

	assert.Equal(t, 50, Summarize(rows, 0).OnTrackPercentage)
}

func TestBreakdown(t *testing.T) {
	rows := []domain.ClassifiedRow{
		classified(ledgerFact("1000", "0", dueIn(-1))),
		classified(ledgerFact("1000", "0", dueIn(-9))),
		classified(ledgerFact("1000", "1000", nil)),
	}

	assert.Equal(t, map[string]int{
		"current":   0,
		"due_soon":  0,
		"overdue":   2,
		"completed": 1,
	}, Breakdown(rows, LoanTaxonomy))

	assert.Equal(t, map[string]int{
		"open":        0,
		"in_progress": 0,
		"blocked":     0,
		"resolved":    0,
	}, Breakdown(nil, ReportTaxonomy))
}
