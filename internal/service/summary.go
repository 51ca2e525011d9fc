package service

import (
	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/shopspring/decimal"
)

// Summarize computes the portfolio metrics over rows. upcomingPayments is
// passed through: it counts schedule entries, not accounts, and is taken from
// the fact source.
func Summarize(rows []domain.ClassifiedRow, upcomingPayments int) domain.SummaryMetrics {
	borrowers := make(map[int64]struct{}, len(rows))
	balance := decimal.Zero
	onTrack := 0

	for _, row := range rows {
		borrowers[row.BorrowerID] = struct{}{}
		balance = balance.Add(row.OutstandingBalance)
		if row.Outcome.OnTrack() {
			onTrack++
		}
	}

	return domain.SummaryMetrics{
		TotalBorrowers:    len(borrowers),
		PortfolioBalance:  balance,
		UpcomingPayments:  upcomingPayments,
		OnTrackPercentage: utils.Percentage(onTrack, len(rows)),
	}
}

// Breakdown counts rows per status tag. Every tag of the taxonomy is present.
func Breakdown(rows []domain.ClassifiedRow, taxonomy Taxonomy) map[string]int {
	counts := make(map[string]int, len(taxonomy))
	for _, tag := range taxonomy.Tags() {
		counts[tag] = 0
	}
	for _, row := range rows {
		counts[row.Status]++
	}
	return counts
}
