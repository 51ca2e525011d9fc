package service

import (
	"strings"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"
)

// NormalizeFilter turns raw query tokens into a FilterRequest for a kind with
// the given taxonomy. Status tags outside the taxonomy become "all", unknown
// periods become 30d.
func NormalizeFilter(query domain.ReportQuery, taxonomy Taxonomy) domain.FilterRequest {
	status := strings.TrimSpace(query.Status)
	if _, ok := taxonomy.Outcome(status); !ok {
		status = domain.StatusAll
	}

	return domain.FilterRequest{
		Search: strings.TrimSpace(query.Search),
		Status: status,
		Period: domain.ParsePeriod(query.Period),
	}
}

// Matches reports whether row passes both the status and the period test.
// Rows without a due date always pass the period test. The period window is
// symmetric: a due date up to N days ago or N days ahead is in scope.
func Matches(row domain.ClassifiedRow, filter domain.FilterRequest, today utils.Date) bool {
	if filter.Status != domain.StatusAll && filter.Status != row.Status {
		return false
	}

	if row.NextPaymentDue == nil {
		return true
	}

	days := filter.Period.Days()
	diff := utils.SignedDayDifference(today, *row.NextPaymentDue)

	return diff >= -days && diff <= days
}

// ApplyFilter keeps the rows that match filter, preserving their order.
func ApplyFilter(rows []domain.ClassifiedRow, filter domain.FilterRequest, today utils.Date) []domain.ClassifiedRow {
	filtered := make([]domain.ClassifiedRow, 0, len(rows))
	for _, row := range rows {
		if Matches(row, filter, today) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
