package service

import (
	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"
)

// DefaultDueSoonDays is how far ahead a due date still counts as due soon.
const DefaultDueSoonDays = 7

// Classify derives the canonical outcome of an account as of today, together
// with the number of days it is past due. Rules apply in order:
//
//  1. disbursed and repaid to within the completion tolerance: completed
//  2. due date passed: overdue by the number of days since the due date
//  3. due date within dueSoonDays (inclusive): due soon
//  4. anything else, including accounts without a due date: current
//
// The delinquency days are zero for every outcome but overdue.
func Classify(fact domain.LedgerFact, today utils.Date, dueSoonDays int) (domain.Status, int) {
	if fact.TotalDisbursed.IsPositive() && fact.Outstanding().LessThanOrEqual(utils.CompletionTolerance) {
		return domain.StatusCompleted, 0
	}

	if fact.NextDueDate == nil {
		return domain.StatusCurrent, 0
	}

	diff := utils.SignedDayDifference(today, *fact.NextDueDate)
	switch {
	case diff < 0:
		return domain.StatusOverdue, -diff
	case diff <= dueSoonDays:
		return domain.StatusDueSoon, 0
	default:
		return domain.StatusCurrent, 0
	}
}
