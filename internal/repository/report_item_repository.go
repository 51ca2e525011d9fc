package repository

import (
	"context"
	"strings"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// reportItemRepository reads the generic report set. Its columns are projected
// onto the ledger fact shape: the owner stands in for the borrower, the title
// for the account holder name, the reference for the account number, and
// budget, allocated and consumed for loan amount, disbursed and repaid.
// Milestones play the role of the payment schedule.
type reportItemRepository struct {
	db           *sqlx.DB
	lookbackDays int
}

// NewReportItemRepository returns the generic report set fact source.
func NewReportItemRepository(db *sqlx.DB, lookbackDays int) FactSource {
	return &reportItemRepository{db: db, lookbackDays: lookbackDays}
}

const reportItemFactsQuery = `
	SELECT
		i.id,
		i.owner_id AS borrower_id,
		i.title AS borrower_name,
		i.reference AS account_number,
		i.owner_phone AS hand_phone,
		NULL AS sms_phone,
		i.owner_email AS email,
		i.budget AS loan_amount,
		i.allocated AS total_disbursed,
		i.consumed AS total_repaid,
		next_due.next_due_date,
		i.last_activity_date AS last_payment_date,
		i.last_activity_amount AS last_payment_amount
	FROM report_items i
	LEFT JOIN (
		SELECT report_id, MIN(date) AS next_due_date
		FROM report_milestones
		WHERE deleted = FALSE AND skip = FALSE AND date >= ?
		GROUP BY report_id
	) next_due ON next_due.report_id = i.id
	WHERE i.deleted = FALSE`

const reportItemFactsOrder = `
	ORDER BY
		CASE WHEN next_due.next_due_date IS NULL THEN 1 ELSE 0 END,
		next_due.next_due_date,
		i.title,
		i.id`

func (r *reportItemRepository) FetchFacts(ctx context.Context, search string, today utils.Date) ([]domain.LedgerFact, error) {
	query := reportItemFactsQuery
	args := []any{today.AddDays(-r.lookbackDays).String()}

	if search = strings.TrimSpace(search); search != "" {
		clause, searchArgs := searchClause(search, "i.title", "i.reference", "i.owner_name", "i.owner_phone", "i.owner_email")
		query += clause
		args = append(args, searchArgs...)
	}

	return selectFacts(ctx, r.db, query+reportItemFactsOrder, args...)
}

func (r *reportItemRepository) CountUpcoming(ctx context.Context, today utils.Date, windowDays int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM report_milestones
		WHERE deleted = FALSE AND skip = FALSE AND date BETWEEN ? AND ?
	`

	return countRows(ctx, r.db, query, today.String(), today.AddDays(windowDays).String())
}
