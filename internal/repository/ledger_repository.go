package repository

import (
	"context"
	"strings"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// ledgerRepository reads loan accounts: principal from applications, money
// movements from disbursements and repayments, due dates from payment_schedule.
type ledgerRepository struct {
	db           *sqlx.DB
	lookbackDays int
}

// NewLedgerRepository returns the loan portfolio fact source. Schedule entries
// older than lookbackDays are ignored when picking the next due date.
func NewLedgerRepository(db *sqlx.DB, lookbackDays int) FactSource {
	return &ledgerRepository{db: db, lookbackDays: lookbackDays}
}

const ledgerFactsQuery = `
	SELECT
		a.id,
		a.borrower_id,
		b.name AS borrower_name,
		b.hand_phone,
		b.sms_phone,
		b.email,
		a.account_number,
		a.amount AS loan_amount,
		COALESCE(disbursed.total_disbursed, 0) AS total_disbursed,
		COALESCE(repaid.total_repaid, 0) AS total_repaid,
		next_due.next_due_date,
		repaid.last_payment_date,
		(
			SELECT r.amount
			FROM repayments r
			WHERE r.application_id = a.id
			ORDER BY r.date DESC, r.id DESC
			LIMIT 1
		) AS last_payment_amount
	FROM applications a
	INNER JOIN borrowers b ON b.id = a.borrower_id
	LEFT JOIN (
		SELECT application_id, SUM(amount) AS total_disbursed
		FROM disbursements
		GROUP BY application_id
	) disbursed ON disbursed.application_id = a.id
	LEFT JOIN (
		SELECT application_id, SUM(amount) AS total_repaid, MAX(date) AS last_payment_date
		FROM repayments
		GROUP BY application_id
	) repaid ON repaid.application_id = a.id
	LEFT JOIN (
		SELECT application_id, MIN(date) AS next_due_date
		FROM payment_schedule
		WHERE deleted = FALSE AND skip = FALSE AND date >= ?
		GROUP BY application_id
	) next_due ON next_due.application_id = a.id
	WHERE a.deleted = FALSE`

const ledgerFactsOrder = `
	ORDER BY
		CASE WHEN next_due.next_due_date IS NULL THEN 1 ELSE 0 END,
		next_due.next_due_date,
		b.name,
		a.id`

func (r *ledgerRepository) FetchFacts(ctx context.Context, search string, today utils.Date) ([]domain.LedgerFact, error) {
	query := ledgerFactsQuery
	args := []any{today.AddDays(-r.lookbackDays).String()}

	if search = strings.TrimSpace(search); search != "" {
		clause, searchArgs := searchClause(search, "b.name", "a.account_number", "b.hand_phone", "b.sms_phone", "b.email")
		query += clause
		args = append(args, searchArgs...)
	}

	return selectFacts(ctx, r.db, query+ledgerFactsOrder, args...)
}

func (r *ledgerRepository) CountUpcoming(ctx context.Context, today utils.Date, windowDays int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payment_schedule
		WHERE deleted = FALSE AND skip = FALSE AND date BETWEEN ? AND ?
	`

	return countRows(ctx, r.db, query, today.String(), today.AddDays(windowDays).String())
}
