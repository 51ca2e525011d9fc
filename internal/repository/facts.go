package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// factRow is the column set every fact query projects. Dates are scanned as
// strings because drivers disagree on whether aggregated DATE columns come back
// as time.Time or text.
type factRow struct {
	ID                string              `db:"id"`
	BorrowerID        int64               `db:"borrower_id"`
	BorrowerName      string              `db:"borrower_name"`
	AccountNumber     string              `db:"account_number"`
	HandPhone         sql.NullString      `db:"hand_phone"`
	SMSPhone          sql.NullString      `db:"sms_phone"`
	Email             sql.NullString      `db:"email"`
	LoanAmount        decimal.Decimal     `db:"loan_amount"`
	TotalDisbursed    decimal.Decimal     `db:"total_disbursed"`
	TotalRepaid       decimal.Decimal     `db:"total_repaid"`
	NextDueDate       sql.NullString      `db:"next_due_date"`
	LastPaymentDate   sql.NullString      `db:"last_payment_date"`
	LastPaymentAmount decimal.NullDecimal `db:"last_payment_amount"`
}

func (r factRow) toFact() (domain.LedgerFact, error) {
	nextDue, err := nullDate(r.NextDueDate)
	if err != nil {
		return domain.LedgerFact{}, fmt.Errorf("account %s next due date: %w", r.ID, err)
	}

	lastPayment, err := nullDate(r.LastPaymentDate)
	if err != nil {
		return domain.LedgerFact{}, fmt.Errorf("account %s last payment date: %w", r.ID, err)
	}

	return domain.LedgerFact{
		ID:                r.ID,
		BorrowerID:        r.BorrowerID,
		BorrowerName:      r.BorrowerName,
		AccountNumber:     r.AccountNumber,
		Phone:             nullString(r.HandPhone),
		SMSPhone:          nullString(r.SMSPhone),
		Email:             nullString(r.Email),
		LoanAmount:        r.LoanAmount,
		TotalDisbursed:    r.TotalDisbursed,
		TotalRepaid:       r.TotalRepaid,
		NextDueDate:       nextDue,
		LastPaymentDate:   lastPayment,
		LastPaymentAmount: r.LastPaymentAmount,
	}, nil
}

func selectFacts(ctx context.Context, db *sqlx.DB, query string, args ...any) ([]domain.LedgerFact, error) {
	var rows []factRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	facts := make([]domain.LedgerFact, 0, len(rows))
	for _, row := range rows {
		fact, err := row.toFact()
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}

	return facts, nil
}

func countRows(ctx context.Context, db *sqlx.DB, query string, args ...any) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return count, nil
}

// searchClause matches pattern against every column, each lower-cased and
// null-safe. It returns the SQL fragment and one argument per column.
func searchClause(search string, columns ...string) (string, []any) {
	pattern := likePattern(search)

	conditions := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		conditions = append(conditions, fmt.Sprintf(`LOWER(COALESCE(%s, '')) LIKE ? ESCAPE '\'`, column))
		args = append(args, pattern)
	}

	return " AND (" + strings.Join(conditions, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullDate(s sql.NullString) (*utils.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
