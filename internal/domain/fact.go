package domain

import (
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/shopspring/decimal"
)

// LedgerFact is one denormalized record per loan account (or report item):
// principal, disbursement, repayment and schedule data joined by account id.
type LedgerFact struct {
	ID                string              `json:"id" db:"id"`
	BorrowerID        int64               `json:"borrowerId" db:"borrower_id"`
	BorrowerName      string              `json:"borrowerName" db:"borrower_name"`
	AccountNumber     string              `json:"accountNumber" db:"account_number"`
	Phone             *string             `json:"phone" db:"hand_phone"`
	SMSPhone          *string             `json:"smsPhone" db:"sms_phone"`
	Email             *string             `json:"email" db:"email"`
	LoanAmount        decimal.Decimal     `json:"loanAmount" db:"loan_amount"`
	TotalDisbursed    decimal.Decimal     `json:"totalDisbursed" db:"total_disbursed"`
	TotalRepaid       decimal.Decimal     `json:"totalRepaid" db:"total_repaid"`
	NextDueDate       *utils.Date         `json:"nextDueDate"`
	LastPaymentDate   *utils.Date         `json:"lastPaymentDate"`
	LastPaymentAmount decimal.NullDecimal `json:"lastPaymentAmount"`
}

// Outstanding is the disbursed amount not yet repaid, never negative.
func (f LedgerFact) Outstanding() decimal.Decimal {
	return utils.Outstanding(f.TotalDisbursed, f.TotalRepaid)
}
