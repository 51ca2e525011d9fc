package service

import (
	"testing"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = utils.NewDate(2024, 6, 10)

func dueIn(days int) *utils.Date {
	d := today.AddDays(days)
	return &d
}

func ledgerFact(disbursed, repaid string, due *utils.Date) domain.LedgerFact {
	return domain.LedgerFact{
		ID:             "1",
		BorrowerID:     1,
		BorrowerName:   "Borrower",
		AccountNumber:  "ACC-1",
		LoanAmount:     decimal.RequireFromString(disbursed),
		TotalDisbursed: decimal.RequireFromString(disbursed),
		TotalRepaid:    decimal.RequireFromString(repaid),
		NextDueDate:    due,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name                string
		fact                domain.LedgerFact
		expectedStatus      domain.Status
		expectedDelinquency int
	}{
		{
			name:           "fully repaid with a past due date is completed",
			fact:           ledgerFact("300", "300", dueIn(-20)),
			expectedStatus: domain.StatusCompleted,
		},
		{
			name:           "overpaid is completed",
			fact:           ledgerFact("300", "310", dueIn(3)),
			expectedStatus: domain.StatusCompleted,
		},
		{
			name:           "one cent outstanding is within tolerance",
			fact:           ledgerFact("100", "99.99", dueIn(-2)),
			expectedStatus: domain.StatusCompleted,
		},
		{
			name:                "two cents outstanding is not completed",
			fact:                ledgerFact("100", "99.98", dueIn(-2)),
			expectedStatus:      domain.StatusOverdue,
			expectedDelinquency: 2,
		},
		{
			name:           "nothing disbursed is never completed",
			fact:           ledgerFact("0", "0", nil),
			expectedStatus: domain.StatusCurrent,
		},
		{
			name:                "due yesterday is overdue by one day",
			fact:                ledgerFact("500", "0", dueIn(-1)),
			expectedStatus:      domain.StatusOverdue,
			expectedDelinquency: 1,
		},
		{
			name:                "due five days ago is overdue by five days",
			fact:                ledgerFact("500", "0", dueIn(-5)),
			expectedStatus:      domain.StatusOverdue,
			expectedDelinquency: 5,
		},
		{
			name:           "due today is due soon",
			fact:           ledgerFact("1000", "200", dueIn(0)),
			expectedStatus: domain.StatusDueSoon,
		},
		{
			name:           "due in exactly seven days is due soon",
			fact:           ledgerFact("1000", "200", dueIn(7)),
			expectedStatus: domain.StatusDueSoon,
		},
		{
			name:           "due in eight days is current",
			fact:           ledgerFact("1000", "200", dueIn(8)),
			expectedStatus: domain.StatusCurrent,
		},
		{
			name:           "no due date is current",
			fact:           ledgerFact("1000", "200", nil),
			expectedStatus: domain.StatusCurrent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, delinquency := Classify(tt.fact, today, DefaultDueSoonDays)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedDelinquency, delinquency)
		})
	}
}

func TestClassify_OverdueDaysArePositive(t *testing.T) {
	for days := 1; days <= 400; days++ {
		status, delinquency := Classify(ledgerFact("500", "100", dueIn(-days)), today, DefaultDueSoonDays)
		assert.Equal(t, domain.StatusOverdue, status)
		assert.Equal(t, days, delinquency)
	}
}

func TestClassify_DueSoonWindowIsConfigurable(t *testing.T) {
	status, _ := Classify(ledgerFact("1000", "0", dueIn(3)), today, 2)
	assert.Equal(t, domain.StatusCurrent, status)

	status, _ = Classify(ledgerFact("1000", "0", dueIn(2)), today, 2)
	assert.Equal(t, domain.StatusDueSoon, status)
}

func TestKindClassify_AppliesTaxonomy(t *testing.T) {
	fact := ledgerFact("500", "0", dueIn(-4))
	fact.Phone = ptr("  ")
	fact.SMSPhone = ptr(" +65 9000 0000 ")
	fact.Email = ptr("")

	loanRow := NewLoanPortfolioKind(DefaultDueSoonDays).Classify(fact, today)
	assert.Equal(t, "overdue", loanRow.Status)
	assert.Equal(t, "Overdue", loanRow.StatusLabel)
	assert.Equal(t, 4, loanRow.DelinquencyDays)
	assert.Equal(t, domain.StatusOverdue, loanRow.Outcome)
	assert.True(t, loanRow.OutstandingBalance.Equal(decimal.NewFromInt(500)))
	if assert.NotNil(t, loanRow.Contact.Phone) {
		assert.Equal(t, "+65 9000 0000", *loanRow.Contact.Phone)
	}
	assert.Nil(t, loanRow.Contact.Email)

	reportRow := NewReportSetKind(DefaultDueSoonDays).Classify(fact, today)
	assert.Equal(t, "blocked", reportRow.Status)
	assert.Equal(t, "Blocked", reportRow.StatusLabel)
	assert.Equal(t, 4, reportRow.DelinquencyDays)
}

func TestTaxonomies_AreComplete(t *testing.T) {
	for name, taxonomy := range map[string]Taxonomy{"loans": LoanTaxonomy, "reports": ReportTaxonomy} {
		t.Run(name, func(t *testing.T) {
			seen := map[string]bool{}
			for _, status := range domain.Statuses {
				label := taxonomy.Label(status)
				assert.NotEmpty(t, label.Tag)
				assert.NotEmpty(t, label.Text)
				assert.False(t, seen[label.Tag], "duplicate tag %s", label.Tag)
				seen[label.Tag] = true

				outcome, ok := taxonomy.Outcome(label.Tag)
				assert.True(t, ok)
				assert.Equal(t, status, outcome)
			}
			assert.NotContains(t, seen, domain.StatusAll)
		})
	}
}

func TestLoanTaxonomy_Labels(t *testing.T) {
	assert.Equal(t, Label{Tag: "current", Text: "On track"}, LoanTaxonomy.Label(domain.StatusCurrent))
	assert.Equal(t, Label{Tag: "due_soon", Text: "Due soon"}, LoanTaxonomy.Label(domain.StatusDueSoon))
	assert.Equal(t, Label{Tag: "overdue", Text: "Overdue"}, LoanTaxonomy.Label(domain.StatusOverdue))
	assert.Equal(t, Label{Tag: "completed", Text: "Completed"}, LoanTaxonomy.Label(domain.StatusCompleted))
}

func ptr[T any](v T) *T { return &v }
