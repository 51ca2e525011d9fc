package service

import (
	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/pkg/utils"

	"github.com/shopspring/decimal"
)

// Report kind names accepted by the kind query parameter.
const (
	KindLoans   = "loans"
	KindReports = "reports"

	DefaultKind = KindLoans
)

// Label is how a report kind presents one canonical outcome.
type Label struct {
	Tag  string
	Text string
}

// Taxonomy maps the canonical outcomes onto a report kind's status tags and
// display labels. Every outcome must be present and tags must be unique.
type Taxonomy map[domain.Status]Label

// Label returns the presentation of outcome s.
func (t Taxonomy) Label(s domain.Status) Label {
	return t[s]
}

// Outcome resolves a status tag back to its canonical outcome.
func (t Taxonomy) Outcome(tag string) (domain.Status, bool) {
	for status, label := range t {
		if label.Tag == tag {
			return status, true
		}
	}
	return "", false
}

// Tags lists the status tags in canonical order.
func (t Taxonomy) Tags() []string {
	tags := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		tags = append(tags, t[s].Tag)
	}
	return tags
}

// LoanTaxonomy is the status vocabulary of the loan portfolio.
var LoanTaxonomy = Taxonomy{
	domain.StatusCurrent:   {Tag: "current", Text: "On track"},
	domain.StatusDueSoon:   {Tag: "due_soon", Text: "Due soon"},
	domain.StatusOverdue:   {Tag: "overdue", Text: "Overdue"},
	domain.StatusCompleted: {Tag: "completed", Text: "Completed"},
}

// ReportTaxonomy is the status vocabulary of the generic report set.
var ReportTaxonomy = Taxonomy{
	domain.StatusCurrent:   {Tag: "open", Text: "Open"},
	domain.StatusDueSoon:   {Tag: "in_progress", Text: "In progress"},
	domain.StatusOverdue:   {Tag: "blocked", Text: "Blocked"},
	domain.StatusCompleted: {Tag: "resolved", Text: "Resolved"},
}

// Kind is one family of reports served by the engine. The pipeline calls the
// hooks in order: Classify for every fact, then Summarize over the full set.
type Kind interface {
	Name() string
	Taxonomy() Taxonomy
	Classify(fact domain.LedgerFact, today utils.Date) domain.ClassifiedRow
	Summarize(rows []domain.ClassifiedRow, upcomingPayments int) domain.SummaryMetrics
	// DemoRows is the static data set served while the data store is down.
	DemoRows() []domain.ClassifiedRow
}

type demoRow struct {
	fact            domain.LedgerFact
	outcome         domain.Status
	delinquencyDays int
}

type reportKind struct {
	name        string
	taxonomy    Taxonomy
	dueSoonDays int
	demo        []demoRow
}

// NewLoanPortfolioKind returns the loan portfolio report kind.
func NewLoanPortfolioKind(dueSoonDays int) Kind {
	return &reportKind{
		name:        KindLoans,
		taxonomy:    LoanTaxonomy,
		dueSoonDays: dueSoonDays,
		demo:        loanDemoRows,
	}
}

// NewReportSetKind returns the generic report set kind.
func NewReportSetKind(dueSoonDays int) Kind {
	return &reportKind{
		name:        KindReports,
		taxonomy:    ReportTaxonomy,
		dueSoonDays: dueSoonDays,
		demo:        reportDemoRows,
	}
}

func (k *reportKind) Name() string { return k.name }

func (k *reportKind) Taxonomy() Taxonomy { return k.taxonomy }

func (k *reportKind) Classify(fact domain.LedgerFact, today utils.Date) domain.ClassifiedRow {
	outcome, delinquencyDays := Classify(fact, today, k.dueSoonDays)
	return buildRow(fact, outcome, delinquencyDays, k.taxonomy)
}

func (k *reportKind) Summarize(rows []domain.ClassifiedRow, upcomingPayments int) domain.SummaryMetrics {
	return Summarize(rows, upcomingPayments)
}

func (k *reportKind) DemoRows() []domain.ClassifiedRow {
	rows := make([]domain.ClassifiedRow, 0, len(k.demo))
	for _, d := range k.demo {
		rows = append(rows, buildRow(d.fact, d.outcome, d.delinquencyDays, k.taxonomy))
	}
	return rows
}

// buildRow projects a fact and its outcome onto the response row.
func buildRow(fact domain.LedgerFact, outcome domain.Status, delinquencyDays int, taxonomy Taxonomy) domain.ClassifiedRow {
	label := taxonomy.Label(outcome)

	phone := utils.NormalizeContact(fact.Phone)
	if phone == nil {
		phone = utils.NormalizeContact(fact.SMSPhone)
	}

	return domain.ClassifiedRow{
		ID:                 fact.ID,
		BorrowerID:         fact.BorrowerID,
		BorrowerName:       fact.BorrowerName,
		AccountNumber:      fact.AccountNumber,
		LoanAmount:         fact.LoanAmount,
		DisbursedAmount:    fact.TotalDisbursed,
		TotalRepaid:        fact.TotalRepaid,
		OutstandingBalance: fact.Outstanding(),
		NextPaymentDue:     fact.NextDueDate,
		LastPaymentDate:    fact.LastPaymentDate,
		LastPaymentAmount:  fact.LastPaymentAmount,
		Status:             label.Tag,
		StatusLabel:        label.Text,
		DelinquencyDays:    delinquencyDays,
		Contact: domain.Contact{
			Phone: phone,
			Email: utils.NormalizeContact(fact.Email),
		},
		Outcome: outcome,
	}
}

func demoDate(s string) *utils.Date {
	d := utils.MustParseDate(s)
	return &d
}

func demoString(s string) *string { return &s }

func demoAmount(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

var loanDemoRows = []demoRow{
	{
		fact: domain.LedgerFact{
			ID:                "demo-1001",
			BorrowerID:        1,
			BorrowerName:      "Demo Borrower One",
			AccountNumber:     "ACC-1001",
			Phone:             demoString("+65 8000 0001"),
			Email:             demoString("borrower.one@example.com"),
			LoanAmount:        decimal.NewFromInt(5000),
			TotalDisbursed:    decimal.NewFromInt(5000),
			TotalRepaid:       decimal.NewFromInt(3000),
			NextDueDate:       demoDate("2024-06-15"),
			LastPaymentDate:   demoDate("2024-05-20"),
			LastPaymentAmount: demoAmount(1500),
		},
		outcome: domain.StatusDueSoon,
	},
	{
		fact: domain.LedgerFact{
			ID:                "demo-1002",
			BorrowerID:        2,
			BorrowerName:      "Demo Borrower Two",
			AccountNumber:     "ACC-1002",
			Phone:             demoString("+65 8000 0002"),
			Email:             demoString("borrower.two@example.com"),
			LoanAmount:        decimal.NewFromInt(12000),
			TotalDisbursed:    decimal.NewFromInt(12000),
			TotalRepaid:       decimal.NewFromInt(12000),
			LastPaymentDate:   demoDate("2024-05-10"),
			LastPaymentAmount: demoAmount(4000),
		},
		outcome: domain.StatusCompleted,
	},
}

var reportDemoRows = []demoRow{
	{
		fact: domain.LedgerFact{
			ID:                "demo-2001",
			BorrowerID:        1,
			BorrowerName:      "Demo Monthly Operations Report",
			AccountNumber:     "RPT-2001",
			Email:             demoString("operations@example.com"),
			LoanAmount:        decimal.NewFromInt(40),
			TotalDisbursed:    decimal.NewFromInt(40),
			TotalRepaid:       decimal.NewFromInt(25),
			NextDueDate:       demoDate("2024-06-15"),
			LastPaymentDate:   demoDate("2024-05-20"),
			LastPaymentAmount: demoAmount(5),
		},
		outcome: domain.StatusDueSoon,
	},
	{
		fact: domain.LedgerFact{
			ID:                "demo-2002",
			BorrowerID:        2,
			BorrowerName:      "Demo Collections Review",
			AccountNumber:     "RPT-2002",
			Email:             demoString("collections@example.com"),
			LoanAmount:        decimal.NewFromInt(20),
			TotalDisbursed:    decimal.NewFromInt(20),
			TotalRepaid:       decimal.NewFromInt(20),
			LastPaymentDate:   demoDate("2024-05-10"),
			LastPaymentAmount: demoAmount(8),
		},
		outcome: domain.StatusCompleted,
	},
}
