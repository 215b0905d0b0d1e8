package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Schema identifies the column layout of an imported activity export.
type Schema string

const (
	SchemaBank   Schema = "bank"
	SchemaCredit Schema = "credit"
)

// BankRecord is one row of the activity_bank sheet (checking account export).
type BankRecord struct {
	Details     string
	PostingDate string
	Description string
	Amount      decimal.Decimal // zero when the export left it blank
	Type        string          // bank transaction type (ACH_DEBIT, etc.)
	Balance     string
	SourceNote  string
}

// Key identifies the row by every field. Two rows with equal keys are duplicates.
func (r BankRecord) Key() string {
	return rowKey(r.Details, r.PostingDate, r.Description, r.Amount.String(), r.Type, r.Balance, r.SourceNote)
}

// CreditRecord is one row of the activity_credit sheet (credit card export).
type CreditRecord struct {
	TransactionDate string
	PostDate        string
	Description     string
	Category        string
	Type            string
	Amount          decimal.Decimal
	Memo            string
	SourceNote      string
}

// Key identifies the row by every field.
func (r CreditRecord) Key() string {
	return rowKey(r.TransactionDate, r.PostDate, r.Description, r.Category, r.Type, r.Amount.String(), r.Memo, r.SourceNote)
}

func rowKey(fields ...string) string {
	return strings.Join(fields, "\x1f")
}

// Transaction is an activity row in the shape shared by both schemas.
type Transaction struct {
	Date        time.Time
	Type        string // source-provided, not the derived ExpenseType
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    string
	SourceNote  string
}

// Grouping returns the text the classifier matches against.
func (t Transaction) Grouping() string {
	return strings.TrimSpace(t.Description + " " + t.Category)
}
