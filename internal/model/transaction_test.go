package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBankRecordKey(t *testing.T) {
	a := BankRecord{PostingDate: "01/03/2025", Description: "GITHUB", Amount: decimal.RequireFromString("-4.00"), SourceNote: "note1"}
	b := a
	b.Amount = decimal.RequireFromString("-4")
	assert.Equal(t, a.Key(), b.Key(), "numerically equal amounts are the same row")

	b.SourceNote = "note3"
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestCreditRecordKey(t *testing.T) {
	a := CreditRecord{PostDate: "01/03/2025", Description: "AIRBNB", Memo: "a|b"}
	b := CreditRecord{PostDate: "01/03/2025", Description: "AIRBNB", Memo: "a", Category: "b"}
	assert.NotEqual(t, a.Key(), b.Key())
}
