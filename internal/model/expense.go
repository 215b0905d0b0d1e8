package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType is the coarse reporting bucket derived from a Label.
type ExpenseType string

const (
	TypeLifestyle ExpenseType = "Lifestyle"
	TypeFun       ExpenseType = "Fun"
	TypeTravel    ExpenseType = "Travel"
	TypeTransfers ExpenseType = "Transfers"
	TypeIncome    ExpenseType = "Income"
	TypeRetail    ExpenseType = "Retail"
)

// ExpenseTypes lists every valid ExpenseType.
var ExpenseTypes = []ExpenseType{TypeLifestyle, TypeFun, TypeTravel, TypeTransfers, TypeIncome, TypeRetail}

// Valid reports whether t is one of ExpenseTypes.
func (t ExpenseType) Valid() bool {
	for _, v := range ExpenseTypes {
		if t == v {
			return true
		}
	}
	return false
}

// RawExpense is a row of the expenses_raw view.
type RawExpense struct {
	SourceNote  string
	Date        time.Time
	Historical  decimal.Decimal // amount as exported
	Amount      decimal.Decimal // inflation adjusted
	Type        string
	Category    string
	Description string
	Grouping    string
	Label       Label
}

// Expense is a row of the simplified expenses view.
type Expense struct {
	SourceNote  string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Primary     string
	Secondary   string
	Tertiary    string
	Type        ExpenseType
}
