// Package inflation restates historical amounts in today's money using a
// monthly consumer price index.
package inflation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when the index has no value for the requested month.
var ErrNoData = errors.New("no index data for date")

// Index converts an amount spent on date into its equivalent at the latest
// date the index knows about.
type Index interface {
	Inflate(amount decimal.Decimal, date time.Time) (decimal.Decimal, error)
}

// Identity is an Index that returns amounts unchanged.
type Identity struct{}

// Inflate returns amount.
func (Identity) Inflate(amount decimal.Decimal, _ time.Time) (decimal.Decimal, error) {
	return amount, nil
}
