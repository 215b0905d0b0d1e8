// Package graph prepares the expenses view for charting and renders the
// charts as PNG files.
package graph

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Row is one expense reduced to what the charts use.
type Row struct {
	Date      time.Time
	Amount    float64
	Primary   string
	Secondary string
	Tertiary  string
	Type      model.ExpenseType
}

// Base converts expenses into rows sorted by date, leaving out transfers into
// vacation savings.
func Base(expenses []model.Expense) []Row {
	rows := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		if e.Primary == "Transfers" && e.Secondary == "Vacation" {
			continue
		}
		rows = append(rows, Row{
			Date:      e.Date,
			Amount:    e.Amount.InexactFloat64(),
			Primary:   e.Primary,
			Secondary: e.Secondary,
			Tertiary:  e.Tertiary,
			Type:      e.Type,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// StdDevFilter keeps rows within mean ± n standard deviations, computed
// separately for income (positive) and expense (negative) amounts. Zero
// amounts are dropped. A sign group with fewer than two rows is kept whole.
func StdDevFilter(rows []Row, n float64) []Row {
	var pos, neg []float64
	for _, r := range rows {
		switch {
		case r.Amount > 0:
			pos = append(pos, r.Amount)
		case r.Amount < 0:
			neg = append(neg, r.Amount)
		}
	}
	posLo, posHi := bounds(pos, n)
	negLo, negHi := bounds(neg, n)

	var out []Row
	for _, r := range rows {
		switch {
		case r.Amount > 0 && r.Amount >= posLo && r.Amount <= posHi:
			out = append(out, r)
		case r.Amount < 0 && r.Amount >= negLo && r.Amount <= negHi:
			out = append(out, r)
		}
	}
	return out
}

func bounds(xs []float64, n float64) (lo, hi float64) {
	if len(xs) < 2 {
		return math.Inf(-1), math.Inf(1)
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return mean - n*std, mean + n*std
}

// Period is a resampling interval.
type Period int

const (
	Month Period = iota
	Year
)

func (p Period) String() string {
	if p == Year {
		return "year"
	}
	return "month"
}

// Start truncates t to the beginning of its period.
func (p Period) Start(t time.Time) time.Time {
	if p == Year {
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) next(t time.Time) time.Time {
	if p == Year {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// Frame is a pivot table: one row per period, one column per category.
// Periods are contiguous; empty periods hold zeros.
type Frame struct {
	Periods []time.Time
	Columns []string
	Values  [][]float64 // Values[period][column]
}

// Empty reports whether the frame has no data.
func (f Frame) Empty() bool {
	return len(f.Periods) == 0 || len(f.Columns) == 0
}

// Column returns the values of one column, or nil.
func (f Frame) Column(name string) []float64 {
	for j, c := range f.Columns {
		if c == name {
			out := make([]float64, len(f.Periods))
			for i := range f.Periods {
				out[i] = f.Values[i][j]
			}
			return out
		}
	}
	return nil
}

// Totals returns the row sums.
func (f Frame) Totals() []float64 {
	out := make([]float64, len(f.Values))
	for i, row := range f.Values {
		out[i] = floats.Sum(row)
	}
	return out
}

// Pivot sums value(r) by period and key(r) over rows kept by keep.
func Pivot(rows []Row, p Period, keep func(Row) bool, key func(Row) string, value func(Row) float64) Frame {
	sums := make(map[time.Time]map[string]float64)
	cols := make(map[string]bool)
	var first, last time.Time
	for _, r := range rows {
		if !keep(r) {
			continue
		}
		start := p.Start(r.Date)
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
		if sums[start] == nil {
			sums[start] = make(map[string]float64)
		}
		k := key(r)
		sums[start][k] += value(r)
		cols[k] = true
	}

	var f Frame
	if len(cols) == 0 {
		return f
	}
	for c := range cols {
		f.Columns = append(f.Columns, c)
	}
	sort.Strings(f.Columns)

	for t := first; !t.After(last); t = p.next(t) {
		row := make([]float64, len(f.Columns))
		for j, c := range f.Columns {
			row[j] = sums[t][c]
		}
		f.Periods = append(f.Periods, t)
		f.Values = append(f.Values, row)
	}
	return f
}

func abs(r Row) float64 {
	if r.Amount < 0 {
		return -r.Amount
	}
	return r.Amount
}

func amount(r Row) float64 { return r.Amount }

// Income sums income by source (the Tertiary label component).
func Income(rows []Row, p Period) Frame {
	return Pivot(rows, p,
		func(r Row) bool { return r.Primary == "Income" },
		func(r Row) string { return r.Tertiary },
		amount)
}

// IncomeTotal sums all income into a single "Income" column.
func IncomeTotal(rows []Row, p Period) Frame {
	return Pivot(rows, p,
		func(r Row) bool { return r.Primary == "Income" },
		func(Row) string { return "Income" },
		amount)
}

// Expenses sums absolute amounts by Type, excluding income and transfers.
func Expenses(rows []Row, p Period) Frame {
	return Pivot(rows, p,
		func(r Row) bool { return r.Type != model.TypeIncome && r.Type != model.TypeTransfers },
		func(r Row) string { return string(r.Type) },
		abs)
}

// Lifestyle sums absolute lifestyle amounts by Primary.
func Lifestyle(rows []Row, p Period) Frame {
	return Pivot(rows, p,
		func(r Row) bool { return r.Type == model.TypeLifestyle },
		func(r Row) string { return r.Primary },
		abs)
}

// Shares scales each period so its columns sum to 1. Periods summing to zero
// stay zero.
func (f Frame) Shares() Frame {
	out := f.clone()
	for i, total := range f.Totals() {
		if total == 0 {
			continue
		}
		floats.Scale(1/total, out.Values[i])
	}
	return out
}

// PercentOf expresses each value as a percentage of the matching period's
// total in base. Periods missing from base, or with a zero total, are zero.
func (f Frame) PercentOf(base Frame) Frame {
	totals := make(map[time.Time]float64, len(base.Periods))
	for i, t := range base.Periods {
		totals[t] = floats.Sum(base.Values[i])
	}
	out := f.clone()
	for i, t := range f.Periods {
		total := totals[t]
		for j := range out.Values[i] {
			if total == 0 {
				out.Values[i][j] = 0
				continue
			}
			out.Values[i][j] = out.Values[i][j] / total * 100
		}
	}
	return out
}

func (f Frame) clone() Frame {
	out := Frame{
		Periods: append([]time.Time(nil), f.Periods...),
		Columns: append([]string(nil), f.Columns...),
		Values:  make([][]float64, len(f.Values)),
	}
	for i, row := range f.Values {
		out.Values[i] = append([]float64(nil), row...)
	}
	return out
}

// Point is one transaction on the running-balance chart.
type Point struct {
	Date   time.Time
	Amount float64
	Sum    float64
}

// Cumulative returns rows with the running sum of amounts.
func Cumulative(rows []Row) []Point {
	out := make([]Point, len(rows))
	var sum float64
	for i, r := range rows {
		sum += r.Amount
		out[i] = Point{Date: r.Date, Amount: r.Amount, Sum: sum}
	}
	return out
}
