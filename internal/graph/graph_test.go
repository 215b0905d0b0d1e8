package graph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(d time.Time, amount string, label string, typ model.ExpenseType) model.Expense {
	parts := model.Label(label).Split().Trim()
	return model.Expense{
		Date:      d,
		Amount:    decimal.RequireFromString(amount),
		Primary:   parts.Primary,
		Secondary: parts.Secondary,
		Tertiary:  parts.Tertiary,
		Type:      typ,
	}
}

func sample() []model.Expense {
	return []model.Expense{
		expense(date(2024, time.March, 2), "-40", "Restaurant: Super: Good", model.TypeFun),
		expense(date(2024, time.January, 15), "3000", "Income: Salary: Acme", model.TypeIncome),
		expense(date(2024, time.January, 20), "-60", "Fuel: Gas: 7-11", model.TypeLifestyle),
		expense(date(2024, time.January, 21), "-140", "Utilities: Power: City", model.TypeLifestyle),
		expense(date(2024, time.January, 22), "-500", "Transfers: Vacation: Savings", model.TypeTransfers),
		expense(date(2024, time.January, 23), "-100", "Transfers: Check: Payment", model.TypeTransfers),
		expense(date(2024, time.March, 15), "1000", "Income: Interest: Bank", model.TypeIncome),
	}
}

func TestBase(t *testing.T) {
	rows := Base(sample())
	require.Len(t, rows, 6, "vacation transfer dropped")
	assert.Equal(t, date(2024, time.January, 15), rows[0].Date)
	assert.Equal(t, date(2024, time.March, 15), rows[5].Date)
	for _, r := range rows {
		assert.False(t, r.Primary == "Transfers" && r.Secondary == "Vacation")
	}
}

func TestStdDevFilter(t *testing.T) {
	var rows []Row
	for i := 0; i < 20; i++ {
		rows = append(rows, Row{Amount: -10})
		rows = append(rows, Row{Amount: 100})
	}
	rows = append(rows, Row{Amount: -100000}, Row{Amount: 0}, Row{Amount: 12})

	got := StdDevFilter(rows, 2)
	for _, r := range got {
		assert.NotEqual(t, -100000.0, r.Amount, "outlier expense removed")
		assert.NotZero(t, r.Amount, "zero amounts dropped")
		assert.NotEqual(t, 12.0, r.Amount, "small income outside the band")
	}
	assert.Len(t, got, 40)
}

func TestStdDevFilter_SmallGroupsKept(t *testing.T) {
	rows := []Row{{Amount: 5}, {Amount: -7}}
	assert.Equal(t, rows, StdDevFilter(rows, 5))
}

func TestPivot_ContiguousPeriods(t *testing.T) {
	f := Expenses(Base(sample()), Month)

	assert.Equal(t, []string{"Fun", "Lifestyle"}, f.Columns)
	assert.Equal(t, []time.Time{date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1)}, f.Periods)
	assert.Equal(t, [][]float64{{0, 200}, {0, 0}, {40, 0}}, f.Values)
	assert.Equal(t, []float64{200, 0, 40}, f.Totals())
	assert.Equal(t, []float64{0, 0, 40}, f.Column("Fun"))
	assert.Nil(t, f.Column("Travel"))
}

func TestIncome(t *testing.T) {
	rows := Base(sample())

	bySource := Income(rows, Year)
	assert.Equal(t, []string{"Acme", "Bank"}, bySource.Columns)
	assert.Equal(t, [][]float64{{3000, 1000}}, bySource.Values)

	total := IncomeTotal(rows, Year)
	assert.Equal(t, [][]float64{{4000}}, total.Values)
}

func TestShares(t *testing.T) {
	f := Expenses(Base(sample()), Month).Shares()
	assert.Equal(t, [][]float64{{0, 1}, {0, 0}, {1, 0}}, f.Values)
}

func TestPercentOf(t *testing.T) {
	rows := Base(sample())
	f := Expenses(rows, Month).PercentOf(IncomeTotal(rows, Month))

	assert.InDelta(t, 200.0/3000*100, f.Values[0][1], 1e-9)
	assert.Equal(t, []float64{0, 0}, f.Values[1], "no income that month")
	assert.InDelta(t, 4.0, f.Values[2][0], 1e-9)
}

func TestLifestyle(t *testing.T) {
	f := Lifestyle(Base(sample()), Year)
	assert.Equal(t, []string{"Fuel", "Utilities"}, f.Columns)
	assert.Equal(t, [][]float64{{60, 140}}, f.Values)
}

func TestCumulative(t *testing.T) {
	pts := Cumulative([]Row{{Amount: 10}, {Amount: -4}, {Amount: 1.5}})
	assert.Equal(t, []float64{10, 6, 7.5}, []float64{pts[0].Sum, pts[1].Sum, pts[2].Sum})
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{"": VariantAll, "ALL": VariantAll, "household": VariantHousehold, "property": VariantProperty} {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseVariant("garden")
	assert.Error(t, err)
}

func TestCharts(t *testing.T) {
	charts := Charts(sample(), 5)
	require.Len(t, charts, 15)
	assert.Equal(t, "01-income-expenses-sum", charts[0].Name)
	assert.Equal(t, "15-lifestyle-share-year-std", charts[14].Name)
}

func TestRender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graphs")
	paths, err := Render(dir, VariantAll, sample(), 5)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.Equal(t, ".png", filepath.Ext(p))
	}
}

func TestRender_Property(t *testing.T) {
	_, err := Render(t.TempDir(), VariantProperty, sample(), 5)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
