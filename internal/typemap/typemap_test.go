package typemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/model"
	"github.com/pennywise-dev/pennywise/internal/rules"
)

func TestDerive(t *testing.T) {
	m := Default()

	tests := []struct {
		primary, secondary string
		want               model.ExpenseType
	}{
		{"Automotive", "Car Wash", model.TypeLifestyle},
		{"Restaurant", "Coffee", model.TypeFun},
		{"Transfers", "Venmo Payment", model.TypeTransfers},
		{"Mortgage", "Home Loan", model.TypeLifestyle},
		{"Shopping", "Retail", model.TypeRetail},
		{"Shopping", "Groceries", model.TypeLifestyle},
		{"Shopping", "Home", model.TypeLifestyle},
		{"Subscription", "Video", model.TypeFun},
		{"Subscription", "Utility", model.TypeLifestyle},
		{"Travel", "Lodging", model.TypeTravel},
		{"Income", "Salary", model.TypeIncome},
		{"Subscription", "Music", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Derive(tt.primary, tt.secondary), "Derive(%q, %q)", tt.primary, tt.secondary)
	}
}

func TestDerive_LastRuleWins(t *testing.T) {
	m := New([]Rule{
		{Primary, "Shopping", model.TypeRetail},
		{Secondary, "Groceries", model.TypeLifestyle},
	})
	assert.Equal(t, model.TypeLifestyle, m.Derive("Shopping", "Groceries"))

	swapped := New([]Rule{
		{Secondary, "Groceries", model.TypeLifestyle},
		{Primary, "Shopping", model.TypeRetail},
	})
	assert.Equal(t, model.TypeRetail, swapped.Derive("Shopping", "Groceries"))
}

// Guards against accidental reordering of the default rules: a row matched by
// two rules with different types must type differently when the order flips.
func TestDefaultRules_OrderSensitive(t *testing.T) {
	forward := DefaultRules()
	reversed := make([]Rule, len(forward))
	for i, r := range forward {
		reversed[len(forward)-1-i] = r
	}

	cases := [][2]string{
		{"Restaurant", "Groceries"},
		{"Shopping", "Groceries"},
		{"Entertainment", "Home"},
		{"Utilities", "Video"},
	}
	for _, c := range cases {
		f := New(forward).Derive(c[0], c[1])
		r := New(reversed).Derive(c[0], c[1])
		assert.NotEqual(t, f, r, "%v", c)
	}
}

func TestApply(t *testing.T) {
	rows := []model.Expense{
		{Primary: "Automotive", Secondary: "Car Wash"},
		{Primary: "Restaurant", Secondary: "Coffee"},
		{Primary: "Transfers", Secondary: "Venmo Payment"},
		{Primary: "Shopping", Secondary: "Groceries"},
		{Primary: "Mortgage", Secondary: "Home Loan"},
	}
	require.NoError(t, Default().Apply(rows))

	var got []model.ExpenseType
	for _, r := range rows {
		got = append(got, r.Type)
		assert.True(t, r.Type.Valid())
	}
	assert.Equal(t, []model.ExpenseType{
		model.TypeLifestyle, model.TypeFun, model.TypeTransfers, model.TypeLifestyle, model.TypeLifestyle,
	}, got)
}

func TestApply_Uncategorized(t *testing.T) {
	rows := []model.Expense{
		{Primary: "Travel", Secondary: "Lodging"},
		{Primary: "", Secondary: ""},
		{Primary: "Subscription", Secondary: "Music"},
		{Primary: "", Secondary: ""},
	}
	err := Default().Apply(rows)
	require.Error(t, err)

	var uerr *UncategorizedError
	require.True(t, errors.As(err, &uerr))
	assert.Len(t, uerr.Rows, 3)
	assert.Equal(t, UncategorizedRow{Primary: "Subscription", Secondary: "Music"}, uerr.Rows[1])
	assert.Contains(t, err.Error(), `Primary="Subscription"`)
	assert.Contains(t, err.Error(), "3 uncategorized rows")
}

// Every label the built-in rule table can produce must resolve to a type,
// otherwise a matched transaction would abort categorization.
func TestDefaultRules_CoverDefaultLabels(t *testing.T) {
	tbl, err := rules.Compile(rules.DefaultGroups())
	require.NoError(t, err)

	m := Default()
	for _, l := range tbl.Labels() {
		p := l.Split().Trim()
		typ := m.Derive(p.Primary, p.Secondary)
		assert.True(t, typ.Valid(), "label %q has no type", l)
	}
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "Primary", Primary.String())
	assert.Equal(t, "Secondary", Secondary.String())
}
