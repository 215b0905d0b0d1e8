// Package typemap derives the reporting ExpenseType from a label's Primary and
// Secondary components.
package typemap

import (
	"fmt"
	"strings"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Field selects which label component a Rule inspects.
type Field int

const (
	Primary Field = iota
	Secondary
)

func (f Field) String() string {
	if f == Secondary {
		return "Secondary"
	}
	return "Primary"
}

// Rule assigns Type when the selected component equals Value.
type Rule struct {
	Field Field
	Value string
	Type  model.ExpenseType
}

func (r Rule) matches(primary, secondary string) bool {
	if r.Field == Secondary {
		return secondary == r.Value
	}
	return primary == r.Value
}

// Mapper applies an ordered rule list. Every matching rule overwrites the
// type set by the rules before it, so the last matching rule wins.
type Mapper struct {
	rules []Rule
}

// New returns a Mapper over rules in the given order.
func New(rules []Rule) *Mapper {
	return &Mapper{rules: append([]Rule(nil), rules...)}
}

// Default returns a Mapper over DefaultRules.
func Default() *Mapper {
	return New(DefaultRules())
}

// Rules returns a copy of the mapper's rules.
func (m *Mapper) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Derive returns the type for a label, or "" when no rule applies.
func (m *Mapper) Derive(primary, secondary string) model.ExpenseType {
	var t model.ExpenseType
	for _, r := range m.rules {
		if r.matches(primary, secondary) {
			t = r.Type
		}
	}
	return t
}

// Apply sets Type on every row. If any row is left without a type it returns
// an *UncategorizedError listing those rows.
func (m *Mapper) Apply(rows []model.Expense) error {
	var missing []UncategorizedRow
	for i := range rows {
		rows[i].Type = m.Derive(rows[i].Primary, rows[i].Secondary)
		if rows[i].Type == "" {
			missing = append(missing, UncategorizedRow{
				Type:      rows[i].Type,
				Primary:   rows[i].Primary,
				Secondary: rows[i].Secondary,
			})
		}
	}
	if len(missing) > 0 {
		return &UncategorizedError{Rows: missing}
	}
	return nil
}

// UncategorizedRow identifies a row the mapper could not type.
type UncategorizedRow struct {
	Type      model.ExpenseType
	Primary   string
	Secondary string
}

// UncategorizedError is returned when at least one row has no type.
type UncategorizedError struct {
	Rows []UncategorizedRow
}

func (e *UncategorizedError) Error() string {
	seen := make(map[UncategorizedRow]bool)
	var pairs []string
	for _, r := range e.Rows {
		if seen[r] {
			continue
		}
		seen[r] = true
		pairs = append(pairs, fmt.Sprintf("(Primary=%q, Secondary=%q)", r.Primary, r.Secondary))
	}
	return fmt.Sprintf("%d uncategorized rows: %s", len(e.Rows), strings.Join(pairs, ", "))
}
