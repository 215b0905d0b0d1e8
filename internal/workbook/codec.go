package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// SourceNoteColumn holds the operator supplied import note on every sheet.
const SourceNoteColumn = "data_source_note"

// DateFormat is the date layout of the output views.
const DateFormat = "2006-01-02"

// Sheet headers.
var (
	BankHeader     = []string{"Details", "Posting Date", "Description", "Amount", "Type", "Balance", SourceNoteColumn}
	CreditHeader   = []string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount", "Memo", SourceNoteColumn}
	RawHeader      = []string{SourceNoteColumn, "Date", "Historical", "Amount", "Type", "Category", "Description", "Grouping", "Label"}
	ExpensesHeader = []string{SourceNoteColumn, "Date", "Amount", "Description", "Primary", "Secondary", "Tertiary", "Type"}
)

// columns resolves cells by header name. Columns the sheet lacks read as "".
type columns map[string]int

func newColumns(head []string) columns {
	c := make(columns, len(head))
	for i, name := range head {
		c[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return c
}

func (c columns) get(row []string, name string) string {
	i, ok := c[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columns) amount(row []string, name string) (decimal.Decimal, error) {
	s := strings.TrimSpace(c.get(row, name))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return d, nil
}

// dataRows splits rows into a column index and the rows after the header,
// skipping rows with no content.
func dataRows(rows [][]string) (columns, [][]string) {
	if len(rows) == 0 {
		return columns{}, nil
	}
	var out [][]string
	for _, r := range rows[1:] {
		if !blank(r) {
			out = append(out, r)
		}
	}
	return newColumns(rows[0]), out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DecodeBank reads an activity_bank sheet. A missing sheet is an empty table.
func DecodeBank(rows [][]string) ([]model.BankRecord, error) {
	cols, data := dataRows(rows)
	var recs []model.BankRecord
	for i, row := range data {
		amount, err := cols.amount(row, "Amount")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, model.BankRecord{
			Details:     cols.get(row, "Details"),
			PostingDate: cols.get(row, "Posting Date"),
			Description: cols.get(row, "Description"),
			Amount:      amount,
			Type:        cols.get(row, "Type"),
			Balance:     cols.get(row, "Balance"),
			SourceNote:  cols.get(row, SourceNoteColumn),
		})
	}
	return recs, nil
}

// EncodeBank writes an activity_bank sheet including its header.
func EncodeBank(recs []model.BankRecord) [][]string {
	rows := [][]string{append([]string(nil), BankHeader...)}
	for _, r := range recs {
		rows = append(rows, []string{r.Details, r.PostingDate, r.Description, r.Amount.String(), r.Type, r.Balance, r.SourceNote})
	}
	return rows
}

// DecodeCredit reads an activity_credit sheet.
func DecodeCredit(rows [][]string) ([]model.CreditRecord, error) {
	cols, data := dataRows(rows)
	var recs []model.CreditRecord
	for i, row := range data {
		amount, err := cols.amount(row, "Amount")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, model.CreditRecord{
			TransactionDate: cols.get(row, "Transaction Date"),
			PostDate:        cols.get(row, "Post Date"),
			Description:     cols.get(row, "Description"),
			Category:        cols.get(row, "Category"),
			Type:            cols.get(row, "Type"),
			Amount:          amount,
			Memo:            cols.get(row, "Memo"),
			SourceNote:      cols.get(row, SourceNoteColumn),
		})
	}
	return recs, nil
}

// EncodeCredit writes an activity_credit sheet including its header.
func EncodeCredit(recs []model.CreditRecord) [][]string {
	rows := [][]string{append([]string(nil), CreditHeader...)}
	for _, r := range recs {
		rows = append(rows, []string{r.TransactionDate, r.PostDate, r.Description, r.Category, r.Type, r.Amount.String(), r.Memo, r.SourceNote})
	}
	return rows
}

// EncodeRaw writes the expenses_raw view.
func EncodeRaw(recs []model.RawExpense) [][]string {
	rows := [][]string{append([]string(nil), RawHeader...)}
	for _, r := range recs {
		rows = append(rows, []string{
			r.SourceNote,
			r.Date.Format(DateFormat),
			r.Historical.String(),
			r.Amount.StringFixed(2),
			r.Type,
			r.Category,
			r.Description,
			r.Grouping,
			string(r.Label),
		})
	}
	return rows
}

// EncodeExpenses writes the simplified expenses view.
func EncodeExpenses(recs []model.Expense) [][]string {
	rows := [][]string{append([]string(nil), ExpensesHeader...)}
	for _, r := range recs {
		rows = append(rows, []string{
			r.SourceNote,
			r.Date.Format(DateFormat),
			r.Amount.StringFixed(2),
			r.Description,
			r.Primary,
			r.Secondary,
			r.Tertiary,
			string(r.Type),
		})
	}
	return rows
}

// DecodeExpenses reads the simplified expenses view. Sheets written before the
// Tertiary rename carry a "Terciary" column, which is accepted too.
func DecodeExpenses(rows [][]string) ([]model.Expense, error) {
	cols, data := dataRows(rows)
	tertiary := "Tertiary"
	if _, ok := cols["tertiary"]; !ok {
		tertiary = "Terciary"
	}

	var recs []model.Expense
	for i, row := range data {
		amount, err := cols.amount(row, "Amount")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		date, err := time.Parse(DateFormat, strings.TrimSpace(cols.get(row, "Date")))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date: %w", i+2, err)
		}
		recs = append(recs, model.Expense{
			SourceNote:  cols.get(row, SourceNoteColumn),
			Date:        date,
			Amount:      amount,
			Description: cols.get(row, "Description"),
			Primary:     cols.get(row, "Primary"),
			Secondary:   cols.get(row, "Secondary"),
			Tertiary:    cols.get(row, tertiary),
			Type:        model.ExpenseType(cols.get(row, "Type")),
		})
	}
	return recs, nil
}
