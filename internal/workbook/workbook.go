// Package workbook models the finance spreadsheet as an ordered set of named
// sheets and defines the Store port its backends implement.
package workbook

import (
	"context"
	"errors"
)

// ErrNoLocalFile is returned by operations that need the workbook as a file
// on disk when the backend keeps it elsewhere.
var ErrNoLocalFile = errors.New("workbook has no local file")

// Store loads and saves a whole Book. Save overwrites every sheet it is given.
type Store interface {
	Load(ctx context.Context) (*Book, error)
	Save(ctx context.Context, b *Book) error
}

// FileStore is a Store backed by a single file.
type FileStore interface {
	Store
	Path() string
}

// Sheet is a named table. Rows[0] is the header when present.
type Sheet struct {
	Name string
	Rows [][]string
}

// Book is an ordered collection of sheets.
type Book struct {
	sheets []*Sheet
}

// NewBook returns an empty Book.
func NewBook() *Book {
	return &Book{}
}

// Names returns sheet names in order.
func (b *Book) Names() []string {
	names := make([]string, len(b.sheets))
	for i, s := range b.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheets returns the sheets in order.
func (b *Book) Sheets() []*Sheet {
	return b.sheets
}

// Has reports whether the book contains a sheet called name.
func (b *Book) Has(name string) bool {
	return b.find(name) != nil
}

// Rows returns the rows of a sheet, or nil when it does not exist.
func (b *Book) Rows(name string) [][]string {
	if s := b.find(name); s != nil {
		return s.Rows
	}
	return nil
}

// Set replaces the rows of a sheet, appending the sheet if it is new.
func (b *Book) Set(name string, rows [][]string) {
	if s := b.find(name); s != nil {
		s.Rows = rows
		return
	}
	b.sheets = append(b.sheets, &Sheet{Name: name, Rows: rows})
}

// Clone returns a deep copy.
func (b *Book) Clone() *Book {
	c := &Book{sheets: make([]*Sheet, len(b.sheets))}
	for i, s := range b.sheets {
		rows := make([][]string, len(s.Rows))
		for j, r := range s.Rows {
			rows[j] = append([]string(nil), r...)
		}
		c.sheets[i] = &Sheet{Name: s.Name, Rows: rows}
	}
	return c
}

func (b *Book) find(name string) *Sheet {
	for _, s := range b.sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SheetNames names the sheets the tool reads and writes.
type SheetNames struct {
	ActivityBank   string `yaml:"activity_bank" env:"ACTIVITY_BANK"`
	ActivityCredit string `yaml:"activity_credit" env:"ACTIVITY_CREDIT"`
	ExpensesRaw    string `yaml:"expenses_raw" env:"EXPENSES_RAW"`
	Expenses       string `yaml:"expenses" env:"EXPENSES"`
}

// DefaultSheetNames returns the standard sheet names.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		ActivityBank:   "activity_bank",
		ActivityCredit: "activity_credit",
		ExpensesRaw:    "expenses_raw",
		Expenses:       "expenses",
	}
}

// All returns the names in workbook order.
func (n SheetNames) All() []string {
	return []string{n.ActivityBank, n.ActivityCredit, n.ExpensesRaw, n.Expenses}
}

// Scaffold adds an empty, header-only sheet for every name the book lacks.
func Scaffold(b *Book, names SheetNames) {
	headers := map[string][]string{
		names.ActivityBank:   BankHeader,
		names.ActivityCredit: CreditHeader,
		names.ExpensesRaw:    RawHeader,
		names.Expenses:       ExpensesHeader,
	}
	for _, name := range names.All() {
		if !b.Has(name) {
			b.Set(name, [][]string{append([]string(nil), headers[name]...)})
		}
	}
}
