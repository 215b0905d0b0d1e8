// Package xlsx stores the workbook as an Excel/LibreOffice compatible .xlsx file.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// defaultSheet is the sheet excelize creates in a new file.
const defaultSheet = "Sheet1"

// numericColumns are written as numbers so the spreadsheet can sum them.
var numericColumns = map[string]bool{
	"Amount":     true,
	"Historical": true,
}

// Store reads and writes a .xlsx file.
type Store struct {
	path string
}

var _ workbook.FileStore = (*Store)(nil)

// New returns a store for the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the workbook file path.
func (s *Store) Path() string { return s.path }

// Load reads every sheet in file order.
func (s *Store) Load(_ context.Context) (*workbook.Book, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", s.path, err)
	}
	defer f.Close()

	b := workbook.NewBook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		b.Set(name, rows)
	}
	return b, nil
}

// Save writes the whole book to a temporary file and renames it over the
// workbook, so a failed write leaves the previous file intact.
func (s *Store) Save(_ context.Context, b *workbook.Book) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range b.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet.Name, err)
		}
		if err := writeRows(f, sheet); err != nil {
			return err
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating workbook dir: %w", err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+".tmp.xlsx")
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet *workbook.Sheet) error {
	var numeric map[int]bool
	for r, row := range sheet.Rows {
		if r == 0 {
			numeric = make(map[int]bool)
			for c, name := range row {
				numeric[c] = numericColumns[name]
			}
		}

		cells := make([]interface{}, len(row))
		for c, v := range row {
			cells[c] = v
			if r > 0 && numeric[c] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[c] = n
				}
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet.Name, r+1, err)
		}
		if err := f.SetSheetRow(sheet.Name, cell, &cells); err != nil {
			return fmt.Errorf("writing sheet %s row %d: %w", sheet.Name, r+1, err)
		}
	}
	return nil
}
