package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingColumn is returned when a CSV lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// header maps lower-cased column names to their index.
type header map[string]int

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	// Bank exports often carry a trailing comma on data rows only.
	cr.FieldsPerRecord = -1
	return cr
}

// readHeader reads the first row and checks every required column is present.
func readHeader(cr *csv.Reader, required []string) (header, error) {
	rec, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file, want %s", ErrMissingColumn, strings.Join(required, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	h := make(header, len(rec))
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range required {
		if _, ok := h[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}
	return h, nil
}

// get returns the named cell, or "" when the row is short.
func (h header) get(rec []string, col string) string {
	i, ok := h[strings.ToLower(col)]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// readRows reads every data row, skipping blank lines the reader returns as a
// single empty field.
func readRows(cr *csv.Reader) ([][]string, error) {
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, rec)
	}
}

// ParseAmount parses a currency cell. A blank cell is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
