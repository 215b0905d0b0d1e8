// Package gsheets keeps the workbook in a Google Sheets spreadsheet, one tab
// per sheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// Store reads and writes one spreadsheet.
type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ workbook.Store = (*Store)(nil)

// New creates a Sheets client authenticated with a service account key file.
// An empty credentialsFile falls back to application default credentials.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	opts := []option.ClientOption{option.WithScopes(gsheet.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID)
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) (*Store, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Load reads every tab in spreadsheet order.
func (s *Store) Load(ctx context.Context) (*workbook.Book, error) {
	titles, err := s.titles(ctx)
	if err != nil {
		return nil, err
	}

	b := workbook.NewBook()
	if len(titles) == 0 {
		return b, nil
	}

	ranges := make([]string, len(titles))
	for i, t := range titles {
		ranges[i] = quote(t)
	}
	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	for i, title := range titles {
		var rows [][]string
		if i < len(resp.ValueRanges) {
			rows = toRows(resp.ValueRanges[i].Values)
		}
		b.Set(title, rows)
	}
	return b, nil
}

// Save creates missing tabs, then clears and rewrites every sheet in b.
// Tabs not in b are left untouched.
func (s *Store) Save(ctx context.Context, b *workbook.Book) error {
	titles, err := s.titles(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[t] = true
	}

	var add []*gsheet.Request
	for _, name := range b.Names() {
		if !existing[name] {
			add = append(add, &gsheet.Request{
				AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
			})
		}
	}
	if len(add) > 0 {
		req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: add}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("adding sheets: %w", err)
		}
	}

	sheets := b.Sheets()
	if len(sheets) == 0 {
		return nil
	}

	clear := &gsheet.BatchClearValuesRequest{}
	var data []*gsheet.ValueRange
	for _, sh := range sheets {
		clear.Ranges = append(clear.Ranges, quote(sh.Name))
		if len(sh.Rows) > 0 {
			data = append(data, &gsheet.ValueRange{Range: quote(sh.Name), Values: toValues(sh.Rows)})
		}
	}
	if _, err := s.svc.Spreadsheets.Values.BatchClear(s.spreadsheetID, clear).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	update := &gsheet.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}
	return nil
}

func (s *Store) titles(ctx context.Context) ([]string, error) {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet %s: %w", s.spreadsheetID, err)
	}
	var titles []string
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

// quote makes a sheet title safe to use as an A1 range.
func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, v := range values {
		row := make([]string, len(v))
		for j, cell := range v {
			if cell != nil {
				row[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = row
	}
	return rows
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		row := make([]interface{}, len(r))
		for j, cell := range r {
			row[j] = cell
		}
		values[i] = row
	}
	return values
}
