package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// fakeSheets serves the handful of Sheets endpoints the store calls.
type fakeSheets struct {
	mu     sync.Mutex
	titles []string
	values map[string][][]string
}

func unquote(r string) string {
	r = strings.TrimPrefix(r, "'")
	r = strings.TrimSuffix(r, "'")
	return strings.ReplaceAll(r, "''", "'")
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/values:batchGet"):
		resp := &gsheet.BatchGetValuesResponse{}
		for _, rg := range r.URL.Query()["ranges"] {
			vr := &gsheet.ValueRange{Range: rg}
			for _, row := range f.values[unquote(rg)] {
				cells := make([]interface{}, len(row))
				for i, c := range row {
					cells[i] = c
				}
				vr.Values = append(vr.Values, cells)
			}
			resp.ValueRanges = append(resp.ValueRanges, vr)
		}
		writeJSON(w, resp)

	case r.Method == http.MethodGet:
		resp := &gsheet.Spreadsheet{}
		for _, t := range f.titles {
			resp.Sheets = append(resp.Sheets, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: t}})
		}
		writeJSON(w, resp)

	case strings.HasSuffix(path, "/values:batchClear"):
		var req gsheet.BatchClearValuesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rg := range req.Ranges {
			delete(f.values, unquote(rg))
		}
		writeJSON(w, &gsheet.BatchClearValuesResponse{})

	case strings.HasSuffix(path, "/values:batchUpdate"):
		var req gsheet.BatchUpdateValuesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, vr := range req.Data {
			var rows [][]string
			for _, v := range vr.Values {
				row := make([]string, len(v))
				for i, c := range v {
					row[i], _ = c.(string)
				}
				rows = append(rows, row)
			}
			f.values[unquote(vr.Range)] = rows
		}
		writeJSON(w, &gsheet.BatchUpdateValuesResponse{})

	case strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.titles = append(f.titles, rq.AddSheet.Properties.Title)
			}
		}
		writeJSON(w, &gsheet.BatchUpdateSpreadsheetResponse{})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T, fake *fakeSheets) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	s, err := NewWithService(svc, "sheet-1")
	require.NoError(t, err)
	return s
}

func TestStore_SaveThenLoad(t *testing.T) {
	fake := &fakeSheets{titles: []string{"notes"}, values: map[string][][]string{"notes": {{"keep me"}}}}
	s := newTestStore(t, fake)
	ctx := context.Background()

	b := workbook.NewBook()
	b.Set("activity_bank", [][]string{{"Details", "Amount"}, {"DEBIT", "-4.50"}})
	b.Set("Bob's sheet", [][]string{{"x"}})
	require.NoError(t, s.Save(ctx, b))

	assert.Equal(t, []string{"notes", "activity_bank", "Bob's sheet"}, fake.titles)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "activity_bank", "Bob's sheet"}, got.Names())
	assert.Equal(t, [][]string{{"Details", "Amount"}, {"DEBIT", "-4.50"}}, got.Rows("activity_bank"))
	assert.Equal(t, [][]string{{"x"}}, got.Rows("Bob's sheet"))
	assert.Equal(t, [][]string{{"keep me"}}, got.Rows("notes"), "untouched tab survives")
}

func TestStore_SaveClearsOldRows(t *testing.T) {
	fake := &fakeSheets{
		titles: []string{"expenses"},
		values: map[string][][]string{"expenses": {{"h"}, {"old"}, {"older"}}},
	}
	s := newTestStore(t, fake)
	ctx := context.Background()

	b := workbook.NewBook()
	b.Set("expenses", [][]string{{"h"}})
	require.NoError(t, s.Save(ctx, b))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h"}}, got.Rows("expenses"))
}

func TestNewWithService_MissingID(t *testing.T) {
	_, err := NewWithService(nil, "  ")
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'plain'", quote("plain"))
	assert.Equal(t, "'Bob''s'", quote("Bob's"))
}
