package inflation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `observation_date,CPIAUCSL
2023-01-01,200.0
2023-02-01,.
2023-06-01,250.0
2024-01-01,300.0
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeries_Inflate(t *testing.T) {
	s, err := ParseSeries(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, day(2024, time.January, 1), s.Latest())

	tests := []struct {
		name   string
		amount string
		date   time.Time
		want   string
	}{
		{"doubles from 200 to 300 is 1.5x", "-10.00", day(2023, time.January, 17), "-15"},
		{"rounds to cents", "1.00", day(2023, time.June, 30), "1.2"},
		{"latest month unchanged", "42.42", day(2024, time.January, 3), "42.42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Inflate(decimal.RequireFromString(tt.amount), tt.date)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSeries_RoundsToCents(t *testing.T) {
	s, err := ParseSeries(strings.NewReader("DATE,VALUE\n2020-01-01,3\n2021-01-01,10\n"))
	require.NoError(t, err)

	got, err := s.Inflate(decimal.RequireFromString("1"), day(2020, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, "3.33", got.StringFixed(2))
	assert.True(t, got.Equal(decimal.RequireFromString("3.33")))
}

func TestSeries_NoData(t *testing.T) {
	s, err := ParseSeries(strings.NewReader(sample))
	require.NoError(t, err)

	_, err = s.Inflate(decimal.NewFromInt(5), day(2023, time.February, 10))
	assert.ErrorIs(t, err, ErrNoData, "missing observation")

	_, err = s.Inflate(decimal.NewFromInt(5), day(1999, time.May, 1))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseSeries_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"header only": "DATE,VALUE\n",
		"bad date":    "DATE,VALUE\nJan 2020,1\n",
		"bad value":   "DATE,VALUE\n2020-01-01,abc\n",
		"zero value":  "DATE,VALUE\n2020-01-01,0\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeries(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeriesFile(t *testing.T) {
	s, err := LoadSeriesFile("../../testdata/cpi.csv")
	require.NoError(t, err)
	assert.Greater(t, s.Len(), 0)

	_, err = LoadSeriesFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIdentity(t *testing.T) {
	amt := decimal.RequireFromString("-12.34")
	got, err := Identity{}.Inflate(amt, time.Now())
	require.NoError(t, err)
	assert.True(t, amt.Equal(got))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data", "cpi.csv")
	s, err := Download(context.Background(), srv.Client(), srv.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sample, string(written))
}

func TestDownload_BadStatusWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cpi.csv")
	_, err := Download(context.Background(), srv.Client(), srv.URL, dest)
	assert.Error(t, err)
	assert.NoFileExists(t, dest)
}
