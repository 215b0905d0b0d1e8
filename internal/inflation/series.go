package inflation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FREDURL is the CSV download for the US all-items CPI series.
const FREDURL = "https://fred.stlouisfed.org/graph/fredgraph.csv?id=CPIAUCSL"

type month struct {
	year int
	mon  time.Month
}

func monthOf(t time.Time) month {
	return month{year: t.Year(), mon: t.Month()}
}

// Series is a monthly index loaded from a FRED-style CSV
// ("DATE,VALUE" or "observation_date,CPIAUCSL"). Missing observations
// written as "." are skipped.
type Series struct {
	values map[month]decimal.Decimal
	latest month
}

var _ Index = (*Series)(nil)

// ParseSeries reads a two-column date,value CSV with a header row.
func ParseSeries(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty index series")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	s := &Series{values: make(map[month]decimal.Decimal)}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		raw := strings.TrimSpace(rec[1])
		if raw == "" || raw == "." {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", line, rec[0], err)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: value %q: %w", line, raw, err)
		}
		if !v.IsPositive() {
			return nil, fmt.Errorf("row %d: index value must be positive, got %s", line, raw)
		}
		m := monthOf(date)
		s.values[m] = v
		if len(s.values) == 1 || after(m, s.latest) {
			s.latest = m
		}
	}

	if len(s.values) == 0 {
		return nil, errors.New("index series has no observations")
	}
	return s, nil
}

func after(a, b month) bool {
	if a.year != b.year {
		return a.year > b.year
	}
	return a.mon > b.mon
}

// LoadSeriesFile parses the series stored at path.
func LoadSeriesFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index series: %w", err)
	}
	defer f.Close()

	s, err := ParseSeries(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Latest returns the first day of the most recent month in the series.
func (s *Series) Latest() time.Time {
	return time.Date(s.latest.year, s.latest.mon, 1, 0, 0, 0, 0, time.UTC)
}

// Len returns the number of monthly observations.
func (s *Series) Len() int { return len(s.values) }

// Inflate scales amount by CPI(latest)/CPI(month of date), rounded to cents.
func (s *Series) Inflate(amount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	base, ok := s.values[monthOf(date)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", date.Format("2006-01"), ErrNoData)
	}
	return amount.Mul(s.values[s.latest]).Div(base).Round(2), nil
}

// Download fetches the series at url and writes it to dest once it parses.
func Download(ctx context.Context, client *http.Client, url, dest string) (*Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading index series: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading index series: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading index series: %w", err)
	}

	s, err := ParseSeries(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}
	return s, nil
}
