package graph

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Variant selects a set of charts.
type Variant string

const (
	VariantAll       Variant = "all"
	VariantHousehold Variant = "household"
	VariantProperty  Variant = "property"
)

// ErrNotImplemented is returned for variants that have no charts yet.
var ErrNotImplemented = errors.New("not implemented")

// ParseVariant validates a variant name. An empty name means all.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VariantAll, nil
	case VariantAll, VariantHousehold, VariantProperty:
		return v, nil
	default:
		return "", fmt.Errorf("unknown graph variant %q: want all, household or property", s)
	}
}

const stdDisclaimer = " (within %g std devs)"

var (
	chartWidth  = 6 * vg.Inch
	chartHeight = 3 * vg.Inch
	tallHeight  = 4 * vg.Inch
	titleSize   = vg.Points(9)
)

var palette = []string{
	"#DC143C", "#0047AB", "#50C878", "#FFBF00", "#800080", "#008080",
	"#FF7F50", "#0F52BA", "#808000", "#FF00FF", "#40E0D0", "#FD5E53",
}

func paletteColor(i int) color.Color {
	var r, g, b uint8
	_, _ = fmt.Sscanf(palette[i%len(palette)], "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Chart is one figure to render. Exactly one of Frame and Points is set.
type Chart struct {
	Name   string // file name without extension
	Title  string
	YLabel string
	Legend string
	Tall   bool
	Frame  *Frame
	Points []Point
}

// Charts builds the household chart set from the expenses view.
func Charts(expenses []model.Expense, stdDevs float64) []Chart {
	rows := Base(expenses)
	std := StdDevFilter(rows, stdDevs)
	disc := fmt.Sprintf(stdDisclaimer, stdDevs)

	frame := func(f Frame) *Frame { return &f }
	var charts []Chart

	charts = append(charts,
		Chart{Name: "income-expenses-sum", Title: "Income, expenses and sum, ignoring vacation savings", YLabel: "Amount ($)", Legend: "Category", Points: Cumulative(rows)},
		Chart{Name: "income-expenses-sum-std", Title: "Income, expenses and sum, ignoring vacation savings" + disc, YLabel: "Amount ($)", Legend: "Category", Points: Cumulative(std)},
	)
	for _, p := range []Period{Month, Year} {
		charts = append(charts, Chart{
			Name: "income-" + p.String(), Title: "Income, sample " + p.String(),
			YLabel: "Income", Legend: "Income source", Frame: frame(Income(rows, p)),
		})
	}
	for _, p := range []Period{Month, Year} {
		charts = append(charts, Chart{
			Name: "expenses-" + p.String(), Title: "Expenses, sample " + p.String(),
			YLabel: "Expense", Legend: "Expense type", Frame: frame(Expenses(rows, p)),
		})
	}
	charts = append(charts, Chart{
		Name: "expenses-year-std", Title: "Expenses, sample year" + disc,
		YLabel: "Expense", Legend: "Expense type", Frame: frame(Expenses(std, Year)),
	})
	for _, p := range []Period{Month, Year} {
		charts = append(charts, Chart{
			Name: "expense-share-" + p.String(), Title: "Expense percentages, sample " + p.String(),
			YLabel: "Share of expenses", Legend: "Expense type", Frame: frame(Expenses(rows, p).Shares()),
		})
	}
	charts = append(charts, Chart{
		Name: "expense-share-year-std", Title: "Expense percentages, sample year" + disc,
		YLabel: "Share of expenses", Legend: "Expense type", Frame: frame(Expenses(std, Year).Shares()),
	})
	for _, p := range []Period{Month, Year} {
		charts = append(charts, Chart{
			Name: "expense-income-pct-" + p.String(), Title: "Expenses as percentage of income, sample " + p.String(),
			YLabel: "Percent of income", Legend: "Expense type", Frame: frame(Expenses(rows, p).PercentOf(IncomeTotal(rows, p))),
		})
	}
	for _, p := range []Period{Month, Year} {
		charts = append(charts, Chart{
			Name: "lifestyle-share-" + p.String(), Title: "Lifestyle percentages, sample " + p.String(),
			YLabel: "Share of lifestyle", Legend: "Primary", Tall: true, Frame: frame(Lifestyle(rows, p).Shares()),
		})
	}
	charts = append(charts, Chart{
		Name: "lifestyle-share-year-std", Title: "Lifestyle percentages, sample year" + disc,
		YLabel: "Share of lifestyle", Legend: "Primary", Tall: true, Frame: frame(Lifestyle(std, Year).Shares()),
	})

	for i := range charts {
		charts[i].Name = fmt.Sprintf("%02d-%s", i+1, charts[i].Name)
	}
	return charts
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	if c.Frame != nil {
		return c.Frame.Empty()
	}
	return len(c.Points) == 0
}

// Plot builds the gonum plot for the chart.
func (c Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = titleSize
	p.X.Label.Text = "Date"
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	var err error
	if c.Frame != nil {
		err = addStackedArea(p, *c.Frame)
	} else {
		err = addCumulative(p, c.Points)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return p, nil
}

// Save renders the chart as a PNG in dir and returns its path.
func (c Chart) Save(dir string) (string, error) {
	p, err := c.Plot()
	if err != nil {
		return "", err
	}
	h := chartHeight
	if c.Tall {
		h = tallHeight
	}
	path := filepath.Join(dir, c.Name+".png")
	if err := p.Save(chartWidth, h, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func unix(f Frame, i int) float64 {
	return float64(f.Periods[i].Unix())
}

// addStackedArea draws one polygon per column between the running totals
// below and including that column.
func addStackedArea(p *plot.Plot, f Frame) error {
	lower := make([]float64, len(f.Periods))
	for j, name := range f.Columns {
		upper := make([]float64, len(f.Periods))
		for i := range f.Periods {
			upper[i] = lower[i] + f.Values[i][j]
		}

		xys := make(plotter.XYs, 0, 2*len(f.Periods))
		for i := range f.Periods {
			xys = append(xys, plotter.XY{X: unix(f, i), Y: upper[i]})
		}
		for i := len(f.Periods) - 1; i >= 0; i-- {
			xys = append(xys, plotter.XY{X: unix(f, i), Y: lower[i]})
		}

		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
		poly.Color = paletteColor(j)
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(name, poly)

		lower = upper
	}
	return nil
}

func addCumulative(p *plot.Plot, pts []Point) error {
	var income, expense, sum plotter.XYs
	for _, pt := range pts {
		x := float64(pt.Date.Unix())
		switch {
		case pt.Amount > 0:
			income = append(income, plotter.XY{X: x, Y: pt.Amount})
		case pt.Amount < 0:
			expense = append(expense, plotter.XY{X: x, Y: pt.Amount})
		}
		sum = append(sum, plotter.XY{X: x, Y: pt.Sum})
	}

	series := []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"Income", income, color.Black},
		{"Expense", expense, color.RGBA{R: 255, A: 255}},
		{"Sum", sum, color.RGBA{B: 255, A: 255}},
	}
	for _, s := range series {
		if len(s.xys) == 0 {
			continue
		}
		l, err := plotter.NewLine(s.xys)
		if err != nil {
			return fmt.Errorf("%s line: %w", s.name, err)
		}
		l.LineStyle.Color = s.color
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	return nil
}

// Render writes every non-empty chart of variant into dir and returns the
// written paths.
func Render(dir string, variant Variant, expenses []model.Expense, stdDevs float64) ([]string, error) {
	if variant == VariantProperty {
		return nil, fmt.Errorf("graph variant %s: %w", variant, ErrNotImplemented)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var paths []string
	for _, c := range Charts(expenses, stdDevs) {
		if c.Empty() {
			continue
		}
		path, err := c.Save(dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
