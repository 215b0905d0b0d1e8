// Package pipeline turns the activity sheets into the expenses_raw and
// expenses views: unify, classify, adjust for inflation, split labels and
// derive types.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pennywise-dev/pennywise/internal/inflation"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/model"
	"github.com/pennywise-dev/pennywise/internal/rules"
	"github.com/pennywise-dev/pennywise/internal/typemap"
	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// DateLayouts are tried in order when parsing activity dates.
var DateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006"}

// Pipeline holds the collaborators of a categorization run.
type Pipeline struct {
	Rules  *rules.Table
	Types  *typemap.Mapper
	Index  inflation.Index
	Sheets workbook.SheetNames
}

// New returns a pipeline with the default sheet names. A nil index disables
// inflation adjustment.
func New(table *rules.Table, types *typemap.Mapper, index inflation.Index) *Pipeline {
	if index == nil {
		index = inflation.Identity{}
	}
	return &Pipeline{Rules: table, Types: types, Index: index, Sheets: workbook.DefaultSheetNames()}
}

// Result is the output of one run.
type Result struct {
	Raw       []model.RawExpense
	Expenses  []model.Expense
	Unlabeled []string // distinct groupings no rule matched, in sorted order
	Adjusted  int      // rows whose amount the index changed
	Misses    int      // rows the index had no data for
}

// Unify converts both activity tables into transactions, credit rows first.
// Credit rows are dated by their post date.
func Unify(bank []model.BankRecord, credit []model.CreditRecord) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0, len(bank)+len(credit))
	for i, r := range credit {
		date, err := ParseDate(r.PostDate)
		if err != nil {
			return nil, fmt.Errorf("credit row %d: %w", i+1, err)
		}
		txs = append(txs, model.Transaction{
			Date:        date,
			Type:        r.Type,
			Description: r.Description,
			Amount:      r.Amount,
			Category:    r.Category,
			SourceNote:  r.SourceNote,
		})
	}
	for i, r := range bank {
		date, err := ParseDate(r.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("bank row %d: %w", i+1, err)
		}
		txs = append(txs, model.Transaction{
			Date:        date,
			Type:        r.Type,
			Description: r.Description,
			Amount:      r.Amount,
			SourceNote:  r.SourceNote,
		})
	}
	return txs, nil
}

// ParseDate accepts any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Run executes every stage in memory. It returns an error, and no result,
// if any row cannot be typed.
func (p *Pipeline) Run(ctx context.Context, bank []model.BankRecord, credit []model.CreditRecord) (*Result, error) {
	log := logger.FromContext(ctx)

	txs, err := Unify(bank, credit)
	if err != nil {
		return nil, fmt.Errorf("combining activity: %w", err)
	}

	raw := make([]model.RawExpense, len(txs))
	for i, tx := range txs {
		raw[i] = model.RawExpense{
			SourceNote:  tx.SourceNote,
			Date:        tx.Date,
			Historical:  tx.Amount,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Grouping:    tx.Description + " " + tx.Category,
		}
	}
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Grouping != raw[j].Grouping {
			return raw[i].Grouping < raw[j].Grouping
		}
		return raw[i].Date.Before(raw[j].Date)
	})

	res := &Result{}
	seen := make(map[string]bool)
	for i := range raw {
		r := &raw[i]
		r.Label = p.Rules.Classify(r.Grouping)

		r.SourceNote = strings.TrimSpace(r.SourceNote)
		r.Type = strings.TrimSpace(r.Type)
		r.Category = strings.TrimSpace(r.Category)
		r.Description = strings.TrimSpace(r.Description)
		r.Grouping = strings.TrimSpace(r.Grouping)
		r.Label = model.Label(strings.TrimSpace(string(r.Label)))

		if r.Label == "" && !seen[r.Grouping] {
			seen[r.Grouping] = true
			res.Unlabeled = append(res.Unlabeled, r.Grouping)
		}
	}
	if len(res.Unlabeled) > 0 {
		log.Warn().Int("count", len(res.Unlabeled)).Msg("Unlabeled rows found")
		for _, g := range res.Unlabeled {
			log.Warn().Str("grouping", g).Msg("unlabeled")
		}
	}

	for i := range raw {
		adjusted, err := p.Index.Inflate(raw[i].Historical, raw[i].Date)
		switch {
		case errors.Is(err, inflation.ErrNoData):
			res.Misses++
			log.Debug().Str("date", raw[i].Date.Format(workbook.DateFormat)).Msg("no index data, keeping historical amount")
			continue
		case err != nil:
			res.Misses++
			log.Debug().Err(err).Msg("inflation lookup failed, keeping historical amount")
			continue
		}
		raw[i].Amount = adjusted.Round(2)
		if !raw[i].Amount.Equal(raw[i].Historical) {
			res.Adjusted++
		}
	}
	res.Raw = raw

	expenses := Simplify(raw)
	if err := p.Types.Apply(expenses); err != nil {
		return nil, fmt.Errorf("deriving types: %w", err)
	}
	SortExpenses(expenses)
	res.Expenses = expenses

	return res, nil
}

// Simplify splits each label into its components.
func Simplify(raw []model.RawExpense) []model.Expense {
	out := make([]model.Expense, len(raw))
	for i, r := range raw {
		parts := r.Label.Split().Trim()
		out[i] = model.Expense{
			SourceNote:  strings.TrimSpace(r.SourceNote),
			Date:        r.Date,
			Amount:      r.Amount,
			Description: strings.TrimSpace(r.Description),
			Primary:     parts.Primary,
			Secondary:   parts.Secondary,
			Tertiary:    parts.Tertiary,
		}
	}
	return out
}

// SortExpenses orders rows by source note, then label components, then
// description.
func SortExpenses(rows []model.Expense) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.SourceNote != b.SourceNote:
			return a.SourceNote < b.SourceNote
		case a.Primary != b.Primary:
			return a.Primary < b.Primary
		case a.Secondary != b.Secondary:
			return a.Secondary < b.Secondary
		case a.Tertiary != b.Tertiary:
			return a.Tertiary < b.Tertiary
		default:
			return a.Description < b.Description
		}
	})
}

// RunBook decodes the activity sheets of b and runs the pipeline.
func (p *Pipeline) RunBook(ctx context.Context, b *workbook.Book) (*Result, error) {
	bank, err := workbook.DecodeBank(b.Rows(p.Sheets.ActivityBank))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.Sheets.ActivityBank, err)
	}
	credit, err := workbook.DecodeCredit(b.Rows(p.Sheets.ActivityCredit))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.Sheets.ActivityCredit, err)
	}
	return p.Run(ctx, bank, credit)
}

// Write replaces both views in b with res.
func (p *Pipeline) Write(b *workbook.Book, res *Result) {
	b.Set(p.Sheets.ExpensesRaw, workbook.EncodeRaw(res.Raw))
	b.Set(p.Sheets.Expenses, workbook.EncodeExpenses(res.Expenses))
}

// Categorize loads the workbook, runs the pipeline and saves both views in a
// single write. Nothing is saved when the run fails or dryRun is set.
func (p *Pipeline) Categorize(ctx context.Context, store workbook.Store, dryRun bool) (*Result, error) {
	b, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	res, err := p.RunBook(ctx, b)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return res, nil
	}
	p.Write(b, res)
	if err := store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("saving workbook: %w", err)
	}
	return res, nil
}
