package importer

import (
	"fmt"
	"io"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Bank export column names.
const (
	ColDetails     = "Details"
	ColPostingDate = "Posting Date"
	ColDescription = "Description"
	ColAmount      = "Amount"
	ColType        = "Type"
	ColBalance     = "Balance"
)

// BankColumns are the columns a bank export must carry.
var BankColumns = []string{ColDetails, ColPostingDate, ColDescription, ColAmount, ColType, ColBalance}

// BankParser parses checking account CSV exports.
type BankParser struct{}

// Schema returns model.SchemaBank.
func (p *BankParser) Schema() model.Schema { return model.SchemaBank }

// Columns returns the required columns.
func (p *BankParser) Columns() []string { return BankColumns }

// Parse reads a bank CSV. Columns are found by header name; extra columns are ignored.
func (p *BankParser) Parse(r io.Reader) ([]model.BankRecord, error) {
	cr := newCSVReader(r)
	h, err := readHeader(cr, BankColumns)
	if err != nil {
		return nil, fmt.Errorf("reading bank CSV: %w", err)
	}

	rows, err := readRows(cr)
	if err != nil {
		return nil, fmt.Errorf("reading bank CSV: %w", err)
	}

	var recs []model.BankRecord
	for i, rec := range rows {
		amount, err := ParseAmount(h.get(rec, ColAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, model.BankRecord{
			Details:     h.get(rec, ColDetails),
			PostingDate: h.get(rec, ColPostingDate),
			Description: h.get(rec, ColDescription),
			Amount:      amount,
			Type:        h.get(rec, ColType),
			Balance:     h.get(rec, ColBalance),
		})
	}
	return recs, nil
}

// Import parses r, stamps each row with sourceNote and merges into act.Bank.
func (p *BankParser) Import(act *Activity, r io.Reader, sourceNote string) (Result, error) {
	recs, err := p.Parse(r)
	if err != nil {
		return Result{}, err
	}
	for i := range recs {
		recs[i].SourceNote = sourceNote
	}

	merged, added := Merge(recs, act.Bank)
	act.Bank = merged
	return Result{Schema: model.SchemaBank, Parsed: len(recs), Added: added, Total: len(merged)}, nil
}
