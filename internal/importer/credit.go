package importer

import (
	"fmt"
	"io"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Credit export column names not shared with the bank export.
const (
	ColTransactionDate = "Transaction Date"
	ColPostDate        = "Post Date"
	ColCategory        = "Category"
	ColMemo            = "Memo"
)

// CreditColumns are the columns a credit card export must carry.
var CreditColumns = []string{ColTransactionDate, ColPostDate, ColDescription, ColCategory, ColType, ColAmount, ColMemo}

// CreditParser parses credit card CSV exports.
type CreditParser struct{}

// Schema returns model.SchemaCredit.
func (p *CreditParser) Schema() model.Schema { return model.SchemaCredit }

// Columns returns the required columns.
func (p *CreditParser) Columns() []string { return CreditColumns }

// Parse reads a credit CSV.
func (p *CreditParser) Parse(r io.Reader) ([]model.CreditRecord, error) {
	cr := newCSVReader(r)
	h, err := readHeader(cr, CreditColumns)
	if err != nil {
		return nil, fmt.Errorf("reading credit CSV: %w", err)
	}

	rows, err := readRows(cr)
	if err != nil {
		return nil, fmt.Errorf("reading credit CSV: %w", err)
	}

	var recs []model.CreditRecord
	for i, rec := range rows {
		amount, err := ParseAmount(h.get(rec, ColAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, model.CreditRecord{
			TransactionDate: h.get(rec, ColTransactionDate),
			PostDate:        h.get(rec, ColPostDate),
			Description:     h.get(rec, ColDescription),
			Category:        h.get(rec, ColCategory),
			Type:            h.get(rec, ColType),
			Amount:          amount,
			Memo:            h.get(rec, ColMemo),
		})
	}
	return recs, nil
}

// Import parses r, stamps each row with sourceNote and merges into act.Credit.
func (p *CreditParser) Import(act *Activity, r io.Reader, sourceNote string) (Result, error) {
	recs, err := p.Parse(r)
	if err != nil {
		return Result{}, err
	}
	for i := range recs {
		recs[i].SourceNote = sourceNote
	}

	merged, added := Merge(recs, act.Credit)
	act.Credit = merged
	return Result{Schema: model.SchemaCredit, Parsed: len(recs), Added: added, Total: len(merged)}, nil
}
