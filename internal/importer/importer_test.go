package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/model"
)

const bankHeader = "Details,Posting Date,Description,Amount,Type,Balance\n"

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestBankParser_Parse(t *testing.T) {
	p := &BankParser{}
	recs, err := p.Parse(strings.NewReader(readFixture(t, "chase_checking.csv")))
	require.NoError(t, err)
	require.Len(t, recs, 6)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", recs[0].Description)
	assert.Equal(t, "-4.00", recs[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", recs[0].Type)
	assert.Equal(t, "01/03/2025", recs[0].PostingDate)
	assert.Equal(t, "DEBIT", recs[0].Details)
	assert.Equal(t, "5421.10", recs[0].Balance)
	assert.Empty(t, recs[0].SourceNote)

	assert.True(t, recs[3].Amount.IsPositive())
	assert.Equal(t, "3500.00", recs[3].Amount.StringFixed(2))
}

func TestBankParser_BlankAmountIsZero(t *testing.T) {
	csv := bankHeader + "DEBIT,01/17/2025,CHECK 1042,,CHECK_PAID,100.00\n"
	recs, err := (&BankParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Amount.Equal(decimal.Zero))
	assert.Equal(t, "0", recs[0].Amount.String())
}

func TestBankParser_MissingColumn(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type\nDEBIT,01/03/2025,desc,-4.00,ACH_DEBIT\n"
	_, err := (&BankParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"Balance"`)
}

func TestBankParser_EmptyFile(t *testing.T) {
	_, err := (&BankParser{}).Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestBankParser_HeaderOnly(t *testing.T) {
	recs, err := (&BankParser{}).Parse(strings.NewReader(bankHeader))
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestBankParser_BadAmount(t *testing.T) {
	csv := bankHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00\n"
	_, err := (&BankParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestBankParser_ColumnOrderAndCase(t *testing.T) {
	csv := "\ufeffamount, description ,TYPE,Balance,posting date,details\n-4.5,COFFEE,DEBIT_CARD,1.00,01/03/2025,DEBIT\n"
	recs, err := (&BankParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "COFFEE", recs[0].Description)
	assert.Equal(t, "-4.5", recs[0].Amount.String())
	assert.Equal(t, "01/03/2025", recs[0].PostingDate)
}

func TestCreditParser_Parse(t *testing.T) {
	p := &CreditParser{}
	recs, err := p.Parse(strings.NewReader(readFixture(t, "chase_credit.csv")))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, "01/02/2025", recs[0].TransactionDate)
	assert.Equal(t, "01/03/2025", recs[0].PostDate)
	assert.Equal(t, "AMAZON MKTP US*2K4", recs[0].Description)
	assert.Equal(t, "Shopping", recs[0].Category)
	assert.Equal(t, "Sale", recs[0].Type)
	assert.Equal(t, "-23.45", recs[0].Amount.StringFixed(2))
	assert.Empty(t, recs[3].Category)
	assert.Empty(t, recs[3].Memo)
}

func TestCreditParser_MissingMemo(t *testing.T) {
	csv := "Transaction Date,Post Date,Description,Category,Type,Amount\n01/02/2025,01/03/2025,X,,Sale,-1\n"
	_, err := (&CreditParser{}).Parse(strings.NewReader(csv))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestImport_StampsSourceNote(t *testing.T) {
	var act Activity
	res, err := Import(&act, "bank", strings.NewReader(readFixture(t, "chase_checking.csv")), "checking 2025-01")
	require.NoError(t, err)

	assert.Equal(t, Result{Schema: model.SchemaBank, Parsed: 6, Added: 6, Total: 6}, res)
	for _, r := range act.Bank {
		assert.Equal(t, "checking 2025-01", r.SourceNote)
	}
	assert.Empty(t, act.Credit)
}

func TestImport_Idempotent(t *testing.T) {
	data := readFixture(t, "chase_credit.csv")
	var act Activity

	_, err := Import(&act, "credit", strings.NewReader(data), "card")
	require.NoError(t, err)
	once := append([]model.CreditRecord(nil), act.Credit...)

	res, err := Import(&act, "credit", strings.NewReader(data), "card")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.ElementsMatch(t, once, act.Credit)
}

func TestImport_DifferentSourceNoteIsDistinct(t *testing.T) {
	row := bankHeader + "DEBIT,01/03/2025,COFFEE,-4.00,DEBIT_CARD,1.00\n"
	var act Activity

	_, err := Import(&act, "bank", strings.NewReader(row), "note1")
	require.NoError(t, err)
	res, err := Import(&act, "bank", strings.NewReader(row), "note3")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Added)
	require.Len(t, act.Bank, 2)
	assert.Equal(t, "note3", act.Bank[0].SourceNote)
	assert.Equal(t, "note1", act.Bank[1].SourceNote)
}

func TestImport_DuplicateRowsWithinOneExport(t *testing.T) {
	csv := bankHeader +
		"DEBIT,01/03/2025,COFFEE,-4.00,DEBIT_CARD,1.00\n" +
		"DEBIT,01/03/2025,COFFEE,-4.00,DEBIT_CARD,1.00\n"
	var act Activity
	res, err := Import(&act, "bank", strings.NewReader(csv), "n")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 1, res.Added)
	assert.Len(t, act.Bank, 1)
}

func TestImport_UnknownSchema(t *testing.T) {
	var act Activity
	_, err := Import(&act, "brokerage", strings.NewReader(bankHeader), "n")
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestMerge_KeepsFirstOccurrenceOrder(t *testing.T) {
	mk := func(desc string) model.BankRecord { return model.BankRecord{Description: desc} }
	existing := []model.BankRecord{mk("a"), mk("b")}
	incoming := []model.BankRecord{mk("c"), mk("a")}

	merged, added := Merge(incoming, existing)
	assert.Equal(t, []model.BankRecord{mk("c"), mk("a"), mk("b")}, merged)
	assert.Equal(t, 1, added)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("bank")
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	for _, s := range []string{"bank", "Bank", " CREDIT "} {
		p, err := r.Get(s)
		require.NoError(t, err, s)
		assert.NotNil(t, p)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := DefaultRegistry()
	assert.Panics(t, func() { r.Register(&BankParser{}) })
}

func TestParserColumns(t *testing.T) {
	assert.Equal(t, BankColumns, (&BankParser{}).Columns())
	assert.Equal(t, CreditColumns, (&CreditParser{}).Columns())
	assert.Len(t, CreditColumns, 7)
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "import"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestInInbox(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, InInbox(dir, filepath.Join(dir, "a.csv")))
	assert.False(t, InInbox(dir, filepath.Join(dir, "processed", "a.csv")))
	assert.False(t, InInbox(dir, filepath.Join(t.TempDir(), "a.csv")))
}
