package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "finance.db"))

	b := workbook.NewBook()
	b.Set("activity_credit", [][]string{
		{"Transaction Date", "Description", "Amount"},
		{"01/02/2025", `QUOTED "NAME", INC`, "-23.45"},
	})
	b.Set("expenses", [][]string{{"Type"}})
	require.NoError(t, s.Save(ctx, b))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"activity_credit", "expenses"}, got.Names())
	assert.Equal(t, b.Rows("activity_credit"), got.Rows("activity_credit"))
	assert.Equal(t, [][]string{{"Type"}}, got.Rows("expenses"))
}

func TestStore_SaveReplacesEverything(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "finance.db"))

	first := workbook.NewBook()
	first.Set("old", [][]string{{"a"}, {"b"}})
	require.NoError(t, s.Save(ctx, first))

	second := workbook.NewBook()
	second.Set("new", [][]string{{"c"}})
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got.Names())
}

func TestStore_LoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.db")
	_, err := New(path).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "load must not create the file")
}
