// Package sqlite stores the workbook in a single SQLite file, one row per
// sheet row.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// Store reads and writes a SQLite workbook file.
type Store struct {
	path string
}

var _ workbook.FileStore = (*Store)(nil)

// New returns a store for the database at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	if err := RunMigrations(s.path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Load reads every sheet in stored order.
func (s *Store) Load(ctx context.Context) (*workbook.Book, error) {
	// Opening would create an empty database.
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", s.path, err)
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	names, err := sheetNames(ctx, db)
	if err != nil {
		return nil, err
	}

	b := workbook.NewBook()
	for _, name := range names {
		rows, err := sheetRows(ctx, db, name)
		if err != nil {
			return nil, err
		}
		b.Set(name, rows)
	}
	return b, nil
}

func sheetNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rs, err := db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query sheets: %w", err)
	}
	defer rs.Close()

	var names []string
	for rs.Next() {
		var name string
		if err := rs.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		names = append(names, name)
	}
	return names, rs.Err()
}

func sheetRows(ctx context.Context, db *sql.DB, name string) ([][]string, error) {
	rs, err := db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("query sheet %s: %w", name, err)
	}
	defer rs.Close()

	var rows [][]string
	for rs.Next() {
		var raw string
		if err := rs.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan sheet %s: %w", name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode sheet %s row %d: %w", name, len(rows)+1, err)
		}
		rows = append(rows, cells)
	}
	return rows, rs.Err()
}

// Save replaces the stored book in one transaction.
func (s *Store) Save(ctx context.Context, b *workbook.Book) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows`); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sheets`); err != nil {
		return fmt.Errorf("clear sheets: %w", err)
	}

	for pos, sheet := range b.Sheets() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheets (position, name) VALUES (?, ?)`, pos, sheet.Name); err != nil {
			return fmt.Errorf("insert sheet %s: %w", sheet.Name, err)
		}
		for idx, row := range sheet.Rows {
			cells, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode sheet %s row %d: %w", sheet.Name, idx+1, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows (sheet, idx, cells) VALUES (?, ?, ?)`, sheet.Name, idx, string(cells)); err != nil {
				return fmt.Errorf("insert sheet %s row %d: %w", sheet.Name, idx+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
