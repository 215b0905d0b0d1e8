// Package memory is an in-process workbook store.
package memory

import (
	"context"

	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// Store keeps a Book in memory. Load and Save copy, so callers never share rows.
type Store struct {
	book  *workbook.Book
	saves int
}

var _ workbook.Store = (*Store)(nil)

// New returns a store seeded with b. A nil b starts empty.
func New(b *workbook.Book) *Store {
	if b == nil {
		b = workbook.NewBook()
	}
	return &Store{book: b.Clone()}
}

// Load returns a copy of the stored book.
func (s *Store) Load(_ context.Context) (*workbook.Book, error) {
	return s.book.Clone(), nil
}

// Save replaces the stored book with a copy of b.
func (s *Store) Save(_ context.Context, b *workbook.Book) error {
	s.book = b.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *Store) Saves() int { return s.saves }
