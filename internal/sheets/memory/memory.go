// Package memory is an in-memory grid backend used for tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/CoatingCompany/vending-api/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows [][]any
}

var _ sheets.Backend = (*Store)(nil)

// New seeds the grid with a header row built from the given labels.
func New(labels []string) *Store {
	header := make([]any, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	return &Store{rows: [][]any{header}}
}

// NewWithRows seeds the grid as-is; pass nil for a completely empty sheet.
func NewWithRows(rows [][]any) *Store {
	s := &Store{}
	for _, r := range rows {
		s.rows = append(s.rows, copyRow(r))
	}
	return s
}

func (s *Store) ReadAll(_ context.Context) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	for i, r := range s.rows {
		out[i] = copyRow(r)
	}
	return out, nil
}

func (s *Store) Append(_ context.Context, row []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, copyRow(row))
	return nil
}

func (s *Store) WriteRow(_ context.Context, rowNumber int, row []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRow(rowNumber); err != nil {
		return err
	}
	s.rows[rowNumber-1] = copyRow(row)
	return nil
}

func (s *Store) ReadRow(_ context.Context, rowNumber int) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRow(rowNumber); err != nil {
		return nil, err
	}
	return copyRow(s.rows[rowNumber-1]), nil
}

func (s *Store) DeleteRow(_ context.Context, rowNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRow(rowNumber); err != nil {
		return err
	}
	s.rows = append(s.rows[:rowNumber-1], s.rows[rowNumber:]...)
	return nil
}

func (s *Store) checkRow(rowNumber int) error {
	if rowNumber < 1 || rowNumber > len(s.rows) {
		return &sheets.BackendError{Op: "row access", Err: fmt.Errorf("row %d out of range", rowNumber)}
	}
	return nil
}

func copyRow(row []any) []any {
	out := make([]any, len(row))
	copy(out, row)
	return out
}
