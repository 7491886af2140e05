// Package table exposes row-number-addressed operations over the backend
// grid, with header validation and read-after-write verification.
package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/sheets"
)

var (
	ErrRowNotFound    = errors.New("row not found")
	ErrSchemaMismatch = errors.New("sheet header missing required columns")
)

type Accessor struct {
	backend sheets.Backend
	codec   core.Codec
}

func New(backend sheets.Backend, codec core.Codec) *Accessor {
	return &Accessor{backend: backend, codec: codec}
}

// Table is one fetched snapshot of the grid. Row numbers are 1-based; row 1
// is the header and data rows start at 2.
type Table struct {
	rows   [][]any
	header map[string]int
	codec  core.Codec
}

// Fetch retrieves the full grid and builds the header index. A sheet with
// no rows at all yields an empty table, not an error.
func (a *Accessor) Fetch(ctx context.Context) (*Table, error) {
	grid, err := a.backend.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	t := &Table{rows: grid, codec: a.codec, header: map[string]int{}}
	if len(grid) > 0 {
		t.header = core.BuildHeaderIndex(grid[0])
	}
	return t, nil
}

// RequireHeader fails unless every configured column label appears in the
// header row. Call it before any operation that depends on column positions.
func (t *Table) RequireHeader() error {
	for _, label := range t.codec.Cols.Labels() {
		if _, ok := t.header[core.NormalizeLabel(label)]; !ok {
			return fmt.Errorf("%w: %q", ErrSchemaMismatch, label)
		}
	}
	return nil
}

// RowCount is the number of physical rows, header included.
func (t *Table) RowCount() int { return len(t.rows) }

// Records decodes all data rows in physical order.
func (t *Table) Records() []core.Record {
	if len(t.rows) < 2 {
		return nil
	}
	out := make([]core.Record, 0, len(t.rows)-1)
	for i, row := range t.rows[1:] {
		out = append(out, t.codec.Decode(row, t.header, i+2))
	}
	return out
}

// Record decodes the addressed data row.
func (t *Table) Record(rowNumber int) (core.Record, error) {
	if err := t.checkRow(rowNumber); err != nil {
		return core.Record{}, err
	}
	return t.codec.Decode(t.rows[rowNumber-1], t.header, rowNumber), nil
}

func (t *Table) checkRow(rowNumber int) error {
	if rowNumber < 2 || rowNumber > len(t.rows) {
		return fmt.Errorf("%w: row_number %d", ErrRowNotFound, rowNumber)
	}
	return nil
}

// Append validates and appends one record at the end of the used range.
// Calling twice appends twice; there is no idempotency key.
func (a *Accessor) Append(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return a.backend.Append(ctx, a.codec.Encode(rec))
}

// WriteRow overwrites the addressed row and reads it straight back: the
// backend may coerce values on write, so the returned record is the
// authoritative post-write state.
func (a *Accessor) WriteRow(ctx context.Context, t *Table, rowNumber int, rec core.Record) (core.Record, error) {
	if err := t.checkRow(rowNumber); err != nil {
		return core.Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	if err := a.backend.WriteRow(ctx, rowNumber, a.codec.Encode(rec)); err != nil {
		return core.Record{}, err
	}
	row, err := a.backend.ReadRow(ctx, rowNumber)
	if err != nil {
		return core.Record{}, err
	}
	return a.codec.Decode(row, t.header, rowNumber), nil
}

// DeleteRow physically removes the addressed row. Every row number greater
// than it shifts down by one — callers must re-resolve row numbers after
// any delete.
func (a *Accessor) DeleteRow(ctx context.Context, t *Table, rowNumber int) error {
	if err := t.checkRow(rowNumber); err != nil {
		return err
	}
	return a.backend.DeleteRow(ctx, rowNumber)
}
