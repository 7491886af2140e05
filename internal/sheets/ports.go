// Package sheets defines the outbound port to the tabular backend.
package sheets

import (
	"context"
	"fmt"
)

// Backend is the remote grid store. Row numbers are 1-based physical
// positions; row 1 is the header. Implementations do not retry — every
// failure surfaces to the caller.
type Backend interface {
	// ReadAll returns the full rectangular range over the configured
	// columns. Rows may be shorter than the header when trailing cells are
	// blank. An empty sheet returns an empty grid, not an error.
	ReadAll(ctx context.Context) ([][]any, error)

	// Append inserts one row at the end of the used range.
	Append(ctx context.Context, row []any) error

	// WriteRow overwrites the addressed row in place.
	WriteRow(ctx context.Context, rowNumber int, row []any) error

	// ReadRow reads back exactly the addressed row.
	ReadRow(ctx context.Context, rowNumber int) ([]any, error)

	// DeleteRow physically removes the row; all later rows shift up by one.
	DeleteRow(ctx context.Context, rowNumber int) error
}

// BackendError marks a failed remote call (network, auth, quota). The
// underlying cause is kept for diagnosis.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("sheets %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
