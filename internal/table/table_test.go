package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/sheets/memory"
)

func testAccessor(t *testing.T, store *memory.Store) *Accessor {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return New(store, core.Codec{Cols: core.DefaultColumns(), Loc: loc})
}

func seededStore() *memory.Store {
	return memory.NewWithRows([][]any{
		{"timestamp", "location", "items", "note", "revenue"},
		{"01-01-2024", "Sofia", "robot, doll", "", "100"},
		{"05-01-2024", "Sofia", "kite", "rush", "1 200"},
		{"03-01-2024", "Plovdiv", "teddy bear", "", ""},
	})
}

func TestFetchEmptySheet(t *testing.T) {
	a := testAccessor(t, memory.NewWithRows(nil))
	tab, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tab.RowCount() != 0 || len(tab.Records()) != 0 {
		t.Fatalf("expected empty table")
	}
}

func TestRequireHeader(t *testing.T) {
	a := testAccessor(t, seededStore())
	tab, _ := a.Fetch(context.Background())
	if err := tab.RequireHeader(); err != nil {
		t.Fatalf("complete header rejected: %v", err)
	}

	broken := memory.NewWithRows([][]any{{"timestamp", "location", "items", "note"}})
	a = testAccessor(t, broken)
	tab, _ = a.Fetch(context.Background())
	if err := tab.RequireHeader(); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestAppendValidates(t *testing.T) {
	store := seededStore()
	a := testAccessor(t, store)
	ctx := context.Background()

	err := a.Append(ctx, core.Record{Timestamp: "06-01-2024", Location: "Varna", Items: ""})
	if !errors.Is(err, core.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}

	if err := a.Append(ctx, core.Record{Timestamp: "06-01-2024", Location: "Varna", Items: "ball"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	tab, _ := a.Fetch(ctx)
	if tab.RowCount() != 5 {
		t.Fatalf("sheet should grow by one row, got %d", tab.RowCount())
	}
}

func TestWriteRowReadAfterWrite(t *testing.T) {
	a := testAccessor(t, seededStore())
	ctx := context.Background()
	tab, _ := a.Fetch(ctx)

	rec, err := tab.Record(3)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	rec.Note = "updated"
	got, err := a.WriteRow(ctx, tab, 3, rec)
	if err != nil {
		t.Fatalf("write row: %v", err)
	}
	if got.Note != "updated" || got.RowNumber != 3 {
		t.Fatalf("unexpected post-write record: %+v", got)
	}
	if !got.DateOK || got.RevenueValue() != 1200 {
		t.Fatalf("derived fields missing after write: %+v", got)
	}
}

func TestRowBounds(t *testing.T) {
	a := testAccessor(t, seededStore())
	ctx := context.Background()
	tab, _ := a.Fetch(ctx)

	for _, n := range []int{0, 1, 5, 99} {
		if _, err := tab.Record(n); !errors.Is(err, ErrRowNotFound) {
			t.Fatalf("row %d: expected ErrRowNotFound, got %v", n, err)
		}
		if err := a.DeleteRow(ctx, tab, n); !errors.Is(err, ErrRowNotFound) {
			t.Fatalf("delete %d: expected ErrRowNotFound, got %v", n, err)
		}
	}
}

// Deleting a row shifts every later row number. A caller holding an old row
// number will address the wrong logical record afterwards; that is the
// caller's responsibility, not something the accessor can detect.
func TestDeleteRowDrift(t *testing.T) {
	a := testAccessor(t, seededStore())
	ctx := context.Background()
	tab, _ := a.Fetch(ctx)

	if err := a.DeleteRow(ctx, tab, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tab, _ = a.Fetch(ctx)
	rec, err := tab.Record(2)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Items != "kite" {
		t.Fatalf("expected the old row 3 at row 2, got %+v", rec)
	}
}
