package core

import (
	"reflect"
	"testing"
	"time"
)

func testCodec(t *testing.T) Codec {
	t.Helper()
	return Codec{Cols: DefaultColumns(), Loc: sofia(t)}
}

func TestDecodeShuffledHeader(t *testing.T) {
	c := testCodec(t)
	header := BuildHeaderIndex([]any{"Revenue", "location", " items ", "note", "timestamp"})
	row := []any{"1 200", "Sofia Mall", "robot, doll", "rush order", "05-01-2024"}
	rec := c.Decode(row, header, 2)

	if rec.Location != "Sofia Mall" || rec.Items != "robot, doll" || rec.Note != "rush order" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Timestamp != "05-01-2024" || !rec.DateOK {
		t.Fatalf("timestamp not decoded: %+v", rec)
	}
	if rec.Revenue != "1 200" || rec.RevenueValue() != 1200 {
		t.Fatalf("revenue not derived: %+v", rec)
	}
	if rec.RowNumber != 2 {
		t.Fatalf("row number: %d", rec.RowNumber)
	}
}

func TestDecodeShortRow(t *testing.T) {
	c := testCodec(t)
	header := BuildHeaderIndex([]any{"timestamp", "location", "items", "note", "revenue"})
	rec := c.Decode([]any{"05-01-2024", "Plovdiv"}, header, 3)
	if rec.Items != "" || rec.Note != "" || rec.Revenue != "" {
		t.Fatalf("missing trailing cells must read empty: %+v", rec)
	}
	if rec.RevenueValue() != 0 {
		t.Fatalf("empty revenue must aggregate as 0")
	}
}

func TestDecodeSerialTimestamp(t *testing.T) {
	c := testCodec(t)
	header := BuildHeaderIndex([]any{"timestamp", "location", "items", "note", "revenue"})
	rec := c.Decode([]any{float64(45292), "Varna", "kite", "", ""}, header, 2)
	if !rec.DateOK {
		t.Fatalf("serial cell should parse")
	}
	if got := FormatDate(time.Unix(rec.Epoch, 0).In(c.Loc)); got != "01-01-2024" {
		t.Fatalf("serial decoded to %s", got)
	}
}

func TestEncodeOrder(t *testing.T) {
	c := testCodec(t)
	row := c.Encode(Record{
		Timestamp: "05-01-2024",
		Location:  "Varna",
		Items:     "kite",
		Note:      "n",
		Revenue:   "100",
	})
	want := []any{"05-01-2024", "Varna", "kite", "n", "100"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("got %v, want %v", row, want)
	}
}

func TestValidateEmptyItems(t *testing.T) {
	if err := (Record{Items: "  "}).Validate(); err != ErrEmptyItems {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
	if err := (Record{Items: "doll"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
