package core

import (
	"reflect"
	"testing"
)

func TestItemsRoundTrip(t *testing.T) {
	joined := JoinItems([]string{"A", "B ", " C", ""})
	if joined != "A, B, C" {
		t.Fatalf("unexpected joined form: %q", joined)
	}
	if got := SplitItems(joined); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestSplitItemsMessyCell(t *testing.T) {
	got := SplitItems(" robot , , doll,")
	if !reflect.DeepEqual(got, []string{"robot", "doll"}) {
		t.Fatalf("unexpected tokens: %v", got)
	}
	if SplitItems("   ") != nil {
		t.Fatalf("blank cell should have no tokens")
	}
}

func TestHasToken(t *testing.T) {
	cell := "Robot, Teddy Bear, doll"
	if !HasToken(cell, "teddy bear") {
		t.Fatalf("expected case-insensitive match")
	}
	if HasToken(cell, "bear") {
		t.Fatalf("partial token must not match")
	}
	if HasToken("", "doll") {
		t.Fatalf("empty cell has no tokens")
	}
}

func TestLastToken(t *testing.T) {
	if got := LastToken("A, B, C"); got != "C" {
		t.Fatalf("got %q", got)
	}
	if got := LastToken(""); got != "" {
		t.Fatalf("got %q", got)
	}
}
