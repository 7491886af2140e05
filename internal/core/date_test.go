package core

import (
	"testing"
	"time"
)

func sofia(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestParseDateToEpochStrings(t *testing.T) {
	loc := sofia(t)
	cases := []struct {
		in   string
		want string // expected date re-rendered as DD-MM-YYYY
		ok   bool
	}{
		{"05-01-2024", "05-01-2024", true},
		{"05.01.2024", "05-01-2024", true},
		{"05/01/2024", "05-01-2024", true},
		{"2024-01-05", "05-01-2024", true},
		{"5-1-2024", "05-01-2024", true},
		{"5.1.2024", "05-01-2024", true},
		{"5/1/2024", "05-01-2024", true},
		{"2024-1-5", "05-01-2024", true},
		{"05-01-24", "05-01-2024", true},
		{"5-1-24", "05-01-2024", true},
		{"05.01.24", "05-01-2024", true},
		{"05.01/2024", "05-01-2024", true}, // mixed separators
		{"'05-01-2024", "05-01-2024", true},
		{"05-01-2024 г.", "05-01-2024", true},
		{"05-01-2024 г.", "05-01-2024", true},
		{"15 август 2024", "15-08-2024", true},
		{"15 August 2024", "15-08-2024", true},
		{"15 АВГУСТ 2024", "15-08-2024", true},
		{"1 may 24", "01-05-2024", true},
		{"", "", false},
		{"not a date", "", false},
		{"32-01-2024", "", false},
		{"31 април 2024", "", false},
		{"2024", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseDateToEpoch(tc.in, loc)
		if ok != tc.ok {
			t.Fatalf("%q: ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if !tc.ok {
			continue
		}
		rendered := FormatDate(time.Unix(got, 0).In(loc))
		if rendered != tc.want {
			t.Fatalf("%q: got %s, want %s", tc.in, rendered, tc.want)
		}
	}
}

func TestParseDateToEpochSerial(t *testing.T) {
	loc := sofia(t)
	cases := []struct {
		in   any
		want string
	}{
		{float64(2), "01-01-1900"},
		{float64(45292), "01-01-2024"},
		{45292, "01-01-2024"},
	}
	for _, tc := range cases {
		got, ok := ParseDateToEpoch(tc.in, loc)
		if !ok {
			t.Fatalf("%v: expected ok", tc.in)
		}
		rendered := FormatDate(time.Unix(got, 0).In(loc))
		if rendered != tc.want {
			t.Fatalf("%v: got %s, want %s", tc.in, rendered, tc.want)
		}
	}
}

func TestParseDateToEpochLocalMidnight(t *testing.T) {
	loc := sofia(t)
	epoch, ok := ParseDateToEpoch("05-01-2024", loc)
	if !ok {
		t.Fatalf("expected ok")
	}
	d := time.Unix(epoch, 0).In(loc)
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
		t.Fatalf("expected local midnight, got %v", d)
	}
}

func TestDateRoundTrip(t *testing.T) {
	loc := sofia(t)
	for _, in := range []string{"01-01-2024", "29-02-2024", "31-12-1999"} {
		epoch, ok := ParseDateToEpoch(in, loc)
		if !ok {
			t.Fatalf("%q: expected ok", in)
		}
		if got := FormatDate(time.Unix(epoch, 0).In(loc)); got != in {
			t.Fatalf("round trip %q -> %q", in, got)
		}
	}
}

func TestNilCellIsUnparseable(t *testing.T) {
	if _, ok := ParseDateToEpoch(nil, time.UTC); ok {
		t.Fatalf("nil cell should be unparseable")
	}
}
