package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestAuditRecordAndCount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	a, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.Record(ctx, "append", 0, map[string]string{"location": "Sofia"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := a.Record(ctx, "delete", 3, nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	total, err := a.Count(ctx, "")
	if err != nil || total != 2 {
		t.Fatalf("count: %d err=%v", total, err)
	}
	appends, err := a.Count(ctx, "append")
	if err != nil || appends != 1 {
		t.Fatalf("count append: %d err=%v", appends, err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	for i := 0; i < 2; i++ {
		a, err := Open(dbPath)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		a.Close()
	}
}
