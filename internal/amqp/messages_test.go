package amqp

import (
	"testing"
	"time"
)

func TestRowEventJSON(t *testing.T) {
	ev := NewRowEvent("update", 4, "Sofia")
	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := RowEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != "update" || got.RowNumber != 4 || got.Location != "Sofia" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", got.Timestamp)
	}
}

func TestRowEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RowEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
