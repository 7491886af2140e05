package amqp

import (
	"encoding/json"
	"time"
)

// RowEvent announces a successful mutation of the sheet. Consumers get the
// operation and enough context to re-query; the row itself is not carried
// because row numbers drift after deletes.
type RowEvent struct {
	Op        string    `json:"op"` // append, update, delete
	RowNumber int       `json:"row_number,omitempty"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRowEvent(op string, rowNumber int, location string) *RowEvent {
	return &RowEvent{
		Op:        op,
		RowNumber: rowNumber,
		Location:  location,
		Timestamp: time.Now(),
	}
}

func (e *RowEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RowEventFromJSON(data []byte) (*RowEvent, error) {
	var ev RowEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
