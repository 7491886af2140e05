package core

import (
	"fmt"
	"strings"
	"time"
)

// Codec maps between raw sheet rows and Records for one configured header
// label set and timezone.
type Codec struct {
	Cols Columns
	Loc  *time.Location
}

// BuildHeaderIndex maps normalized header labels to their physical column
// index. The first occurrence of a label wins.
func BuildHeaderIndex(headerRow []any) map[string]int {
	idx := make(map[string]int, len(headerRow))
	for i, cell := range headerRow {
		label := NormalizeLabel(cellString(cell))
		if label == "" {
			continue
		}
		if _, seen := idx[label]; !seen {
			idx[label] = i
		}
	}
	return idx
}

// Decode reads one raw row into a Record using the header index. Cells
// beyond the row's length read as empty — trailing blanks come back short
// from the backend. The timestamp is parsed from the raw cell so numeric
// date serials survive.
func (c Codec) Decode(row []any, header map[string]int, rowNumber int) Record {
	cellAt := func(label string) any {
		i, ok := header[NormalizeLabel(label)]
		if !ok || i < 0 || i >= len(row) {
			return nil
		}
		return row[i]
	}
	tsCell := cellAt(c.Cols.Timestamp)
	rec := Record{
		Timestamp: cellString(tsCell),
		Location:  cellString(cellAt(c.Cols.Location)),
		Items:     cellString(cellAt(c.Cols.Items)),
		Note:      cellString(cellAt(c.Cols.Note)),
		Revenue:   cellString(cellAt(c.Cols.Revenue)),
		RowNumber: rowNumber,
	}
	rec.Epoch, rec.DateOK = ParseDateToEpoch(tsCell, c.Loc)
	return rec
}

// Encode emits the row values in the fixed physical column order.
func (c Codec) Encode(r Record) []any {
	return []any{r.Timestamp, r.Location, r.Items, r.Note, r.Revenue}
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}
