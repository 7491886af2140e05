package core

import (
	"errors"
	"strings"
)

// Logical column names, also the default header labels.
const (
	ColTimestamp = "timestamp"
	ColLocation  = "location"
	ColItems     = "items"
	ColNote      = "note"
	ColRevenue   = "revenue"
)

var (
	ErrEmptyItems     = errors.New("items cannot be empty")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidRevenue = errors.New("revenue must be a whole number")
)

// IsValidation reports whether err belongs to the input-validation family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRevenue)
}

// Columns holds the configured header labels, one per logical column. The
// physical order is fixed: timestamp, location, items, note, revenue.
type Columns struct {
	Timestamp string
	Location  string
	Items     string
	Note      string
	Revenue   string
}

// DefaultColumns labels each column with its logical name.
func DefaultColumns() Columns {
	return Columns{
		Timestamp: ColTimestamp,
		Location:  ColLocation,
		Items:     ColItems,
		Note:      ColNote,
		Revenue:   ColRevenue,
	}
}

// Labels returns the labels in physical column order.
func (c Columns) Labels() []string {
	return []string{c.Timestamp, c.Location, c.Items, c.Note, c.Revenue}
}

// NormalizeLabel is how header cells and configured labels are compared.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Record is one logical sheet row.
type Record struct {
	Timestamp string
	Location  string
	Items     string // comma-joined item tokens
	Note      string
	Revenue   string // raw cell text; may carry grouping or currency noise
	RowNumber int    // 1-based physical position, 0 when unknown

	// Derived by the codec from the raw timestamp cell.
	Epoch  int64
	DateOK bool
}

// Validate enforces what a row must satisfy before any write.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Items) == "" {
		return ErrEmptyItems
	}
	return nil
}

// RevenueValue is the loosely-parsed integer revenue; empty or noisy cells
// contribute 0.
func (r Record) RevenueValue() int64 {
	return ParseIntLoose(r.Revenue)
}

// Products returns the decoded item tokens.
func (r Record) Products() []string {
	return SplitItems(r.Items)
}

// LastProduct returns the final item token, the headline of a latest-record
// lookup.
func (r Record) LastProduct() string {
	return LastToken(r.Items)
}
