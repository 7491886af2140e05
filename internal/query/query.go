// Package query filters, aggregates and selects over decoded sheet rows.
package query

import (
	"strings"

	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/table"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Filters are combined with AND; zero values mean "no constraint". Since
// and Until are inclusive epoch-second bounds.
type Filters struct {
	Location string
	Item     string
	Since    *int64
	Until    *int64
	Limit    int
}

// matches applies all provided predicates. A row with an unparseable date
// is excluded only when a date bound is present.
func matches(rec core.Record, f Filters) bool {
	if f.Location != "" && !strings.EqualFold(strings.TrimSpace(rec.Location), strings.TrimSpace(f.Location)) {
		return false
	}
	if f.Item != "" && !core.HasToken(rec.Items, f.Item) {
		return false
	}
	if f.Since != nil || f.Until != nil {
		if !rec.DateOK {
			return false
		}
		if f.Since != nil && rec.Epoch < *f.Since {
			return false
		}
		if f.Until != nil && rec.Epoch > *f.Until {
			return false
		}
	}
	return true
}

// Search scans data rows in physical order and returns the first matches up
// to the limit.
func Search(t *table.Table, f Filters) []core.Record {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	var out []core.Record
	for _, rec := range t.Records() {
		if !matches(rec, f) {
			continue
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Latest returns the record for a location with the maximum parsed date.
// Date ties and undated candidates resolve to the later physical row, so a
// sheet full of hand-typed, malformed dates still yields an answer.
func Latest(t *table.Table, location string) (core.Record, bool) {
	var best core.Record
	found := false
	bestDated := false
	for _, rec := range t.Records() {
		if !strings.EqualFold(strings.TrimSpace(rec.Location), strings.TrimSpace(location)) {
			continue
		}
		switch {
		case !found:
			best, found, bestDated = rec, true, rec.DateOK
		case rec.DateOK && (!bestDated || rec.Epoch >= best.Epoch):
			best, bestDated = rec, true
		case !rec.DateOK && !bestDated:
			best = rec
		}
	}
	return best, found
}

// SumRevenue totals the loosely-parsed revenue over all rows matching the
// filters (the limit is ignored). Count covers rows with a non-empty
// revenue cell — noisy cells count with whatever the loose parser extracts,
// possibly 0.
func SumRevenue(t *table.Table, f Filters) (total int64, count int) {
	for _, rec := range t.Records() {
		if !matches(rec, f) {
			continue
		}
		total += rec.RevenueValue()
		if strings.TrimSpace(rec.Revenue) != "" {
			count++
		}
	}
	return total, count
}
