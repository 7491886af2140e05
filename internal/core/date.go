package core

import (
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical rendering of a record date (DD-MM-YYYY).
const DateFormat = "02-01-2006"

// serialEpoch is the spreadsheet date epoch: serial 0 is 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order. Four-digit years come first so that a
// value like "01-01-2024" is never read through a two-digit-year layout.
// The non-padded day/month fields accept one or two digits, so "5-1-2024"
// and "05-01-2024" both parse.
var dateLayouts = []string{
	"2-1-2006",
	"2.1.2006",
	"2/1/2006",
	"2006-1-2",
	"2-1-06",
	"2.1.06",
	"2/1/06",
}

// monthNames maps lowercase English and Bulgarian month names.
var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,

	"януари": time.January, "февруари": time.February, "март": time.March,
	"април": time.April, "май": time.May, "юни": time.June,
	"юли": time.July, "август": time.August, "септември": time.September,
	"октомври": time.October, "ноември": time.November, "декември": time.December,
}

var spaceNormalizer = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // thin space
	" ", " ", // narrow no-break space
)

// ParseDateToEpoch converts a raw sheet cell into local-midnight epoch
// seconds. Numeric cells are treated as spreadsheet date serials; strings go
// through the layout chain, separator normalization and the bilingual
// month-name table. The second return is false when nothing matched —
// unparseable dates are a sentinel, never an error.
func ParseDateToEpoch(cell any, loc *time.Location) (int64, bool) {
	switch v := cell.(type) {
	case float64:
		return serialToEpoch(int(v), loc), true
	case int:
		return serialToEpoch(v, loc), true
	case int64:
		return serialToEpoch(int(v), loc), true
	case string:
		return parseDateString(v, loc)
	}
	return 0, false
}

func serialToEpoch(serial int, loc *time.Location) int64 {
	d := serialEpoch.AddDate(0, 0, serial)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).Unix()
}

func parseDateString(s string, loc *time.Location) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "'") // Sheets "treat as text" hint
	s = spaceNormalizer.Replace(s)
	s = stripYearSuffix(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Unix(), true
		}
	}
	// Mixed separators: normalize everything to dashes and retry as DD-MM-YYYY.
	mixed := strings.NewReplacer(".", "-", "/", "-").Replace(s)
	if mixed != s {
		for _, layout := range []string{"2-1-2006", "2-1-06"} {
			if t, err := time.ParseInLocation(layout, mixed, loc); err == nil {
				return t.Unix(), true
			}
		}
	}
	return parseMonthNameDate(s, loc)
}

// stripYearSuffix drops a trailing Bulgarian year marker ("15 май 2024 г.").
func stripYearSuffix(s string) string {
	for _, suffix := range []string{"г.", "г"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}

// parseMonthNameDate handles "<day> <month-name> <year>".
func parseMonthNameDate(s string, loc *time.Location) (int64, bool) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return 0, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	month, ok := monthNames[strings.ToLower(fields[1])]
	if !ok {
		return 0, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil || year < 0 {
		return 0, false
	}
	if year < 100 {
		year += 2000
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		// Date normalized away (e.g. 31 April), treat as unparseable.
		return 0, false
	}
	return t.Unix(), true
}

// FormatDate renders a time in the canonical DD-MM-YYYY form.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Today returns the current date in loc, canonically formatted.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateFormat)
}
