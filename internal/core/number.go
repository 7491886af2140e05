package core

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	looseIntRe  = regexp.MustCompile(`-?\d+`)
	strictIntRe = regexp.MustCompile(`^-?\d+$`)
)

var groupingStripper = strings.NewReplacer(
	",", "",
	" ", "",
	" ", "",
	" ", "",
	" ", "",
)

// ParseIntLoose extracts an integer from a noisy sheet cell. Grouping
// separators and currency annotations are tolerated ("1 200", "лв 120").
// It never fails: anything without a digit run is 0.
func ParseIntLoose(cell any) int64 {
	switch v := cell.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		cleaned := groupingStripper.Replace(v)
		match := looseIntRe.FindString(cleaned)
		if match == "" {
			match = looseIntRe.FindString(v)
		}
		if match == "" {
			return 0
		}
		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// ParseIntStrict validates direct user input. Empty input is allowed and
// reported via present=false; anything else must be a well-formed integer.
func ParseIntStrict(s string) (value int64, present bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if !strictIntRe.MatchString(s) {
		return 0, false, ErrInvalidRevenue
	}
	n, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		return 0, false, ErrInvalidRevenue
	}
	return n, true, nil
}
