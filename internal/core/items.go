package core

import "strings"

// JoinItems normalizes an item list into the stored comma-joined form.
// Elements are trimmed and empties dropped; order is preserved.
func JoinItems(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		kept = append(kept, it)
	}
	return strings.Join(kept, ", ")
}

// SplitItems is the canonical tokenizer for a stored items cell: split on
// commas, trim each piece, drop empties.
func SplitItems(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HasToken reports whether token matches one of the cell's items,
// case-insensitively.
func HasToken(cell, token string) bool {
	token = strings.TrimSpace(token)
	for _, t := range SplitItems(cell) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// LastToken returns the final item of the cell, or "" when there is none.
func LastToken(cell string) string {
	tokens := SplitItems(cell)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
