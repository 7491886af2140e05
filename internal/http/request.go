package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/CoatingCompany/vending-api/internal/core"
)

// StringList accepts either a JSON string or an array of strings. Callers
// only ever see the list form; the union is resolved here, once, at the
// input boundary.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*l = nil
		return nil
	}
	*l = []string{s}
	return nil
}

type appendRequest struct {
	Location  string          `json:"location"`
	Items     *StringList     `json:"items"`
	Product   *StringList     `json:"product"`
	Products  *StringList     `json:"products"`
	Note      string          `json:"note"`
	Notes     string          `json:"notes"`
	Revenue   json.RawMessage `json:"revenue"`
	Timestamp string          `json:"timestamp"`
}

// mergeLegacy adopts the legacy product/products and notes fields when the
// canonical ones are absent. Runs once before validation and is idempotent.
func (r *appendRequest) mergeLegacy() {
	if r.Items == nil {
		if r.Product != nil {
			r.Items = r.Product
		} else if r.Products != nil {
			r.Items = r.Products
		}
	}
	if r.Note == "" && r.Notes != "" {
		r.Note = r.Notes
	}
}

func (r *appendRequest) itemsCell() string {
	if r.Items == nil {
		return ""
	}
	return core.JoinItems(*r.Items)
}

type updateRequest struct {
	RowNumber int             `json:"row_number"`
	Location  *string         `json:"location"`
	Items     *StringList     `json:"items"`
	Product   *StringList     `json:"product"`
	Products  *StringList     `json:"products"`
	Note      *string         `json:"note"`
	Notes     *string         `json:"notes"`
	Revenue   json.RawMessage `json:"revenue"`
	Timestamp *string         `json:"timestamp"`
}

func (r *updateRequest) mergeLegacy() {
	if r.Items == nil {
		if r.Product != nil {
			r.Items = r.Product
		} else if r.Products != nil {
			r.Items = r.Products
		}
	}
	if r.Note == nil && r.Notes != nil {
		r.Note = r.Notes
	}
}

type searchRequest struct {
	Location string   `json:"location"`
	Product  string   `json:"product"`
	SinceTS  *float64 `json:"since_ts"`
	UntilTS  *float64 `json:"until_ts"`
	Limit    int      `json:"limit"`
}

type deleteRequest struct {
	RowNumber int `json:"row_number"`
}

// parseRevenueInput normalizes a revenue field that may arrive as a JSON
// number, a string, or null. The returned present flag is false only for
// absent/null/blank input. Strict mode rejects anything that is not a whole
// number; loose mode extracts what it can.
func parseRevenueInput(raw json.RawMessage, strict bool) (value string, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}

	if raw[0] == '"' {
		var s string
		if jerr := json.Unmarshal(raw, &s); jerr != nil {
			return "", false, core.ErrInvalidRevenue
		}
		if strings.TrimSpace(s) == "" {
			return "", false, nil
		}
		if strict {
			v, ok, verr := core.ParseIntStrict(s)
			if verr != nil {
				return "", false, verr
			}
			if !ok {
				return "", false, nil
			}
			return strconv.FormatInt(v, 10), true, nil
		}
		return strconv.FormatInt(core.ParseIntLoose(s), 10), true, nil
	}

	var n json.Number
	if jerr := json.Unmarshal(raw, &n); jerr != nil {
		return "", false, core.ErrInvalidRevenue
	}
	if v, ierr := n.Int64(); ierr == nil {
		return strconv.FormatInt(v, 10), true, nil
	}
	if strict {
		return "", false, core.ErrInvalidRevenue
	}
	return strconv.FormatInt(core.ParseIntLoose(n.String()), 10), true, nil
}
