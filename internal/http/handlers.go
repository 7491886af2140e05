package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CoatingCompany/vending-api/internal/amqp"
	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/query"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"timezone":    s.cfg.Timezone,
		"date_format": "DD-MM-YYYY",
		"columns":     s.cols.Labels(),
	})
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	req.mergeLegacy()

	if strings.TrimSpace(req.Location) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("location is required"))
		return
	}
	items := req.itemsCell()
	if items == "" {
		writeError(ctx, w, core.ErrEmptyItems)
		return
	}

	ts := strings.TrimSpace(req.Timestamp)
	if ts == "" {
		ts = core.Today(s.loc)
	} else {
		epoch, ok := core.ParseDateToEpoch(ts, s.loc)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: %q", core.ErrInvalidDate, ts))
			return
		}
		ts = core.FormatDate(time.Unix(epoch, 0).In(s.loc))
	}

	revenue, _, err := parseRevenueInput(req.Revenue, s.cfg.StrictInput)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rec := core.Record{
		Timestamp: ts,
		Location:  strings.TrimSpace(req.Location),
		Items:     items,
		Note:      strings.TrimSpace(req.Note),
		Revenue:   revenue,
	}
	if err := s.acc.Append(ctx, rec); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.recordMutation(ctx, "append", 0, rec)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "row": recordJSON(rec)})
}

func (s *Server) handleLastProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("location query parameter is required"))
		return
	}

	tab, err := s.acc.Fetch(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if tab.RowCount() < 2 {
		writeJSON(w, http.StatusNotFound, errorBody("no data"))
		return
	}
	if err := tab.RequireHeader(); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, ok := query.Latest(tab, location)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("no rows for location %q", location)))
		return
	}
	resp := recordJSON(rec)
	resp["last_product"] = rec.LastProduct()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	tab, err := s.acc.Fetch(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows := []map[string]any{}
	if tab.RowCount() >= 2 {
		if err := tab.RequireHeader(); err != nil {
			writeError(ctx, w, err)
			return
		}
		f := query.Filters{
			Location: req.Location,
			Item:     req.Product,
			Since:    toEpochBound(req.SinceTS),
			Until:    toEpochBound(req.UntilTS),
			Limit:    req.Limit,
		}
		for _, rec := range query.Search(tab, f) {
			rows = append(rows, recordJSON(rec))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	req.mergeLegacy()

	tab, err := s.acc.Fetch(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := tab.RequireHeader(); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, err := tab.Record(req.RowNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// Partial patch: only provided fields change.
	if req.Location != nil {
		rec.Location = strings.TrimSpace(*req.Location)
	}
	if req.Items != nil {
		rec.Items = core.JoinItems(*req.Items)
		if rec.Items == "" {
			writeError(ctx, w, core.ErrEmptyItems)
			return
		}
	}
	if req.Note != nil {
		rec.Note = strings.TrimSpace(*req.Note)
	}
	if req.Timestamp != nil {
		epoch, ok := core.ParseDateToEpoch(strings.TrimSpace(*req.Timestamp), s.loc)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: %q", core.ErrInvalidDate, *req.Timestamp))
			return
		}
		rec.Timestamp = core.FormatDate(time.Unix(epoch, 0).In(s.loc))
	}
	if req.Revenue != nil {
		revenue, _, rerr := parseRevenueInput(req.Revenue, s.cfg.StrictInput)
		if rerr != nil {
			writeError(ctx, w, rerr)
			return
		}
		rec.Revenue = revenue
	}

	updated, err := s.acc.WriteRow(ctx, tab, req.RowNumber, rec)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	s.recordMutation(ctx, "update", req.RowNumber, updated)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "row": recordJSON(updated)})
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	tab, err := s.acc.Fetch(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.acc.DeleteRow(ctx, tab, req.RowNumber); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.recordMutation(ctx, "delete", req.RowNumber, nil)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSumRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	f := query.Filters{Location: strings.TrimSpace(q.Get("location"))}
	for _, bound := range []struct {
		name string
		dst  **int64
	}{
		{"since_ts", &f.Since},
		{"until_ts", &f.Until},
	} {
		raw := strings.TrimSpace(q.Get(bound.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(bound.name+" must be numeric"))
			return
		}
		epoch := int64(v)
		*bound.dst = &epoch
	}

	tab, err := s.acc.Fetch(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var total int64
	var count int
	if tab.RowCount() >= 2 {
		if err := tab.RequireHeader(); err != nil {
			writeError(ctx, w, err)
			return
		}
		total, count = query.SumRevenue(tab, f)
	}
	writeJSON(w, http.StatusOK, map[string]any{"total_revenue": total, "rows": count})
}

func toEpochBound(ts *float64) *int64 {
	if ts == nil {
		return nil
	}
	epoch := int64(*ts)
	return &epoch
}

// recordMutation feeds the audit log and the event exchange. Both are
// best-effort: the sheet write already succeeded.
func (s *Server) recordMutation(ctx context.Context, op string, rowNumber int, rec any) {
	if s.audit != nil {
		if err := s.audit.Record(ctx, op, rowNumber, rec); err != nil {
			slog.ErrorContext(ctx, "Audit write failed", "error", err, "op", op)
		}
	}
	if s.events != nil {
		location := ""
		if r, ok := rec.(core.Record); ok {
			location = r.Location
		}
		if err := s.events.PublishRowEvent(ctx, amqp.NewRowEvent(op, rowNumber, location)); err != nil {
			slog.ErrorContext(ctx, "Row event publish failed", "error", err, "op", op)
		}
	}
}
