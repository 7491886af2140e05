package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/sheets"
	"github.com/CoatingCompany/vending-api/internal/table"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// writeError maps the error taxonomy onto status codes: validation 422,
// missing row 404, schema problems 500, backend failures 502 with the
// underlying cause in the message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var be *sheets.BackendError
	switch {
	case errors.Is(err, table.ErrRowNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case core.IsValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, table.ErrSchemaMismatch):
		slog.ErrorContext(ctx, "Sheet schema mismatch", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	case errors.As(err, &be):
		slog.ErrorContext(ctx, "Backend call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		slog.ErrorContext(ctx, "Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// recordJSON shapes a record for responses, carrying both the native cell
// values and the derived aliases.
func recordJSON(rec core.Record) map[string]any {
	products := rec.Products()
	if products == nil {
		products = []string{}
	}
	out := map[string]any{
		"timestamp":     rec.Timestamp,
		"location":      rec.Location,
		"items":         rec.Items,
		"products":      products,
		"note":          rec.Note,
		"revenue":       rec.Revenue,
		"revenue_value": rec.RevenueValue(),
	}
	if rec.RowNumber > 0 {
		out["row_number"] = rec.RowNumber
	}
	return out
}
