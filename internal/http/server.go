// Package http is the JSON API surface: routing, authentication, request
// validation and response shaping over the table accessor and query engine.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CoatingCompany/vending-api/internal/amqp"
	"github.com/CoatingCompany/vending-api/internal/config"
	"github.com/CoatingCompany/vending-api/internal/core"
	"github.com/CoatingCompany/vending-api/internal/storage"
	"github.com/CoatingCompany/vending-api/internal/table"
)

type Server struct {
	http.Server

	cfg    *config.Config
	acc    *table.Accessor
	cols   core.Columns
	loc    *time.Location
	audit  *storage.AuditLog // optional
	events *amqp.Publisher   // optional
}

// NewServer wires routes and middleware. audit and events may be nil.
func NewServer(addr string, cfg *config.Config, acc *table.Accessor, loc *time.Location, audit *storage.AuditLog, events *amqp.Publisher) *Server {
	s := &Server{
		cfg:    cfg,
		acc:    acc,
		cols:   cfg.Columns(),
		loc:    loc,
		audit:  audit,
		events: events,
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(corsHandler)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/append", s.handleAppend)
		r.Get("/last-product", s.handleLastProduct)
		r.Post("/search", s.handleSearch)
		r.Post("/update-row", s.handleUpdateRow)
		r.Post("/delete-row", s.handleDeleteRow)
		r.Get("/sum-revenue", s.handleSumRevenue)
	})

	s.Server = http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// requireAPIKey gates every data route behind the shared secret. A server
// without a configured secret is misconfigured, not open.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey == "" {
			writeJSON(w, http.StatusInternalServerError, errorBody("server missing API key"))
			return
		}
		if r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid API key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags each request with an ID and logs start and completion
// with timing and status.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := r.Context()

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path)

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}
