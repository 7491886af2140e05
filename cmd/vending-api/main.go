package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/CoatingCompany/vending-api/internal/amqp"
	"github.com/CoatingCompany/vending-api/internal/config"
	"github.com/CoatingCompany/vending-api/internal/core"
	apphttp "github.com/CoatingCompany/vending-api/internal/http"
	"github.com/CoatingCompany/vending-api/internal/sheets"
	gsheet "github.com/CoatingCompany/vending-api/internal/sheets/google"
	mem "github.com/CoatingCompany/vending-api/internal/sheets/memory"
	"github.com/CoatingCompany/vending-api/internal/storage"
	"github.com/CoatingCompany/vending-api/internal/table"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to load timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	cols := cfg.Columns()

	// Choose data backend (default: memory).
	var backend sheets.Backend
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.SpreadsheetID,
			Tab:             cfg.TabName,
			ColumnCount:     5,
			CredentialsJSON: cfg.ServiceAccountJSON,
			CredentialsFile: cfg.ServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		backend = cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet", cfg.SpreadsheetID, "tab", cfg.TabName)
	default:
		backend = mem.New(cols.Labels())
		logger.Info("Initialized memory backend")
	}

	acc := table.New(backend, core.Codec{Cols: cols, Loc: loc})

	var audit *storage.AuditLog
	if cfg.AuditDBPath != "" {
		audit, err = storage.Open(cfg.AuditDBPath)
		if err != nil {
			logger.Error("Failed to open audit log", "error", err, "path", cfg.AuditDBPath)
			os.Exit(1)
		}
		defer audit.Close()
		logger.Info("Audit log enabled", "path", cfg.AuditDBPath)
	}

	var events *amqp.Publisher
	if cfg.AMQPURL != "" {
		events, err = amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("Row event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	srv := apphttp.NewServer(":"+cfg.Port, cfg, acc, loc, audit, events)

	// Graceful shutdown handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting vending-api server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
