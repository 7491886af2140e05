// Package storage keeps a local SQLite audit trail of mutating API calls.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type AuditLog struct {
	db *sql.DB
}

func Open(dbPath string) (*AuditLog, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &AuditLog{db: db}, nil
}

// Record stores one mutation. The payload is serialized to JSON; a payload
// that cannot be serialized is stored empty rather than failing the audit.
func (a *AuditLog) Record(ctx context.Context, op string, rowNumber int, payload any) error {
	body := ""
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			body = string(b)
		}
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO audit_log (op, row_number, payload) VALUES (?, ?, ?)`,
		op, rowNumber, body)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// Count reports the number of audit entries, optionally for one op.
func (a *AuditLog) Count(ctx context.Context, op string) (int, error) {
	query := `SELECT COUNT(*) FROM audit_log`
	args := []any{}
	if op != "" {
		query += ` WHERE op = ?`
		args = append(args, op)
	}
	var n int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit rows: %w", err)
	}
	return n, nil
}

func (a *AuditLog) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
