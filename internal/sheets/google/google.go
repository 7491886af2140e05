// Package google implements the sheets backend against the Google Sheets
// API v4 using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/CoatingCompany/vending-api/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Options struct {
	SpreadsheetID string
	Tab           string
	ColumnCount   int
	// Credentials: inline JSON wins over a file path; with neither set the
	// GOOGLE_APPLICATION_CREDENTIALS path is used.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	tab           string
	endCol        string

	// Tab identifier resolved once per process and reused; the tab is
	// assumed to never be renamed or recreated while we run.
	mu           sync.Mutex
	sheetID      int64
	sheetIDKnown bool
}

var _ sheets.Backend = (*Client)(nil)

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(opts.Tab) == "" {
		return nil, errors.New("missing tab name")
	}
	if opts.ColumnCount < 1 || opts.ColumnCount > 26 {
		return nil, fmt.Errorf("unsupported column count %d", opts.ColumnCount)
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		tab:           opts.Tab,
		endCol:        string(rune('A' + opts.ColumnCount - 1)),
	}, nil
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(opts.CredentialsJSON)
	credentialsFile := strings.TrimSpace(opts.CredentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	switch {
	case credentialsJSON != "":
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("missing service account credentials (set SERVICE_ACCOUNT_JSON, SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(raw),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// dataRange covers exactly the configured columns, all rows.
func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:%s", c.tab, c.endCol)
}

func (c *Client) rowRange(rowNumber int) string {
	return fmt.Sprintf("%s!A%d:%s%d", c.tab, rowNumber, c.endCol, rowNumber)
}

func (c *Client) ReadAll(ctx context.Context) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, &sheets.BackendError{Op: "read", Err: err}
	}
	return resp.Values, nil
}

func (c *Client) Append(ctx context.Context, row []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.dataRange(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return &sheets.BackendError{Op: "append", Err: err}
	}
	return nil
}

func (c *Client) WriteRow(ctx context.Context, rowNumber int, row []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.rowRange(rowNumber), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return &sheets.BackendError{Op: "update", Err: err}
	}
	return nil
}

func (c *Client) ReadRow(ctx context.Context, rowNumber int) ([]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rowRange(rowNumber)).Context(ctx).Do()
	if err != nil {
		return nil, &sheets.BackendError{Op: "read row", Err: err}
	}
	if len(resp.Values) == 0 {
		return []any{}, nil
	}
	return resp.Values[0], nil
}

func (c *Client) DeleteRow(ctx context.Context, rowNumber int) error {
	sheetID, err := c.lookupSheetID(ctx)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNumber - 1),
					EndIndex:   int64(rowNumber),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &sheets.BackendError{Op: "delete row", Err: err}
	}
	return nil
}

// lookupSheetID resolves the numeric identifier of the configured tab,
// memoized for the process lifetime.
func (c *Client) lookupSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheetIDKnown {
		return c.sheetID, nil
	}

	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, &sheets.BackendError{Op: "lookup sheet id", Err: err}
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.tab {
			c.sheetID = sh.Properties.SheetId
			c.sheetIDKnown = true
			slog.InfoContext(ctx, "Resolved sheet id", "tab", c.tab, "sheet_id", c.sheetID)
			return c.sheetID, nil
		}
	}
	return 0, &sheets.BackendError{Op: "lookup sheet id", Err: fmt.Errorf("tab %q not found", c.tab)}
}
