package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CoatingCompany/vending-api/internal/core"
)

type Config struct {
	// HTTP Server
	Port   string
	APIKey string

	// Google Sheets
	SpreadsheetID      string
	TabName            string
	ServiceAccountFile string
	ServiceAccountJSON string

	// Row semantics
	Timezone     string
	ColumnLabels []string // five labels: timestamp, location, items, note, revenue
	StrictInput  bool

	// Backend selection
	DataBackend string

	// Audit log (disabled when empty)
	AuditDBPath string

	// AMQP row events (disabled when empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		APIKey: getEnv("API_KEY", ""),

		SpreadsheetID:      getEnv("SHEET_ID", ""),
		TabName:            getEnv("TAB_NAME", "Data"),
		ServiceAccountFile: getEnv("SERVICE_ACCOUNT_FILE", ""),
		ServiceAccountJSON: getEnv("SERVICE_ACCOUNT_JSON", ""),

		Timezone:     getEnv("TIMEZONE", "Europe/Sofia"),
		ColumnLabels: splitLabels(getEnv("COLUMN_LABELS", "timestamp,location,items,note,revenue")),
		StrictInput:  getEnvBool("STRICT_INPUT", true),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		AuditDBPath: getEnv("AUDIT_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "vending"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "row_events"),
	}
}

// Validate checks the configuration and aggregates every problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(c.ColumnLabels) != 5 {
		errs = append(errs, fmt.Sprintf("COLUMN_LABELS must hold exactly 5 labels, got %d", len(c.ColumnLabels)))
	} else {
		for i, l := range c.ColumnLabels {
			if strings.TrimSpace(l) == "" {
				errs = append(errs, fmt.Sprintf("COLUMN_LABELS entry %d is empty", i+1))
			}
		}
	}

	switch c.DataBackend {
	case "memory":
	case "sheets":
		if c.SpreadsheetID == "" {
			errs = append(errs, "SHEET_ID is required when using the sheets backend")
		}
		if c.TabName == "" {
			errs = append(errs, "TAB_NAME cannot be empty when using the sheets backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sheets]", c.DataBackend))
	}

	if c.ServiceAccountFile != "" {
		if _, err := os.Stat(c.ServiceAccountFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("service account file does not exist: %s", c.ServiceAccountFile))
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Columns maps the configured labels onto the fixed logical order.
func (c *Config) Columns() core.Columns {
	if len(c.ColumnLabels) != 5 {
		return core.DefaultColumns()
	}
	return core.Columns{
		Timestamp: c.ColumnLabels[0],
		Location:  c.ColumnLabels[1],
		Items:     c.ColumnLabels[2],
		Note:      c.ColumnLabels[3],
		Revenue:   c.ColumnLabels[4],
	}
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
