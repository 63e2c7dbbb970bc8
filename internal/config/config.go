// Package config loads application settings from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: "sqlite" (embedded) or "postgres" (client/server)
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Postgres
	PostgresDSN string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	// AMQP (mail/export job queue; optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// SMTP (worker)
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string

	// Google Sheets export (worker; optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker maintenance schedules (cron specs)
	OTPPurgeSchedule string
	SnapshotSchedule string

	// CORS
	AllowedOrigins []string

	// Trust X-Forwarded-For / X-Real-IP for client addresses. Enable
	// only behind a proxy that sets them; otherwise the per-IP rate
	// limiter keys on spoofable headers.
	TrustProxyHeaders bool
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8000"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		PostgresDSN:  getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),
		OTPTTL:    getEnvDuration("OTP_TTL", 10*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mail_jobs"),

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SenderEmail: getEnv("SENDER_EMAIL", "no-reply@fintrack.local"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Reports"),

		OTPPurgeSchedule: getEnv("OTP_PURGE_SCHEDULE", "@hourly"),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "@monthly"),

		AllowedOrigins: splitComma(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
	return cfg
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, "DATABASE_URL is required when using postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite postgres]", c.DataBackend))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "token TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		errs = append(errs, "OTP TTL must be positive")
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
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
