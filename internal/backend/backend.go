// Package backend selects and constructs the persistence backend. The rest
// of the application only ever sees core.Store; whether it is the embedded
// SQLite file or a Postgres server is decided here, once, from config.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/postgres"
)

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

type (
	// Type names a persistence backend.
	Type string

	// CleanupFunc releases backend resources.
	CleanupFunc func() error

	// Result is the constructed store plus its cleanup function.
	Result struct {
		Store   core.Store
		Cleanup CleanupFunc
	}
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	return t == SQLiteBackend || t == PostgresBackend
}

// Open constructs the backend named by cfg.DataBackend.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch Type(cfg.DataBackend) {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case PostgresBackend:
		store, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("Initialized Postgres backend")
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}
}
