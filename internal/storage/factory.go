package storage

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/surveylens/surveylens/internal/storage/clickhouse"
	"github.com/surveylens/surveylens/internal/storage/memory"
	"github.com/surveylens/surveylens/internal/storage/sqlite"
)

// Config selects and parameterizes the result cache backend.
type Config struct {
	// Backend is one of "memory", "sqlite", or "clickhouse".
	Backend string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// ClickHouseAddr is the native-protocol address for the archive backend.
	ClickHouseAddr string
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Backend:        "memory",
		SQLitePath:     "surveylens.db",
		ClickHouseAddr: "localhost:9000",
	}
}

// New creates a result store from configuration.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "memory":
		log.Println("Using in-memory result cache")
		return memory.New(), nil

	case "sqlite":
		log.Printf("Using SQLite result cache: %s", cfg.SQLitePath)
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("creating SQLite store: %w", err)
		}
		return store, nil

	case "clickhouse":
		log.Printf("Using ClickHouse result archive: %s", cfg.ClickHouseAddr)
		chCfg := clickhouse.DefaultConfig()
		chCfg.Addr = cfg.ClickHouseAddr

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		store, err := clickhouse.NewStore(ctx, chCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("creating ClickHouse store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: memory, sqlite, clickhouse)", cfg.Backend)
	}
}
