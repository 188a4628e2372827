// Package clickhouse provides an append-only archive of computed results.
// Unlike the cache backends it never answers a lookup: every Get reports a
// miss so the engine recomputes, and the archived rows feed offline analysis
// of which metrics people actually look at and what they were worth at the
// time.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/surveylens/surveylens/pkg/models"
)

const (
	defaultDialTimeout = 10 * time.Second
	maxConnectRetries  = 3
)

const resultsDDL = `
CREATE TABLE IF NOT EXISTS surveylens_results (
    id          UUID,
    fingerprint String,
    category    String,
    metric      String,
    groups      String,
    threshold   Float64,
    payload     String,
    computed_at DateTime64(3)
) ENGINE = MergeTree()
ORDER BY (category, metric, computed_at)
`

// Config holds the archive connection parameters.
type Config struct {
	Addr     string
	Database string
	Username string
	Password string
}

// DefaultConfig returns defaults for a local ClickHouse.
func DefaultConfig() Config {
	return Config{
		Addr:     "localhost:9000",
		Database: "default",
		Username: "default",
	}
}

// Store archives computed results in ClickHouse.
type Store struct {
	conn   driver.Conn
	logger *slog.Logger
}

// NewStore connects with retries and ensures the archive table exists.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	opts := &clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:     defaultDialTimeout,
		ConnMaxLifetime: time.Hour,
	}

	var conn driver.Conn
	var err error
	delay := time.Second
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		conn, err = clickhouse.Open(opts)
		if err == nil {
			if err = conn.Ping(ctx); err == nil {
				break
			}
		}
		if attempt == maxConnectRetries {
			return nil, fmt.Errorf("connecting to ClickHouse after %d attempts: %w", maxConnectRetries, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}

	if err := conn.Exec(ctx, resultsDDL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating archive table: %w", err)
	}

	logger.Info("connected to ClickHouse archive", "addr", cfg.Addr, "database", cfg.Database)
	return &Store{conn: conn, logger: logger}, nil
}

// Get always misses: the archive is write-only from the cache's point of
// view, so every request recomputes and gets archived again.
func (s *Store) Get(ctx context.Context, fingerprint string) (*models.CachedResult, error) {
	return nil, fmt.Errorf("result %s: %w", fingerprint, models.ErrNotFound)
}

// Put appends the result to the archive.
func (s *Store) Put(ctx context.Context, result *models.CachedResult) error {
	if result == nil || result.Fingerprint == "" {
		return errors.New("result must have a fingerprint")
	}
	computedAt := result.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO surveylens_results")
	if err != nil {
		return fmt.Errorf("preparing archive insert: %w", err)
	}
	err = batch.Append(
		uuid.New(),
		result.Fingerprint,
		result.Category,
		string(result.Metric),
		strings.Join(result.Groups, ";"),
		result.Threshold,
		string(result.Payload),
		computedAt,
	)
	if err != nil {
		return fmt.Errorf("appending archive row: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending archive batch: %w", err)
	}

	s.logger.Debug("archived result", "fingerprint", result.Fingerprint, "category", result.Category, "metric", result.Metric)
	return nil
}

// Clear truncates the archive.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.conn.Exec(ctx, "TRUNCATE TABLE surveylens_results"); err != nil {
		return fmt.Errorf("truncating archive: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
