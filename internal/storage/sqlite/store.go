// Package sqlite provides a SQLite-backed result cache that survives
// restarts, useful for the large survey file where first-time computations
// are noticeably slower than a lookup.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/surveylens/surveylens/pkg/models"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// groupsSep joins grouping dimensions into the single stored column.
const groupsSep = ";"

// Store is a SQLite-backed result cache.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get retrieves a cached result by fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*models.CachedResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, category, metric, groups, threshold, payload, computed_at
		FROM results
		WHERE fingerprint = ?
	`, fingerprint)

	var res models.CachedResult
	var groups string
	err := row.Scan(&res.Fingerprint, &res.Category, &res.Metric, &groups, &res.Threshold, &res.Payload, &res.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", fingerprint, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying result: %w", err)
	}
	if groups != "" {
		res.Groups = strings.Split(groups, groupsSep)
	}
	return &res, nil
}

// Put stores or replaces a cached result.
func (s *Store) Put(ctx context.Context, result *models.CachedResult) error {
	if result == nil || result.Fingerprint == "" {
		return errors.New("result must have a fingerprint")
	}
	computedAt := result.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (fingerprint, category, metric, groups, threshold, payload, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			category = excluded.category,
			metric = excluded.metric,
			groups = excluded.groups,
			threshold = excluded.threshold,
			payload = excluded.payload,
			computed_at = excluded.computed_at
	`, result.Fingerprint, result.Category, string(result.Metric),
		strings.Join(result.Groups, groupsSep), result.Threshold, result.Payload, computedAt)
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

// Clear drops every cached result.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM results"); err != nil {
		return fmt.Errorf("clearing results: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
