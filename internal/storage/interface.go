// Package storage defines the result cache used by the API layer. Every
// pipeline stage is deterministic, so a response can be stored under its
// request fingerprint and replayed verbatim. Implementations must be safe
// for concurrent use.
package storage

import (
	"context"

	"github.com/surveylens/surveylens/pkg/models"
)

// Store caches computed engine responses keyed by request fingerprint.
type Store interface {
	// Get returns the cached result for a fingerprint, or a
	// models.ErrNotFound-wrapped error on a miss.
	Get(ctx context.Context, fingerprint string) (*models.CachedResult, error)

	// Put stores a computed result. Storing the same fingerprint again
	// replaces the previous entry.
	Put(ctx context.Context, result *models.CachedResult) error

	// Clear drops all cached results.
	Clear(ctx context.Context) error

	// Close releases backend resources (DB connections).
	Close() error
}
