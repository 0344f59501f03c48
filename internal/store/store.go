// Package store persists per-player records as opaque JSON values.
//
// A record is addressed by (player, key). The game keeps two keys per player:
// KeyDaily for today's progress and KeyStats for lifetime statistics. Writes
// are whole-record overwrites; the last writer wins.
package store

import (
	"context"
	"errors"
)

// Record keys.
const (
	KeyDaily = "daily"
	KeyStats = "stats"
)

// ErrNotFound is returned by Get when no record exists.
var ErrNotFound = errors.New("store: record not found")

// Store defines the persistence interface for player records.
// Implementations may be backed by memory, SQLite or JSON files.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, player, key string) ([]byte, error)

	// Put creates or replaces a value.
	Put(ctx context.Context, player, key string, value []byte) error

	// Delete removes a value. Deleting a missing record is not an error.
	Delete(ctx context.Context, player, key string) error
}
