// Package genstore tracks per-slot generations.
//
// A slot's generation is bumped every time its lifecycle changes (open,
// update, close). Stored slot records carry the generation they were written
// at, so a record whose generation no longer matches is stale and dropped.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where slot generations live.
// Use Local (default) for a single process, or Redis to share slots across
// processes.
type GenStore interface {
	// Current returns the slot's generation; unknown slots report 0.
	Current(ctx context.Context, slotKey string) (uint64, error)
	// CurrentMany returns generations for many slots; unknown slots report 0.
	CurrentMany(ctx context.Context, slotKeys []string) (map[string]uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, slotKey string) (uint64, error)
	// Prune drops metadata for slots idle longer than retention (no-op for Redis).
	Prune(retention time.Duration)
	Close(context.Context) error
}
