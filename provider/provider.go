// Package provider defines the byte store the slot store keeps records in.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression), they MUST be fully reversed so that the bytes returned by
// Get are identical to the bytes provided to Set.
//
// Important: the keyspace "slot:<ns>:" is owned by the slot store. External
// code MUST NOT write values under this prefix. Foreign writes are treated as
// corruption by strict record validation and deleted.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use and must be byte-for-byte
// transparent: Get must return exactly the []byte previously passed to Set for
// the same key. Implementations must not prepend/append metadata, transcode, or
// otherwise mutate values.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0 means no expiry). May ignore
	// cost if unsupported. Returns ok=false when the store rejected the write
	// under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Creator is implemented by providers that can store a value only when the
// key is absent, atomically with respect to other writers. The slot store
// opens slots through it so that two processes cannot both open one sender.
type Creator interface {
	// Create stores value unless key already holds one. created=false with a
	// nil error means the key was taken.
	Create(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (created bool, err error)
}
