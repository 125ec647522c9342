package store

import (
	"context"
	"encoding/json"
)

// Adapter defines the interface for snapshot persistence backends.
// Keys are thread IDs; values are JSON-encoded thread records.
// Implementations must be thread-safe.
type Adapter interface {
	// Get retrieves a snapshot by thread ID. Returns nil, false, nil if not found.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stores a snapshot, replacing any previous one.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a snapshot. No error if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Keys returns the IDs of all persisted threads.
	Keys(ctx context.Context) ([]string, error)
}
