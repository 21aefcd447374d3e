// Package cache implements the tiered cache that shields the external data
// sources. Tiers are ordered fastest to slowest and composed into a Chain
// with a single lookup/populate contract; tier failures are absorbed, never
// surfaced.
package cache

import (
	"context"
	"time"
)

// Entry is a cached payload with its lifetime. The entry's own expiry is
// authoritative regardless of which tier stores it.
type Entry struct {
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Remaining returns the entry's remaining lifetime, or zero when expired.
func (e Entry) Remaining(now time.Time) time.Duration {
	if e.Expired(now) {
		return 0
	}
	return e.ExpiresAt.Sub(now)
}

// Tier is one layer of the cache chain. Implementations must treat expired
// entries as absent and are permitted to evict them lazily. Capacity and
// eviction policy are private to the tier.
type Tier interface {
	Name() string
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
}
