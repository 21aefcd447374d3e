package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTier is the shared fast tier backed by Redis. The entry envelope is
// stored as JSON and the Redis key TTL mirrors the entry expiry, so stale
// entries age out server-side even though the entry expiry stays
// authoritative.
type RedisTier struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisTier creates a Redis-backed tier.
func NewRedisTier(client redis.UniversalClient) *RedisTier {
	return &RedisTier{client: client, now: time.Now}
}

func (t *RedisTier) Name() string {
	return "redis"
}

func (t *RedisTier) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := t.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Unreadable envelope, drop it and report a miss.
		_ = t.client.Del(ctx, key).Err()
		return Entry{}, false, nil
	}
	if entry.Expired(t.now()) {
		_ = t.client.Del(ctx, key).Err()
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (t *RedisTier) Put(ctx context.Context, key string, entry Entry) error {
	remaining := entry.Remaining(t.now())
	if remaining <= 0 {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := t.client.Set(ctx, key, raw, remaining).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (t *RedisTier) Delete(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
