package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTier(t *testing.T) (*RedisTier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTier(client), mr
}

func TestRedisTier(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		tier, _ := newRedisTier(t)
		tier.now = func() time.Time { return now }

		entry := Entry{
			Payload:   []byte(`[{"crn":"12345"}]`),
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
		require.NoError(t, tier.Put(context.Background(), "courses:202601:CSC", entry))

		got, ok, err := tier.Get(context.Background(), "courses:202601:CSC")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entry.Payload, got.Payload)
		assert.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))
	})

	t.Run("miss for unknown key", func(t *testing.T) {
		tier, _ := newRedisTier(t)
		_, ok, err := tier.Get(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entry expiry is authoritative even if the key survives", func(t *testing.T) {
		tier, mr := newRedisTier(t)
		current := now
		tier.now = func() time.Time { return current }

		require.NoError(t, tier.Put(context.Background(), "professor:jane_doe", Entry{
			Payload:   []byte(`{"avg_rating":4.2}`),
			CreatedAt: now,
			ExpiresAt: now.Add(time.Minute),
		}))
		current = now.Add(2 * time.Minute)

		_, ok, err := tier.Get(context.Background(), "professor:jane_doe")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, mr.Exists("professor:jane_doe"))
	})

	t.Run("corrupt envelope reads as a miss", func(t *testing.T) {
		tier, mr := newRedisTier(t)
		tier.now = func() time.Time { return now }

		require.NoError(t, mr.Set("bad", "not-json"))
		_, ok, err := tier.Get(context.Background(), "bad")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("skips writes for already expired entries", func(t *testing.T) {
		tier, mr := newRedisTier(t)
		tier.now = func() time.Time { return now }

		require.NoError(t, tier.Put(context.Background(), "stale", Entry{
			Payload:   []byte("x"),
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}))
		assert.False(t, mr.Exists("stale"))
	})

	t.Run("unreachable server surfaces an error for the chain to absorb", func(t *testing.T) {
		tier, mr := newRedisTier(t)
		tier.now = func() time.Time { return now }
		mr.Close()

		_, _, err := tier.Get(context.Background(), "any")
		assert.Error(t, err)

		err = tier.Put(context.Background(), "any", Entry{
			Payload:   []byte("x"),
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		})
		assert.Error(t, err)
	})
}
