package cache

import (
	"context"
	"log/slog"
	"time"
)

// Chain composes tiers ordered fastest to slowest under one lookup/populate
// contract. Tier failures are logged and treated as misses (reads) or
// skipped best-effort (writes); a fully unreachable chain degrades to
// always-miss.
type Chain struct {
	tiers  []Tier
	logger *slog.Logger
	now    func() time.Time
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithLogger sets the logger used for absorbed tier failures.
func WithLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithClock overrides the chain's clock, for tests.
func WithClock(now func() time.Time) ChainOption {
	return func(c *Chain) {
		c.now = now
	}
}

// NewChain creates a chain over the given tiers, fastest first.
func NewChain(tiers []Tier, opts ...ChainOption) *Chain {
	chain := &Chain{
		tiers:  tiers,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Get returns the freshest payload for the key, querying tiers in order and
// backfilling every faster tier with the remaining TTL of the first hit.
func (c *Chain) Get(ctx context.Context, key string) ([]byte, bool) {
	for i, tier := range c.tiers {
		entry, ok, err := tier.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache tier read failed",
				slog.String("tier", tier.Name()),
				slog.String("key", key),
				slog.Any("error", err))
			continue
		}
		if !ok {
			continue
		}

		c.promote(ctx, key, entry, c.tiers[:i])
		return entry.Payload, true
	}
	return nil, false
}

// Put writes the payload to every tier with the given TTL. Writes are
// best-effort per tier.
func (c *Chain) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()
	entry := Entry{
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	for _, tier := range c.tiers {
		if err := tier.Put(ctx, key, entry); err != nil {
			c.logger.Warn("cache tier write failed",
				slog.String("tier", tier.Name()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// Delete removes the key from every tier, best-effort.
func (c *Chain) Delete(ctx context.Context, key string) {
	for _, tier := range c.tiers {
		if err := tier.Delete(ctx, key); err != nil {
			c.logger.Warn("cache tier delete failed",
				slog.String("tier", tier.Name()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

func (c *Chain) promote(ctx context.Context, key string, entry Entry, faster []Tier) {
	for _, tier := range faster {
		if err := tier.Put(ctx, key, entry); err != nil {
			c.logger.Warn("cache tier promotion failed",
				slog.String("tier", tier.Name()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}
