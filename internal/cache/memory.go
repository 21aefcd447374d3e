package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryTier is the in-process tier, a capacity-bounded LRU. Capacity
// eviction is silent; callers only observe it as a later miss.
type MemoryTier struct {
	entries *lru.LRU[string, Entry]
	now     func() time.Time
}

// NewMemoryTier creates an in-process tier holding at most size entries.
func NewMemoryTier(size int) *MemoryTier {
	return &MemoryTier{
		// TTL is enforced per entry on read; the LRU only bounds capacity.
		entries: lru.NewLRU[string, Entry](size, nil, 0),
		now:     time.Now,
	}
}

func (t *MemoryTier) Name() string {
	return "memory"
}

func (t *MemoryTier) Get(_ context.Context, key string) (Entry, bool, error) {
	entry, ok := t.entries.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	if entry.Expired(t.now()) {
		t.entries.Remove(key)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (t *MemoryTier) Put(_ context.Context, key string, entry Entry) error {
	if entry.Expired(t.now()) {
		return nil
	}
	t.entries.Add(key, entry)
	return nil
}

func (t *MemoryTier) Delete(_ context.Context, key string) error {
	t.entries.Remove(key)
	return nil
}

// Len returns the number of stored entries, including stale ones not yet
// lazily evicted.
func (t *MemoryTier) Len() int {
	return t.entries.Len()
}
