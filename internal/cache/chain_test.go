package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTier is an in-memory tier with injectable failures, used to exercise
// the chain's fallback and promotion logic.
type stubTier struct {
	name    string
	entries map[string]Entry
	now     func() time.Time

	failReads  bool
	failWrites bool
	puts       int
	gets       int
}

func newStubTier(name string, now func() time.Time) *stubTier {
	return &stubTier{name: name, entries: map[string]Entry{}, now: now}
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Get(_ context.Context, key string) (Entry, bool, error) {
	s.gets++
	if s.failReads {
		return Entry{}, false, errors.New("tier unreachable")
	}
	entry, ok := s.entries[key]
	if !ok || entry.Expired(s.now()) {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *stubTier) Put(_ context.Context, key string, entry Entry) error {
	s.puts++
	if s.failWrites {
		return errors.New("tier unreachable")
	}
	s.entries[key] = entry
	return nil
}

func (s *stubTier) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func TestChain_GetPut(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("put writes every tier, get prefers the fastest", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		mid := newStubTier("redis", clock)
		slow := newStubTier("database", clock)
		chain := NewChain([]Tier{fast, mid, slow}, WithClock(clock))

		chain.Put(context.Background(), "k", []byte("v"), time.Hour)

		payload, ok := chain.Get(context.Background(), "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), payload)
		assert.Equal(t, 1, fast.gets)
		assert.Equal(t, 0, mid.gets)
		assert.Equal(t, 0, slow.gets)
	})

	t.Run("hit on a slower tier backfills faster tiers with remaining TTL", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		mid := newStubTier("redis", clock)
		slow := newStubTier("database", clock)
		chain := NewChain([]Tier{fast, mid, slow}, WithClock(clock))

		entry := Entry{Payload: []byte("v"), CreatedAt: now.Add(-30 * time.Minute), ExpiresAt: now.Add(30 * time.Minute)}
		slow.entries["k"] = entry

		payload, ok := chain.Get(context.Background(), "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), payload)

		promoted, ok := fast.entries["k"]
		require.True(t, ok)
		assert.True(t, entry.ExpiresAt.Equal(promoted.ExpiresAt))
		_, ok = mid.entries["k"]
		assert.True(t, ok)
	})

	t.Run("unreachable tier reads as a miss and falls through", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		fast.failReads = true
		slow := newStubTier("database", clock)
		slow.entries["k"] = Entry{Payload: []byte("v"), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		chain := NewChain([]Tier{fast, slow}, WithClock(clock))

		payload, ok := chain.Get(context.Background(), "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), payload)
	})

	t.Run("write failure on one tier does not fail the put", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		fast.failWrites = true
		slow := newStubTier("database", clock)
		chain := NewChain([]Tier{fast, slow}, WithClock(clock))

		chain.Put(context.Background(), "k", []byte("v"), time.Hour)

		_, ok := slow.entries["k"]
		assert.True(t, ok)
	})

	t.Run("fully unreachable chain degrades to always miss", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		fast.failReads = true
		slow := newStubTier("database", clock)
		slow.failReads = true
		chain := NewChain([]Tier{fast, slow}, WithClock(clock))

		_, ok := chain.Get(context.Background(), "k")
		assert.False(t, ok)
	})

	t.Run("expired entries behave as misses in any tier", func(t *testing.T) {
		current := now
		clock := func() time.Time { return current }
		for _, position := range []string{"fastest", "slowest"} {
			fast := newStubTier("memory", clock)
			slow := newStubTier("database", clock)
			stale := Entry{Payload: []byte("v"), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
			if position == "fastest" {
				fast.entries["k"] = stale
			} else {
				slow.entries["k"] = stale
			}
			chain := NewChain([]Tier{fast, slow}, WithClock(clock))

			_, ok := chain.Get(context.Background(), "k")
			assert.False(t, ok, position)
		}
	})

	t.Run("non-positive ttl is not written", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		chain := NewChain([]Tier{fast}, WithClock(clock))

		chain.Put(context.Background(), "k", []byte("v"), 0)
		assert.Equal(t, 0, fast.puts)
	})

	t.Run("delete removes from every tier", func(t *testing.T) {
		fast := newStubTier("memory", clock)
		slow := newStubTier("database", clock)
		chain := NewChain([]Tier{fast, slow}, WithClock(clock))

		chain.Put(context.Background(), "k", []byte("v"), time.Hour)
		chain.Delete(context.Background(), "k")

		_, ok := chain.Get(context.Background(), "k")
		assert.False(t, ok)
	})
}

func TestTTLPolicy_For(t *testing.T) {
	policy := TTLPolicy{
		Courses:   time.Hour,
		Ratings:   24 * time.Hour,
		Schedules: 30 * time.Minute,
	}

	assert.Equal(t, time.Hour, policy.For(CategoryCourses))
	assert.Equal(t, 24*time.Hour, policy.For(CategoryRatings))
	assert.Equal(t, 30*time.Minute, policy.For(CategorySchedules))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "courses:202601:CSC", CourseKey("202601", "csc"))
	assert.Equal(t, "professor:jane_doe", ProfessorKey("Jane Doe"))
	assert.Equal(t, "professor:jane_a._doe", ProfessorKey("  Jane   A. Doe "))
	assert.Equal(t, "schedule:202601:abc123", ScheduleKey("202601", "abc123"))
}
