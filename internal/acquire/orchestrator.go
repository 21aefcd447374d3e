package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/classpick/classpick/internal/cache"
	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/match"
	"github.com/classpick/classpick/internal/ratings"
)

// Store is the cache surface the orchestrator populates and consults.
// Implemented by cache.Chain.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Orchestrator serves course and rating lookups cache-first, coalescing
// concurrent misses for the same key into a single adapter call. Adapter
// failures are propagated to every waiter and never cached.
type Orchestrator struct {
	courses CourseSource
	ratings RatingSource
	store   Store
	ttl     cache.TTLPolicy
	group   singleflight.Group
	logger  *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given sources and store.
func NewOrchestrator(courses CourseSource, ratingSource RatingSource, store Store, ttl cache.TTLPolicy, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		courses: courses,
		ratings: ratingSource,
		store:   store,
		ttl:     ttl,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Courses returns the course list for a term and subject, serving from the
// cache when fresh and fetching through the catalog source otherwise.
func (o *Orchestrator) Courses(ctx context.Context, term, subject string) ([]catalog.CourseRecord, error) {
	key := cache.CourseKey(term, subject)
	if payload, ok := o.store.Get(ctx, key); ok {
		var courses []catalog.CourseRecord
		if err := json.Unmarshal(payload, &courses); err == nil {
			return courses, nil
		}
		o.logger.Warn("discarding corrupt cached courses", slog.String("key", key))
		o.store.Delete(ctx, key)
	}

	result, err := coalesce(ctx, &o.group, key, func(fetchCtx context.Context) ([]catalog.CourseRecord, error) {
		fetched, err := o.courses.FetchCourses(fetchCtx, term, subject)
		if err != nil {
			return nil, err
		}
		if fetched.Skipped > 0 {
			o.logger.Warn("skipped malformed course records",
				slog.String("term", term),
				slog.String("subject", subject),
				slog.Int("skipped", fetched.Skipped))
		}
		o.populate(fetchCtx, key, fetched.Courses, cache.CategoryCourses)
		return fetched.Courses, nil
	})
	if err != nil {
		return nil, fmt.Errorf("acquire courses %s: %w", key, err)
	}
	return result, nil
}

// ratingResult carries the match outcome through the flight group; absence
// is a valid result and must reach every waiter.
type ratingResult struct {
	Record ratings.RatingRecord
	Found  bool
}

// Rating returns the rating profile for a free-text instructor name.
// ok=false means no confident match exists; that absence is not cached, so
// a later lookup asks the source again.
func (o *Orchestrator) Rating(ctx context.Context, instructor string) (ratings.RatingRecord, bool, error) {
	key := cache.ProfessorKey(instructor)
	if payload, ok := o.store.Get(ctx, key); ok {
		var record ratings.RatingRecord
		if err := json.Unmarshal(payload, &record); err == nil {
			return record, true, nil
		}
		o.logger.Warn("discarding corrupt cached rating", slog.String("key", key))
		o.store.Delete(ctx, key)
	}

	result, err := coalesce(ctx, &o.group, key, func(fetchCtx context.Context) (ratingResult, error) {
		record, found, err := o.ratings.FetchRating(fetchCtx, instructor)
		if err != nil {
			return ratingResult{}, err
		}
		if found {
			o.populate(fetchCtx, key, record, cache.CategoryRatings)
		}
		return ratingResult{Record: record, Found: found}, nil
	})
	if err != nil {
		return ratings.RatingRecord{}, false, fmt.Errorf("acquire rating %s: %w", key, err)
	}
	return result.Record, result.Found, nil
}

// Schedule returns the cached schedule for a term and preference
// fingerprint, computing and caching it on a miss. Concurrent identical
// requests share one computation; a failed computation is not cached.
func (o *Orchestrator) Schedule(ctx context.Context, term, fingerprint string, compute func(ctx context.Context) (match.Schedule, error)) (match.Schedule, error) {
	key := cache.ScheduleKey(term, fingerprint)
	if payload, ok := o.store.Get(ctx, key); ok {
		var schedule match.Schedule
		if err := json.Unmarshal(payload, &schedule); err == nil {
			return schedule, nil
		}
		o.logger.Warn("discarding corrupt cached schedule", slog.String("key", key))
		o.store.Delete(ctx, key)
	}

	schedule, err := coalesce(ctx, &o.group, key, func(computeCtx context.Context) (match.Schedule, error) {
		computed, err := compute(computeCtx)
		if err != nil {
			return match.Schedule{}, err
		}
		o.populate(computeCtx, key, computed, cache.CategorySchedules)
		return computed, nil
	})
	if err != nil {
		return match.Schedule{}, fmt.Errorf("recommend schedule %s: %w", key, err)
	}
	return schedule, nil
}

func (o *Orchestrator) populate(ctx context.Context, key string, value any, category cache.Category) {
	payload, err := json.Marshal(value)
	if err != nil {
		o.logger.Warn("encode cache payload failed",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	o.store.Put(ctx, key, payload, o.ttl.For(category))
}

// coalesce runs fn at most once per key among concurrent callers. The fetch
// runs detached from any single caller's lifetime so one cancellation
// cannot fail the shared flight; each caller still stops waiting when its
// own context ends.
func coalesce[T any](ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (any, error) {
		return fn(fetchCtx)
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
