// Package acquire orchestrates data acquisition: cache lookup, request
// coalescing, adapter fetch and cache population. It is the only path
// through which callers reach the external data sources.
package acquire

import (
	"context"

	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/ratings"
)

//go:generate mockgen -source=acquire.go -destination=../mocks/acquire/mock_sources.go -package=mock_acquire

// CourseSource fetches the course schedule for one term and subject from an
// external catalog.
type CourseSource interface {
	FetchCourses(ctx context.Context, term, subject string) (catalog.FetchResult, error)
}

// RatingSource searches an external rating site for an instructor.
// ok=false means no confident match, a normal outcome.
type RatingSource interface {
	FetchRating(ctx context.Context, instructor string) (ratings.RatingRecord, bool, error)
}
