package cache

import (
	"fmt"
	"strings"
	"time"
)

// Category selects the TTL policy for a cached payload.
type Category string

const (
	CategoryCourses   Category = "courses"
	CategoryRatings   Category = "ratings"
	CategorySchedules Category = "schedules"
)

// TTLPolicy holds the base TTL per payload category. Tiers receive the
// category TTL unchanged; the entry expiry derived from it is authoritative.
type TTLPolicy struct {
	Courses   time.Duration
	Ratings   time.Duration
	Schedules time.Duration
}

// For returns the base TTL for the category.
func (p TTLPolicy) For(category Category) time.Duration {
	switch category {
	case CategoryRatings:
		return p.Ratings
	case CategorySchedules:
		return p.Schedules
	default:
		return p.Courses
	}
}

// CourseKey addresses the course list for one term and subject.
func CourseKey(term, subject string) string {
	return fmt.Sprintf("courses:%s:%s", term, strings.ToUpper(subject))
}

// ProfessorKey addresses a professor rating by normalized instructor name.
func ProfessorKey(name string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), "_")
	return "professor:" + normalized
}

// ScheduleKey addresses a computed schedule by term and the fingerprint of
// the preference document it was computed from.
func ScheduleKey(term, fingerprint string) string {
	return fmt.Sprintf("schedule:%s:%s", term, fingerprint)
}
