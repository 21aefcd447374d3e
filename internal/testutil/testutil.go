// Package testutil provides shared test fixtures for course and rating
// records.
package testutil

import (
	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/ratings"
)

// CourseOption configures optional fields when creating a course fixture.
type CourseOption func(*catalog.CourseRecord)

// WithMeeting sets the meeting days and time range.
func WithMeeting(days []string, startMinute, endMinute int) CourseOption {
	return func(c *catalog.CourseRecord) {
		c.Days = days
		c.StartMinute = startMinute
		c.EndMinute = endMinute
	}
}

// WithInstructor sets the instructor name.
func WithInstructor(name string) CourseOption {
	return func(c *catalog.CourseRecord) {
		c.Instructor = name
	}
}

// WithSeats sets the available and total seat counts.
func WithSeats(available, total int) CourseOption {
	return func(c *catalog.CourseRecord) {
		c.SeatsAvailable = available
		c.SeatsTotal = total
	}
}

// WithModality sets the delivery modality.
func WithModality(modality catalog.Modality) CourseOption {
	return func(c *catalog.CourseRecord) {
		c.Modality = modality
	}
}

// WithTitle sets the course title.
func WithTitle(title string) CourseOption {
	return func(c *catalog.CourseRecord) {
		c.Title = title
	}
}

// Course creates an in-person MWF morning section for term 202508.
// Defaults are overridden with options.
func Course(crn, subject, number string, credits int, opts ...CourseOption) catalog.CourseRecord {
	course := catalog.CourseRecord{
		Term:           "202508",
		CRN:            crn,
		Subject:        subject,
		Number:         number,
		Section:        "001",
		Title:          subject + " " + number,
		Credits:        credits,
		Days:           []string{"M", "W", "F"},
		StartMinute:    600,
		EndMinute:      650,
		Modality:       catalog.ModalityInPerson,
		SeatsAvailable: 10,
		SeatsTotal:     30,
	}
	for _, opt := range opts {
		opt(&course)
	}
	return course
}

// Rating creates a rated professor profile keyed by the normalized form of
// name.
func Rating(name string, avgRating float64, numRatings int) ratings.RatingRecord {
	first, last, _ := ratings.SplitName(name)
	return ratings.RatingRecord{
		Instructor: ratings.NormalizeName(name),
		FirstName:  first,
		LastName:   last,
		AvgRating:  avgRating,
		NumRatings: numRatings,
	}
}
