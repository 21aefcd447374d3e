// Package cli implements the interactive command flows for the classpick
// command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/match"
	"github.com/classpick/classpick/internal/ratings"
)

// Acquirer is the acquisition surface the CLI flows depend on. Implemented
// by acquire.Orchestrator.
type Acquirer interface {
	Courses(ctx context.Context, term, subject string) ([]catalog.CourseRecord, error)
	Rating(ctx context.Context, instructor string) (ratings.RatingRecord, bool, error)
}

// Score bands for colored output.
const (
	goodScoreBand = 70.0
	fairScoreBand = 40.0
)

// Recommender acquires course and rating data and renders a recommended
// schedule.
type Recommender struct {
	acquirer        Acquirer
	engine          *match.Engine
	out             io.Writer
	registrationURL string
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithRegistrationBase sets the catalog base URL so the rendered schedule
// can point at the term's self-service registration page.
func WithRegistrationBase(baseURL string) Option {
	return func(r *Recommender) {
		r.registrationURL = baseURL
	}
}

// NewRecommender creates a recommender writing to out.
func NewRecommender(acquirer Acquirer, engine *match.Engine, out io.Writer, opts ...Option) *Recommender {
	r := &Recommender{
		acquirer: acquirer,
		engine:   engine,
		out:      out,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PreferencesFromFile reads a preference document from a YAML file.
func PreferencesFromFile(path string) (match.Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return match.Preferences{}, fmt.Errorf("read preferences file: %w", err)
	}

	var prefs match.Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return match.Preferences{}, fmt.Errorf("parse preferences file: %w", err)
	}
	if len(prefs.Requested) == 0 {
		return match.Preferences{}, fmt.Errorf("preferences file %s lists no requested courses", path)
	}
	return prefs, nil
}

// Run acquires courses for every requested subject and ratings for each
// distinct instructor, matches them against the preferences and prints the
// ranked schedule.
func (r *Recommender) Run(ctx context.Context, term string, prefs match.Preferences) error {
	seen := map[string]bool{}
	var courses []catalog.CourseRecord
	for _, want := range prefs.Requested {
		subject := strings.ToUpper(want.Subject)
		if seen[subject] {
			continue
		}
		seen[subject] = true

		fetched, err := r.acquirer.Courses(ctx, term, subject)
		if err != nil {
			return fmt.Errorf("acquire courses for %s: %w", subject, err)
		}
		courses = append(courses, fetched...)
	}

	lookup := map[string]ratings.RatingRecord{}
	seenInstructors := map[string]bool{}
	for _, course := range courses {
		if !course.HasInstructor() {
			continue
		}
		name := ratings.NormalizeName(course.Instructor)
		if seenInstructors[name] {
			continue
		}
		seenInstructors[name] = true

		record, ok, err := r.acquirer.Rating(ctx, course.Instructor)
		if err != nil {
			// degrade to a missing rating rather than failing the run
			fmt.Fprintf(r.out, "warning: no rating data for %s: %v\n", course.Instructor, err)
			continue
		}
		if ok {
			lookup[name] = record
		}
	}

	schedule := r.engine.Match(courses, lookup, prefs)
	r.render(term, schedule, prefs)
	return nil
}

func (r *Recommender) render(term string, schedule match.Schedule, prefs match.Preferences) {
	bold := color.New(color.Bold)

	bold.Fprintf(r.out, "Recommended schedule for %s\n", term)
	if len(schedule.Courses) == 0 {
		fmt.Fprintln(r.out, "No courses matched your preferences.")
		return
	}

	for _, course := range schedule.Courses {
		score := course.Score * 100
		line := fmt.Sprintf("%-8s %s %s %-4s %s  %s",
			course.CRN, course.Subject, course.Number, course.Section,
			meetingSummary(course.CourseRecord), course.Title)

		switch {
		case score >= goodScoreBand:
			color.New(color.FgGreen).Fprintf(r.out, "%s (%.0f)\n", line, score)
		case score >= fairScoreBand:
			color.New(color.FgYellow).Fprintf(r.out, "%s (%.0f)\n", line, score)
		default:
			color.New(color.FgRed).Fprintf(r.out, "%s (%.0f)\n", line, score)
		}

		if course.Rating != nil {
			fmt.Fprintf(r.out, "         %s: %.1f/5 across %d ratings\n",
				course.Instructor, course.Rating.AvgRating, course.Rating.NumRatings)
		} else if course.HasInstructor() {
			fmt.Fprintf(r.out, "         %s: no rating found\n", course.Instructor)
		}
		for _, reason := range course.Reasons {
			fmt.Fprintf(r.out, "         - %s\n", reason)
		}
	}

	bold.Fprintf(r.out, "Total credits: %d, fit score: %.0f/100\n", schedule.TotalCredits, schedule.FitScore)
	if schedule.BelowMinCredits {
		color.New(color.FgYellow).Fprintf(r.out,
			"Note: total credits are below your minimum of %d.\n", prefs.MinCredits)
	}
	if r.registrationURL != "" {
		fmt.Fprintf(r.out, "Register at %s\n", catalog.RegistrationLink(r.registrationURL, term))
	}
}

func meetingSummary(course catalog.CourseRecord) string {
	if !course.Scheduled() {
		return "TBA"
	}
	days := ""
	for _, day := range course.Days {
		days += day
	}
	return fmt.Sprintf("%s %s-%s", days, formatMinute(course.StartMinute), formatMinute(course.EndMinute))
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
