// Package match ranks acquired course records against a student's stated
// preferences and selects a conflict-free schedule. It is pure computation:
// no I/O, no clock, and deterministic output for identical inputs.
package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/ratings"
)

// neutralSignal is the score contributed by a signal when the data it needs
// is absent. Missing data must never penalize a course relative to an
// unrated baseline.
const neutralSignal = 0.5

// Weights holds the relative weight of each scoring signal. A zero weight
// disables the signal.
type Weights struct {
	Days        float64 `json:"days" yaml:"days"`
	Time        float64 `json:"time" yaml:"time"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Priority    float64 `json:"priority" yaml:"priority"`
	Difficulty  float64 `json:"difficulty" yaml:"difficulty"`
	WouldRetake float64 `json:"would_retake" yaml:"would_retake"`
}

func (w Weights) total() float64 {
	return w.Days + w.Time + w.Rating + w.Priority + w.Difficulty + w.WouldRetake
}

// RequestedCourse is one desired course with its priority rank, rank 1
// being the most wanted.
type RequestedCourse struct {
	Subject  string `json:"subject" yaml:"subject"`
	Number   string `json:"number" yaml:"number"`
	Priority int    `json:"priority" yaml:"priority"`
}

// Window is a preferred daily meeting window in minutes since midnight. A
// zero window means no time preference.
type Window struct {
	StartMinute int `json:"start_minute" yaml:"start_minute"`
	EndMinute   int `json:"end_minute" yaml:"end_minute"`
}

func (w Window) empty() bool {
	return w.StartMinute == 0 && w.EndMinute == 0
}

// Preferences is the student's preference document.
type Preferences struct {
	Requested  []RequestedCourse  `json:"requested" yaml:"requested"`
	MinCredits int                `json:"min_credits" yaml:"min_credits"`
	MaxCredits int                `json:"max_credits" yaml:"max_credits"`
	Days       []string           `json:"days" yaml:"days"`
	Window     Window             `json:"window" yaml:"window"`
	Modalities []catalog.Modality `json:"modalities" yaml:"modalities"`
	MinRating  float64            `json:"min_rating" yaml:"min_rating"`
	Completed  []string           `json:"completed" yaml:"completed"`
}

// ScoredCourse is a course with its resolved rating, match score and the
// reasons contributing to that score. Rating is nil when no confident
// profile was resolved.
type ScoredCourse struct {
	catalog.CourseRecord
	Rating  *ratings.RatingRecord `json:"rating,omitempty"`
	Score   float64               `json:"score"`
	Reasons []string              `json:"reasons"`
}

// Schedule is a ranked, mutually conflict-free course selection.
type Schedule struct {
	Courses         []ScoredCourse `json:"courses"`
	TotalCredits    int            `json:"total_credits"`
	FitScore        float64        `json:"fit_score"`
	BelowMinCredits bool           `json:"below_min_credits"`
}

// Engine scores and selects courses with a fixed set of signal weights.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine. Zero-total weights fall back to defaults so
// a misconfigured engine still ranks rather than flattening every score.
func NewEngine(weights Weights) *Engine {
	if weights.total() <= 0 {
		weights = DefaultWeights()
	}
	return &Engine{weights: weights}
}

// DefaultWeights returns the stock signal weights.
func DefaultWeights() Weights {
	return Weights{
		Days:        1,
		Time:        1,
		Rating:      2,
		Priority:    2,
		Difficulty:  0.5,
		WouldRetake: 0.5,
	}
}

// Match filters, scores and greedily selects a conflict-free schedule from
// the course set. Ratings are looked up by normalized instructor name.
// Business conditions such as missing ratings or a below-minimum credit
// total are reported on the result, never as errors.
func (e *Engine) Match(courses []catalog.CourseRecord, ratingsByName map[string]ratings.RatingRecord, prefs Preferences) Schedule {
	candidates := e.score(e.filter(courses, prefs), ratingsByName, prefs)

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].SeatsAvailable != candidates[j].SeatsAvailable {
			return candidates[i].SeatsAvailable > candidates[j].SeatsAvailable
		}
		if candidates[i].Code() != candidates[j].Code() {
			return candidates[i].Code() < candidates[j].Code()
		}
		return candidates[i].CRN < candidates[j].CRN
	})

	schedule := Schedule{Courses: []ScoredCourse{}}
	selectedCodes := map[string]bool{}
	for _, candidate := range candidates {
		if selectedCodes[candidate.Code()] {
			continue
		}
		if prefs.MaxCredits > 0 && schedule.TotalCredits+candidate.Credits > prefs.MaxCredits {
			continue
		}
		if conflicts(candidate, schedule.Courses) {
			continue
		}
		schedule.Courses = append(schedule.Courses, candidate)
		schedule.TotalCredits += candidate.Credits
		selectedCodes[candidate.Code()] = true
	}

	if len(schedule.Courses) > 0 {
		var sum float64
		for _, course := range schedule.Courses {
			sum += course.Score
		}
		schedule.FitScore = sum / float64(len(schedule.Courses)) * 100
	}
	schedule.BelowMinCredits = prefs.MinCredits > 0 && schedule.TotalCredits < prefs.MinCredits
	return schedule
}

func (e *Engine) filter(courses []catalog.CourseRecord, prefs Preferences) []catalog.CourseRecord {
	completed := map[string]bool{}
	for _, code := range prefs.Completed {
		completed[normalizeCode(code)] = true
	}
	allowedModalities := map[catalog.Modality]bool{}
	for _, modality := range prefs.Modalities {
		allowedModalities[modality] = true
	}

	var kept []catalog.CourseRecord
	for _, course := range courses {
		if completed[normalizeCode(course.Code())] {
			continue
		}
		if len(allowedModalities) > 0 && !allowedModalities[course.Modality] {
			continue
		}
		if course.SeatsAvailable <= 0 {
			continue
		}
		kept = append(kept, course)
	}
	return kept
}

func (e *Engine) score(courses []catalog.CourseRecord, ratingsByName map[string]ratings.RatingRecord, prefs Preferences) []ScoredCourse {
	scored := make([]ScoredCourse, 0, len(courses))
	for _, course := range courses {
		scored = append(scored, e.scoreCourse(course, ratingsByName, prefs))
	}
	return scored
}

func (e *Engine) scoreCourse(course catalog.CourseRecord, ratingsByName map[string]ratings.RatingRecord, prefs Preferences) ScoredCourse {
	result := ScoredCourse{CourseRecord: course, Reasons: []string{}}
	if course.HasInstructor() {
		if record, ok := ratingsByName[ratings.NormalizeName(course.Instructor)]; ok {
			result.Rating = &record
		}
	}

	var weighted float64
	add := func(weight, signal float64, reason string) {
		if weight <= 0 {
			return
		}
		weighted += weight * signal
		if reason != "" {
			result.Reasons = append(result.Reasons, reason)
		}
	}

	signal, reason := daySignal(course, prefs.Days)
	add(e.weights.Days, signal, reason)

	signal, reason = timeSignal(course, prefs.Window)
	add(e.weights.Time, signal, reason)

	signal, reason = ratingSignal(result.Rating, prefs.MinRating)
	add(e.weights.Rating, signal, reason)

	signal, reason = prioritySignal(course, prefs.Requested)
	add(e.weights.Priority, signal, reason)

	signal, reason = difficultySignal(result.Rating)
	add(e.weights.Difficulty, signal, reason)

	signal, reason = retakeSignal(result.Rating)
	add(e.weights.WouldRetake, signal, reason)

	result.Score = weighted / e.weights.total()
	return result
}

// daySignal gives full credit when every meeting day is preferred and the
// covered fraction otherwise. No day preference or no meeting days is
// neutral.
func daySignal(course catalog.CourseRecord, preferred []string) (float64, string) {
	if len(preferred) == 0 || len(course.Days) == 0 {
		return neutralSignal, ""
	}
	preferredSet := map[string]bool{}
	for _, day := range preferred {
		preferredSet[day] = true
	}
	covered := 0
	for _, day := range course.Days {
		if preferredSet[day] {
			covered++
		}
	}
	if covered == len(course.Days) {
		return 1, "meets only on preferred days"
	}
	if covered == 0 {
		return 0, "meets on no preferred day"
	}
	return float64(covered) / float64(len(course.Days)),
		fmt.Sprintf("meets on %d of %d days within preference", covered, len(course.Days))
}

// timeSignal gives full credit when the meeting interval lies inside the
// preferred window, the overlap fraction for partial overlap and zero when
// disjoint.
func timeSignal(course catalog.CourseRecord, window Window) (float64, string) {
	if window.empty() || !course.Scheduled() {
		return neutralSignal, ""
	}
	overlapStart := max(course.StartMinute, window.StartMinute)
	overlapEnd := min(course.EndMinute, window.EndMinute)
	if overlapEnd <= overlapStart {
		return 0, "meets outside the preferred time window"
	}
	length := course.EndMinute - course.StartMinute
	if length <= 0 {
		return neutralSignal, ""
	}
	fraction := float64(overlapEnd-overlapStart) / float64(length)
	if fraction >= 1 {
		return 1, "meets within the preferred time window"
	}
	return fraction, "partially overlaps the preferred time window"
}

// ratingSignal normalizes the instructor's average rating against the
// minimum acceptable rating. A missing or unrated profile is neutral, never
// the minimum.
func ratingSignal(record *ratings.RatingRecord, minRating float64) (float64, string) {
	if record == nil || !record.Rated() {
		return neutralSignal, "no instructor rating available"
	}
	span := 5.0 - minRating
	if span <= 0 {
		span = 5.0
	}
	signal := (record.AvgRating - minRating) / span
	signal = clamp01(signal)
	return signal, fmt.Sprintf("instructor rated %.1f across %d ratings", record.AvgRating, record.NumRatings)
}

// prioritySignal rewards explicitly requested courses, rank 1 outweighing
// rank 2 and so on.
func prioritySignal(course catalog.CourseRecord, requested []RequestedCourse) (float64, string) {
	for _, want := range requested {
		if !strings.EqualFold(want.Subject, course.Subject) || want.Number != course.Number {
			continue
		}
		rank := want.Priority
		if rank < 1 {
			rank = 1
		}
		return 1 / float64(rank), fmt.Sprintf("requested with priority %d", rank)
	}
	return 0, ""
}

func difficultySignal(record *ratings.RatingRecord) (float64, string) {
	if record == nil || !record.Rated() || record.AvgDifficulty <= 0 {
		return neutralSignal, ""
	}
	signal := clamp01((5.0 - record.AvgDifficulty) / 5.0)
	return signal, fmt.Sprintf("difficulty %.1f of 5", record.AvgDifficulty)
}

func retakeSignal(record *ratings.RatingRecord) (float64, string) {
	if record == nil || !record.Rated() || record.WouldTakeAgain <= 0 {
		return neutralSignal, ""
	}
	signal := clamp01(record.WouldTakeAgain / 100)
	return signal, fmt.Sprintf("%.0f%% would take again", record.WouldTakeAgain)
}

func conflicts(candidate ScoredCourse, selected []ScoredCourse) bool {
	for _, course := range selected {
		if candidate.ConflictsWith(course.CourseRecord) {
			return true
		}
	}
	return false
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
