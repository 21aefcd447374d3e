// Package ratings scrapes professor ratings from the public rating site's
// GraphQL API and resolves free-text instructor names against its profiles.
package ratings

import "strings"

// RatingRecord is one professor profile as scraped, keyed by the normalized
// instructor name. Immutable once returned.
type RatingRecord struct {
	Instructor     string  `json:"instructor"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	AvgRating      float64 `json:"avg_rating"`
	AvgDifficulty  float64 `json:"avg_difficulty"`
	WouldTakeAgain float64 `json:"would_take_again"`
	NumRatings     int     `json:"num_ratings"`
	Department     string  `json:"department"`
}

// Rated reports whether the profile has at least one rating.
func (r RatingRecord) Rated() bool {
	return r.NumRatings > 0
}

// NormalizeName lowercases a free-text instructor name and collapses
// interior whitespace to underscores, producing the lookup key shared with
// the cache layer.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// SplitName returns the first and last word of a free-text name. Middle
// names and initials are ignored for matching purposes.
func SplitName(name string) (first, last string, ok bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[len(fields)-1], true
}
