package ratings

import (
	"sort"
	"strings"
)

// Candidate match scoring. The scoring function is pure and separate from
// the accept/reject threshold so the policy can be tuned independently.
const (
	lastNameScore     = 100.0
	firstNameExact    = 50.0
	firstNameInitial  = 25.0
	firstNameMismatch = -20.0
	maxRatingsBonus   = 20.0
	unratedPenalty    = -30.0

	// DefaultConfidenceThreshold is the minimum score at which a candidate
	// is accepted as the queried instructor.
	DefaultConfidenceThreshold = 80.0
)

// ScoredCandidate is a candidate profile with its match confidence.
type ScoredCandidate struct {
	Record RatingRecord
	Score  float64
}

// ScoreCandidates ranks candidate profiles against the queried first and
// last name. Candidates whose last name differs are discarded; the rest are
// ordered by descending score with the normalized instructor name as a
// deterministic tie-break.
func ScoreCandidates(first, last string, candidates []RatingRecord) []ScoredCandidate {
	first = strings.ToLower(first)
	last = strings.ToLower(last)

	var scored []ScoredCandidate
	for _, candidate := range candidates {
		candidateFirst := strings.ToLower(candidate.FirstName)
		candidateLast := strings.ToLower(candidate.LastName)
		if candidateLast != last {
			continue
		}

		score := lastNameScore
		switch {
		case candidateFirst == first:
			score += firstNameExact
		case first != "" && strings.HasPrefix(candidateFirst, first[:1]):
			score += firstNameInitial
		default:
			score += firstNameMismatch
		}

		if candidate.NumRatings > 0 {
			bonus := float64(candidate.NumRatings)
			if bonus > maxRatingsBonus {
				bonus = maxRatingsBonus
			}
			score += bonus
		} else {
			score += unratedPenalty
		}

		scored = append(scored, ScoredCandidate{Record: candidate, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.Instructor < scored[j].Record.Instructor
	})
	return scored
}

// Resolver applies the acceptance policy over scored candidates.
type Resolver struct {
	Threshold float64
}

// NewResolver creates a resolver with the given confidence threshold.
func NewResolver(threshold float64) *Resolver {
	return &Resolver{Threshold: threshold}
}

// Resolve returns the best-matching profile for a free-text instructor
// name, or ok=false when no candidate clears the confidence threshold.
// Absence is a normal outcome, never an error.
func (r *Resolver) Resolve(name string, candidates []RatingRecord) (RatingRecord, bool) {
	first, last, ok := SplitName(name)
	if !ok {
		return RatingRecord{}, false
	}

	scored := ScoreCandidates(first, last, candidates)
	if len(scored) == 0 || scored[0].Score < r.Threshold {
		return RatingRecord{}, false
	}
	return scored[0].Record, true
}
