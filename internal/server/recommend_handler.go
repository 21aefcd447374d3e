// Package server provides the HTTP handlers for the recommendation
// service.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/match"
	"github.com/classpick/classpick/internal/ratings"
)

//go:generate mockgen -source=recommend_handler.go -destination=../mocks/server/mock_acquirer.go -package=mock_server

// Acquirer is the acquisition surface the handler depends on. Implemented
// by acquire.Orchestrator.
type Acquirer interface {
	Courses(ctx context.Context, term, subject string) ([]catalog.CourseRecord, error)
	Rating(ctx context.Context, instructor string) (ratings.RatingRecord, bool, error)
	Schedule(ctx context.Context, term, fingerprint string, compute func(ctx context.Context) (match.Schedule, error)) (match.Schedule, error)
}

// RecommendRequest is the POST /v1/recommend request body.
type RecommendRequest struct {
	Term        string            `json:"term"`
	Preferences match.Preferences `json:"preferences"`
}

// RecommendResponse is the POST /v1/recommend response body.
type RecommendResponse struct {
	Schedule match.Schedule `json:"schedule"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RecommendHandler serves schedule recommendations over JSON.
type RecommendHandler struct {
	acquirer Acquirer
	engine   *match.Engine
	logger   *slog.Logger
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(acquirer Acquirer, engine *match.Engine, logger *slog.Logger) *RecommendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendHandler{
		acquirer: acquirer,
		engine:   engine,
		logger:   logger,
	}
}

// Register mounts the handler's routes on the mux.
func (h *RecommendHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/recommend", h.Recommend)
}

// Recommend acquires courses for every requested subject and ratings for
// each distinct instructor, then runs the matching engine. The computed
// schedule is cached by term and preference fingerprint. Rating failures
// degrade to missing data; course acquisition failures fail the request.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.Term == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}
	if len(req.Preferences.Requested) == 0 {
		writeError(w, http.StatusBadRequest, "at least one requested course is required")
		return
	}

	schedule, err := h.acquirer.Schedule(r.Context(), req.Term, preferencesFingerprint(req.Preferences),
		func(ctx context.Context) (match.Schedule, error) {
			courses, err := h.acquireCourses(ctx, req)
			if err != nil {
				return match.Schedule{}, err
			}
			lookup := h.acquireRatings(ctx, courses)
			return h.engine.Match(courses, lookup, req.Preferences), nil
		})
	if err != nil {
		h.logger.Error("acquire courses failed",
			slog.String("term", req.Term),
			slog.Any("error", err))
		writeError(w, http.StatusBadGateway, "course data is unavailable right now")
		return
	}
	writeJSON(w, http.StatusOK, RecommendResponse{Schedule: schedule})
}

// preferencesFingerprint keys cached schedules by the full preference
// document. Preferences holds only scalars and slices, so its JSON encoding
// is deterministic.
func preferencesFingerprint(prefs match.Preferences) string {
	payload, _ := json.Marshal(prefs)
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}

func (h *RecommendHandler) acquireCourses(ctx context.Context, req RecommendRequest) ([]catalog.CourseRecord, error) {
	seen := map[string]bool{}
	var courses []catalog.CourseRecord
	for _, want := range req.Preferences.Requested {
		subject := strings.ToUpper(want.Subject)
		if seen[subject] {
			continue
		}
		seen[subject] = true

		fetched, err := h.acquirer.Courses(ctx, req.Term, subject)
		if err != nil {
			return nil, fmt.Errorf("courses for %s: %w", subject, err)
		}
		courses = append(courses, fetched...)
	}
	return courses, nil
}

// acquireRatings resolves each distinct instructor. A failed or absent
// rating leaves the instructor out of the lookup; the matching engine
// treats that as neutral.
func (h *RecommendHandler) acquireRatings(ctx context.Context, courses []catalog.CourseRecord) map[string]ratings.RatingRecord {
	lookup := map[string]ratings.RatingRecord{}
	seen := map[string]bool{}
	for _, course := range courses {
		if !course.HasInstructor() {
			continue
		}
		name := ratings.NormalizeName(course.Instructor)
		if seen[name] {
			continue
		}
		seen[name] = true

		record, ok, err := h.acquirer.Rating(ctx, course.Instructor)
		if err != nil {
			h.logger.Warn("rating lookup failed",
				slog.String("instructor", course.Instructor),
				slog.Any("error", err))
			continue
		}
		if ok {
			lookup[name] = record
		}
	}
	return lookup
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
