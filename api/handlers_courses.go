package api

import (
	"encoding/json"
	"net/http"
	"time"

	"feedback-pulse/database"
)

// handleGetActiveCourses lists courses with recent feedback
func (s *Server) handleGetActiveCourses(w http.ResponseWriter, r *http.Request) {
	one := 1
	yearDays := 365
	days := getIntParam(r, "days", 30, &one, &yearDays)
	since := time.Now().AddDate(0, 0, -days)

	courses, err := s.journeys.GetActiveCourses(since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load courses", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"courses": courses,
		"count":   len(courses),
		"since":   since,
	})
}

// handleGetCourseStats returns the aggregated emotion picture of one
// course plus the students currently carrying the most risk
func (s *Server) handleGetCourseStats(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")

	one := 1
	maxLimit := database.MaxLimit
	limit := getIntParam(r, "limit", database.TopLimit, &one, &maxLimit)

	stats, err := s.journeys.GetCourseEmotionStats(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load course stats", err)
		return
	}

	topRisk, err := s.journeys.GetTopRiskStudents(courseID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load risk ranking", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"course_id":         courseID,
		"stats":             stats,
		"top_risk_students": topRisk,
	})
}

// handleGetWeeklyTrends returns per-week emotion averages for one course
func (s *Server) handleGetWeeklyTrends(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")

	trends, err := s.journeys.GetWeeklyTrends(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load weekly trends", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"course_id": courseID,
		"trends":    trends,
		"count":     len(trends),
	})
}

// handleGetAspectAverages returns per-aspect score averages for one course
func (s *Server) handleGetAspectAverages(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")

	aspects, err := s.journeys.GetAspectAverages(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load aspect averages", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"course_id": courseID,
		"aspects":   aspects,
	})
}

// handleGetRiskSummary returns the course risk distribution together
// with the open alert count
func (s *Server) handleGetRiskSummary(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")

	openAlerts, err := s.alerts.CountOpenAlerts(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to count open alerts", err)
		return
	}

	summary, err := s.journeys.GetRiskSummary(courseID, openAlerts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load risk summary", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"course_id": courseID,
		"summary":   summary,
	})
}

// handleGetCourseOutcomes returns the precomputed pattern outcome rows
// for one course
func (s *Server) handleGetCourseOutcomes(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")

	outcomes, err := s.outcomes.GetCourseOutcomes(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load pattern outcomes", err)
		return
	}

	computedAt, err := s.outcomes.LatestComputedAt(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load outcome freshness", err)
		return
	}

	response := map[string]interface{}{
		"course_id":   courseID,
		"outcomes":    outcomes,
		"count":       len(outcomes),
		"computed_at": computedAt,
	}

	// Course-level aggregate written by the pattern refresher
	if aggregate, ok := s.analysis.GetOutcomes(r.Context(), courseID, "course"); ok {
		response["course_prediction"] = aggregate
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
