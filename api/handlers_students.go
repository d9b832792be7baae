package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"feedback-pulse/cache"
	"feedback-pulse/database"
	"feedback-pulse/llm"
	"feedback-pulse/patterns"
	"feedback-pulse/trajectory"
)

const (
	// patternCorpusLimit caps how many finished journeys feed one
	// similarity query
	patternCorpusLimit = 500

	// predictionCacheTTL is deliberately short so cached intervention
	// dates stay close to the dates a fresh forecast would produce
	predictionCacheTTL = 10 * time.Minute
)

// requireCourse reads the course_id query parameter shared by the
// per-student endpoints
func requireCourse(w http.ResponseWriter, r *http.Request) (string, bool) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		http.Error(w, "course_id parameter is required", http.StatusBadRequest)
		return "", false
	}
	return courseID, true
}

// handleGetJourney returns every stored journey row for one student in
// a course, ordered by week
func (s *Server) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	courseID, ok := requireCourse(w, r)
	if !ok {
		return
	}

	journeys, err := s.journeys.GetStudentJourneys(studentID, courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load journeys", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"student_id": studentID,
		"course_id":  courseID,
		"journeys":   journeys,
		"count":      len(journeys),
	})
}

// handleGetTrajectory forecasts the emotional trajectory from the
// stored history. Results are cached per history snapshot.
func (s *Server) handleGetTrajectory(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	courseID, ok := requireCourse(w, r)
	if !ok {
		return
	}

	history, err := s.journeys.GetStudentHistory(studentID, courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load history", err)
		return
	}
	if len(history) == 0 {
		http.Error(w, "No feedback recorded for this student", http.StatusNotFound)
		return
	}

	scope := studentID + ":" + courseID
	dataHash := cache.GenerateDataHash(history)

	prediction, cached := s.analysis.GetPrediction(r.Context(), scope, dataHash)
	if !cached {
		p := trajectory.Predict(history)
		prediction = &p
		if err := s.analysis.SetPrediction(r.Context(), scope, dataHash, prediction, predictionCacheTTL); err != nil {
			log.Printf("⚠️  Prediction cache write failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"student_id":     studentID,
		"course_id":      courseID,
		"weeks_observed": len(history),
		"cached":         cached,
		"prediction":     prediction,
	})
}

// handleGetSimilarStudents matches the student's latest emotion profile
// against finished journeys of the same course and aggregates what
// happened to the matched students. Mounted both per student and under
// /api/patterns/similar, where the id arrives as a query parameter.
func (s *Server) handleGetSimilarStudents(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	if studentID == "" {
		studentID = r.URL.Query().Get("student_id")
	}
	if studentID == "" {
		http.Error(w, "student_id parameter is required", http.StatusBadRequest)
		return
	}
	courseID, ok := requireCourse(w, r)
	if !ok {
		return
	}

	minSimilarity := getFloatParam(r, "min_similarity", 0.7)
	one := 1
	maxLimit := database.MaxLimit
	limit := getIntParam(r, "limit", database.TopLimit, &one, &maxLimit)

	latest, err := s.journeys.GetLatestJourney(studentID, courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load journey", err)
		return
	}
	if latest == nil {
		http.Error(w, "No feedback recorded for this student", http.StatusNotFound)
		return
	}
	target := database.ProfileOf(*latest)

	corpus, err := s.journeys.GetCompletedFinalJourneys(courseID, patternCorpusLimit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load pattern corpus", err)
		return
	}

	interventions, err := s.alerts.GetSuccessfulInterventionTypes(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load intervention outcomes", err)
		return
	}

	matches := make([]patterns.Match, 0, len(corpus))
	for _, journey := range corpus {
		if journey.StudentID == studentID {
			continue
		}
		profile := database.ProfileOf(journey)
		similarity := patterns.Similarity(target, profile)
		if similarity < minSimilarity {
			continue
		}
		worked := interventions[journey.StudentID]
		if worked == nil {
			worked = []string{}
		}
		matches = append(matches, patterns.Match{
			StudentID:  journey.StudentID,
			Profile:    profile,
			Similarity: similarity,
			Outcome: patterns.Outcome{
				CompletionStatus:        journey.CompletionStatus,
				SuccessfulInterventions: worked,
			},
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	clusters := patterns.Cluster(matches)
	outcomes := patterns.PredictOutcomes(clusters)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"student_id":         studentID,
		"course_id":          courseID,
		"target_signature":   patterns.Signature(target),
		"min_similarity":     minSimilarity,
		"matches":            matches,
		"count":              len(matches),
		"clusters":           clusters,
		"outcome_prediction": outcomes,
	})
}

// handleGetStudentInsight returns the operator narrative for one
// student, LLM-written when available and rule-based otherwise
func (s *Server) handleGetStudentInsight(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	courseID, ok := requireCourse(w, r)
	if !ok {
		return
	}

	journeys, err := s.journeys.GetStudentJourneys(studentID, courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load journeys", err)
		return
	}
	if len(journeys) == 0 {
		http.Error(w, "No feedback recorded for this student", http.StatusNotFound)
		return
	}

	p := trajectory.Predict(database.HistoryOf(journeys))

	insight, llmUsed, err := s.insights.StudentInsight(r.Context(), studentID, courseID, journeys, &p)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to generate insight", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"student_id":    studentID,
		"course_id":     courseID,
		"insight":       insight,
		"llm_generated": llmUsed,
	})
}

// handleStudentInsightStream streams the LLM narrative over SSE. With
// the LLM disabled it degrades to one rule-based summary event so
// dashboards keep working on the same endpoint.
func (s *Server) handleStudentInsightStream(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	courseID, ok := requireCourse(w, r)
	if !ok {
		return
	}

	journeys, err := s.journeys.GetStudentJourneys(studentID, courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load journeys", err)
		return
	}
	if len(journeys) == 0 {
		http.Error(w, "No feedback recorded for this student", http.StatusNotFound)
		return
	}

	flusher, ok := setupSSE(w)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	if !s.cfg.LLM.Enabled || s.llmClient == nil {
		p := trajectory.Predict(database.HistoryOf(journeys))
		latest := journeys[len(journeys)-1]
		summary := llm.RuleBasedSummary(&latest, &p)
		lines := strings.Split(summary, "\n")
		for i, line := range lines {
			if i < len(lines)-1 {
				fmt.Fprintf(w, "data: %s\n", line)
			} else {
				fmt.Fprintf(w, "data: %s\n\n", line)
			}
		}
		fmt.Fprintf(w, "event: done\ndata: Stream completed\n\n")
		flusher.Flush()
		return
	}

	prompt := llm.FormatStudentPrompt(studentID, courseID, journeys)

	err = s.llmClient.AnalyzeStream(r.Context(), prompt, func(chunk string) error {
		// Properly format multi-line chunks for SSE
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			if i < len(lines)-1 {
				fmt.Fprintf(w, "data: %s\n", line)
			} else {
				fmt.Fprintf(w, "data: %s\n\n", line)
			}
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		log.Printf("LLM streaming failed: %v", err)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
		flusher.Flush()
		return
	}

	fmt.Fprintf(w, "event: done\ndata: Stream completed\n\n")
	flusher.Flush()
}
