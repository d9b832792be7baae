package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"feedback-pulse/database"
)

// handleDashboardSSE streams the course dashboard via Server-Sent Events
func (s *Server) handleDashboardSSE(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		http.Error(w, "course_id parameter is required", http.StatusBadRequest)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	log.Printf("[SSE] New dashboard connection from %s (course %s)", r.RemoteAddr, courseID)

	// Create tickers for different data types
	riskTicker := time.NewTicker(15 * time.Second)  // Risk summary, top students, alert counts
	trendTicker := time.NewTicker(60 * time.Second) // Weekly trends, aspect averages, stats
	defer riskTicker.Stop()
	defer trendTicker.Stop()

	// Send initial data immediately
	s.sendRiskData(w, flusher, courseID)
	s.sendTrendData(w, flusher, courseID)

	// Stream updates
	for {
		select {
		case <-riskTicker.C:
			s.sendRiskData(w, flusher, courseID)

		case <-trendTicker.C:
			s.sendTrendData(w, flusher, courseID)

		case <-r.Context().Done():
			log.Printf("[SSE] Client disconnected: %s", r.RemoteAddr)
			return
		}
	}
}

func (s *Server) sendRiskData(w http.ResponseWriter, flusher http.Flusher, courseID string) {
	// Risk Summary
	openAlerts, err := s.alerts.CountOpenAlerts(courseID)
	if err == nil {
		if summary, err := s.journeys.GetRiskSummary(courseID, openAlerts); err == nil {
			s.sendSSEEvent(w, "risk_summary", summary)
		}
	}

	// Top Risk Students
	topRisk, err := s.journeys.GetTopRiskStudents(courseID, database.TopLimit)
	if err == nil {
		data := map[string]interface{}{
			"data": topRisk,
		}
		s.sendSSEEvent(w, "top_risk_students", data)
	}

	// Alert Counts by Type
	counts, err := s.alerts.GetAlertCountsByType(courseID)
	if err == nil {
		data := map[string]interface{}{
			"data": counts,
		}
		s.sendSSEEvent(w, "alert_counts", data)
	}

	flusher.Flush()
}

func (s *Server) sendTrendData(w http.ResponseWriter, flusher http.Flusher, courseID string) {
	// Weekly Trends
	trends, err := s.journeys.GetWeeklyTrends(courseID)
	if err == nil {
		data := map[string]interface{}{
			"data": trends,
		}
		s.sendSSEEvent(w, "weekly_trends", data)
	}

	// Aspect Averages
	aspects, err := s.journeys.GetAspectAverages(courseID)
	if err == nil {
		s.sendSSEEvent(w, "aspect_averages", aspects)
	}

	// Course Emotion Stats
	stats, err := s.journeys.GetCourseEmotionStats(courseID)
	if err == nil {
		s.sendSSEEvent(w, "course_stats", stats)
	}

	flusher.Flush()
}

func (s *Server) sendSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[SSE] Error marshaling %s: %v", event, err)
		return
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
