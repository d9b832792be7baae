package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feedback-pulse/database"
	models "feedback-pulse/database/models_pkg"
	"feedback-pulse/websocket"
)

var validInterventionStatus = map[string]bool{
	database.InterventionPlanned:    true,
	database.InterventionInProgress: true,
	database.InterventionDone:       true,
	database.InterventionSkipped:    true,
}

// handleGetAlerts lists emotion alerts with optional filters
func (s *Server) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	studentID := r.URL.Query().Get("student_id")
	alertType := r.URL.Query().Get("type")
	riskLevel := r.URL.Query().Get("risk_level")
	unacknowledgedOnly := r.URL.Query().Get("unacknowledged") == "true"

	var since time.Time
	if days := getIntParam(r, "days", 0, nil, nil); days > 0 {
		since = time.Now().AddDate(0, 0, -days)
	}

	one := 1
	zero := 0
	maxLimit := database.MaxLimit
	limit := getIntParam(r, "limit", database.DefaultLimit, &one, &maxLimit)
	offset := getIntParam(r, "offset", 0, &zero, nil)

	alerts, err := s.alerts.GetAlerts(courseID, studentID, alertType, riskLevel, unacknowledgedOnly, since, limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load alerts", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
		"limit":  limit,
		"offset": offset,
	})
}

// handleGetAlertCounts returns alert totals grouped by type
func (s *Server) handleGetAlertCounts(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")

	counts, err := s.alerts.GetAlertCountsByType(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load alert counts", err)
		return
	}

	open, err := s.alerts.CountOpenAlerts(courseID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to count open alerts", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"course_id": courseID,
		"counts":    counts,
		"open":      open,
	})
}

// handleAcknowledgeAlert marks one alert as handled
func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid alert id", http.StatusBadRequest)
		return
	}

	var req struct {
		AcknowledgedBy string `json:"acknowledged_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AcknowledgedBy == "" {
		req.AcknowledgedBy = "api"
	}

	if err := s.alerts.AcknowledgeAlert(id, req.AcknowledgedBy); err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Alert not found", http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to acknowledge alert", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":              id,
		"acknowledged":    true,
		"acknowledged_by": req.AcknowledgedBy,
	})
}

// handleGetInterventions lists interventions with optional filters
func (s *Server) handleGetInterventions(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	courseID := r.URL.Query().Get("course_id")
	status := r.URL.Query().Get("status")

	one := 1
	maxLimit := database.MaxLimit
	limit := getIntParam(r, "limit", database.DefaultLimit, &one, &maxLimit)

	interventions, err := s.alerts.GetInterventions(studentID, courseID, status, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load interventions", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interventions": interventions,
		"count":         len(interventions),
	})
}

// handleCreateIntervention records a planned or taken support action
func (s *Server) handleCreateIntervention(w http.ResponseWriter, r *http.Request) {
	var intervention models.Intervention
	if err := json.NewDecoder(r.Body).Decode(&intervention); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if intervention.StudentID == "" || intervention.CourseID == "" || intervention.Type == "" {
		http.Error(w, "student_id, course_id and type are required", http.StatusBadRequest)
		return
	}
	if intervention.Status == "" {
		intervention.Status = database.InterventionPlanned
	}
	if !validInterventionStatus[intervention.Status] {
		http.Error(w, "Invalid intervention status", http.StatusBadRequest)
		return
	}

	intervention.ID = 0
	if err := s.alerts.SaveIntervention(&intervention); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to save intervention", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(intervention)
}

// handleUpdateInterventionStatus moves an intervention through its
// lifecycle and records the outcome
func (s *Server) handleUpdateInterventionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid intervention id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status  string `json:"status"`
		Outcome string `json:"outcome,omitempty"`
		Notes   string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validInterventionStatus[req.Status] {
		http.Error(w, "Invalid intervention status", http.StatusBadRequest)
		return
	}

	if err := s.alerts.UpdateInterventionStatus(id, req.Status, req.Outcome, req.Notes); err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Intervention not found", http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to update intervention", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     id,
		"status": req.Status,
	})
}

// handleAlertsWS upgrades the connection and subscribes it to the alert
// hub, optionally scoped by the course_id query parameter
func (s *Server) handleAlertsWS(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(s.hub, w, r)
}
