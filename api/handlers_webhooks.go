package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"feedback-pulse/database"
	models "feedback-pulse/database/models_pkg"
)

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleGetConfig exposes the runtime tuning a dashboard needs to
// label its views. Credentials never leave the process.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analysis": map[string]interface{}{
			"frustration_alert_threshold": s.cfg.Analysis.FrustrationAlertThreshold,
			"engagement_alert_floor":      s.cfg.Analysis.EngagementAlertFloor,
			"hidden_alert_confidence":     s.cfg.Analysis.HiddenAlertConfidence,
			"temperature_alert_threshold": s.cfg.Analysis.TemperatureAlertThreshold,
			"course_length_weeks":         s.cfg.Analysis.CourseLengthWeeks,
			"risk_scan_interval_minutes":  s.cfg.Analysis.RiskScanIntervalMinutes,
			"pattern_refresh_minutes":     s.cfg.Analysis.PatternRefreshIntervalMinutes,
		},
		"batch": map[string]interface{}{
			"max_workers":     s.cfg.Batch.MaxWorkers,
			"timeout_seconds": s.cfg.Batch.TimeoutSeconds,
			"batch_size":      s.cfg.Batch.BatchSize,
		},
		"llm_enabled":    s.cfg.LLM.Enabled,
		"import_formats": s.sources.ListSources(),
	})
}

// Webhook Configuration Handlers

func (s *Server) handleGetWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := s.webhooks.GetWebhooks()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhooks)
}

func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	var webhook models.AlertWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if webhook.Name == "" || webhook.URL == "" {
		http.Error(w, "name and url are required", http.StatusBadRequest)
		return
	}

	// Reset ID to let DB assign it
	webhook.ID = 0

	if err := s.webhooks.SaveWebhook(&webhook); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMq != nil {
		s.webhookMq.RefreshCache()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(webhook)
}

func (s *Server) handleUpdateWebhook(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	var webhook models.AlertWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	webhook.ID = id // Ensure ID matches path
	if err := s.webhooks.SaveWebhook(&webhook); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMq != nil {
		s.webhookMq.RefreshCache()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhook)
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.webhooks.DeleteWebhook(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Refresh webhook manager cache
	if s.webhookMq != nil {
		s.webhookMq.RefreshCache()
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetWebhookDeliveries(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	one := 1
	maxLimit := database.MaxLimit
	limit := getIntParam(r, "limit", database.DefaultLimit, &one, &maxLimit)

	logs, err := s.webhooks.GetDeliveryLogs(id, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"webhook_id": id,
		"deliveries": logs,
		"count":      len(logs),
	})
}
