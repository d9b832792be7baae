package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"feedback-pulse/cache"
	"feedback-pulse/database"
	"feedback-pulse/database/webhooks"
	"feedback-pulse/helpers"
)

// WebhookManager delivers emotion alerts to registered webhooks
type WebhookManager struct {
	repo   *webhooks.Repository
	redis  *cache.RedisClient
	client *http.Client

	rateMu sync.Mutex
	recent map[int][]time.Time
}

// AlertPayload represents the JSON payload sent to webhooks
type AlertPayload struct {
	AlertID          int64                  `json:"AlertID"`
	AlertType        string                 `json:"AlertType"`
	CreatedAt        time.Time              `json:"CreatedAt"`
	StudentID        string                 `json:"StudentID"`
	CourseID         string                 `json:"CourseID"`
	WeekNumber       int                    `json:"WeekNumber"`
	RiskLevel        string                 `json:"RiskLevel"`
	Urgency          string                 `json:"Urgency"`
	Probability      *float64               `json:"Probability,omitempty"`
	DaysToEvent      *int                   `json:"DaysToEvent,omitempty"`
	InterventionType string                 `json:"InterventionType,omitempty"`
	TargetDate       string                 `json:"TargetDate,omitempty"`
	Message          string                 `json:"Message"`
	Metadata         map[string]interface{} `json:"Metadata,omitempty"`
}

// NewWebhookManager creates a new webhook manager
func NewWebhookManager(repo *webhooks.Repository, redis *cache.RedisClient) *WebhookManager {
	return &WebhookManager{
		repo:  repo,
		redis: redis,
		client: &http.Client{
			Timeout: 30 * time.Second, // Upper bound, per-hook timeouts apply below
		},
		recent: make(map[int][]time.Time),
	}
}

// SendAlert processes and sends the alert to matching webhooks
func (wm *WebhookManager) SendAlert(alert *database.EmotionAlert) {
	// 1. Get all active webhooks
	hooks, err := wm.getActiveWebhooks()
	if err != nil {
		log.Printf("⚠️  Failed to load webhooks: %v", err)
		return
	}

	if len(hooks) == 0 {
		return
	}

	// 2. Prepare payload
	payload := wm.CreatePayload(alert)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  Failed to marshal webhook payload: %v", err)
		return
	}

	// 3. Process each webhook (async)
	for _, hook := range hooks {
		if !wm.shouldSend(hook, alert) {
			continue
		}
		if !wm.allowRate(hook.ID, hook.MaxAlertsPerMinute) {
			wm.logDelivery(hook.ID, alert.ID, "RATE_LIMITED", 0, "per-minute alert limit reached", 0)
			continue
		}
		go wm.deliverWebhook(hook, alert.ID, payloadBytes)
	}
}

func (wm *WebhookManager) getActiveWebhooks() ([]database.AlertWebhook, error) {
	// Try cache first
	cacheKey := "active_webhooks"
	if wm.redis != nil {
		var cached []database.AlertWebhook
		if err := wm.redis.Get(context.Background(), cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	// Fetch from DB
	hooks, err := wm.repo.GetActiveWebhooks()
	if err != nil {
		return nil, err
	}

	// Update cache (expire 1 hour)
	if wm.redis != nil {
		_ = wm.redis.Set(context.Background(), cacheKey, hooks, 1*time.Hour)
	}

	return hooks, err
}

// CreatePayload generates the webhook payload from an alert
func (wm *WebhookManager) CreatePayload(alert *database.EmotionAlert) AlertPayload {
	// Format readable message
	// Example: "🔴 EMOTION ALERT! s-204 @ go-101 week 5 | frustration_boiling_point | Risk: critical (82%) | ~3 days"
	message := fmt.Sprintf("%s EMOTION ALERT! %s @ %s %s | %s | Risk: %s",
		helpers.RiskEmoji(alert.RiskLevel),
		alert.StudentID,
		alert.CourseID,
		helpers.FormatWeekRange(alert.WeekNumber, alert.WeekNumber),
		alert.AlertType,
		alert.RiskLevel,
	)
	if alert.Probability != nil {
		message += fmt.Sprintf(" (%s)", helpers.FormatPercent(*alert.Probability))
	}
	if alert.DaysToEvent != nil {
		message += fmt.Sprintf(" | ~%s", helpers.FormatDays(*alert.DaysToEvent))
	}

	return AlertPayload{
		AlertID:          alert.ID,
		AlertType:        alert.AlertType,
		CreatedAt:        alert.CreatedAt,
		StudentID:        alert.StudentID,
		CourseID:         alert.CourseID,
		WeekNumber:       alert.WeekNumber,
		RiskLevel:        alert.RiskLevel,
		Urgency:          alert.Urgency,
		Probability:      alert.Probability,
		DaysToEvent:      alert.DaysToEvent,
		InterventionType: alert.InterventionType,
		TargetDate:       alert.TargetDate,
		Message:          message,
		Metadata: map[string]interface{}{
			"acknowledged": alert.Acknowledged,
		},
	}
}

func (wm *WebhookManager) shouldSend(hook database.AlertWebhook, alert *database.EmotionAlert) bool {
	// Check alert type filter
	if hook.AlertTypes != "" && hook.AlertTypes != "null" && hook.AlertTypes != "[]" {
		// Lenient check: matches if the type is present in the string (JSON or CSV)
		if !strings.Contains(hook.AlertTypes, alert.AlertType) {
			return false
		}
	}

	// Check course filter
	if hook.CourseIDs != "" && hook.CourseIDs != "null" && hook.CourseIDs != "[]" {
		if !strings.Contains(hook.CourseIDs, alert.CourseID) {
			return false
		}
	}

	// Check thresholds
	if hook.MinRiskLevel != "" {
		if helpers.RiskRank(alert.RiskLevel) < helpers.RiskRank(hook.MinRiskLevel) {
			return false
		}
	}

	if hook.MinProbability != nil {
		if alert.Probability == nil || *alert.Probability < *hook.MinProbability {
			return false
		}
	}

	return true
}

// allowRate applies the per-hook sliding one-minute alert budget
func (wm *WebhookManager) allowRate(hookID int, maxPerMinute int) bool {
	if maxPerMinute <= 0 {
		return true
	}

	wm.rateMu.Lock()
	defer wm.rateMu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)
	kept := wm.recent[hookID][:0]
	for _, ts := range wm.recent[hookID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= maxPerMinute {
		wm.recent[hookID] = kept
		return false
	}

	wm.recent[hookID] = append(kept, now)
	return true
}

func (wm *WebhookManager) deliverWebhook(hook database.AlertWebhook, alertID int64, payload []byte) {
	maxRetries := hook.RetryCount
	if maxRetries <= 0 {
		maxRetries = 1
	}

	timeout := time.Duration(hook.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	method := hook.Method
	if method == "" {
		method = http.MethodPost
	}

	var lastErr error
	var lastStatus int

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		req, err := http.NewRequestWithContext(ctx, method, hook.URL, bytes.NewBuffer(payload))
		if err != nil {
			cancel()
			lastErr = err
			break
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "Feedback-Pulse/1.0")
		wm.applyAuth(req, hook)
		wm.applyCustomHeaders(req, hook)

		log.Printf("🔹 Sending webhook to %s (Attempt %d/%d)", hook.URL, attempt, maxRetries)

		resp, err := wm.client.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			// Success
			wm.logDelivery(hook.ID, alertID, "SUCCESS", resp.StatusCode, "", attempt)
			if dbErr := wm.repo.RecordDeliveryResult(hook.ID, true, ""); dbErr != nil {
				log.Printf("⚠️  Failed to update webhook counters: %v", dbErr)
			}
			resp.Body.Close()
			cancel()
			return
		}

		lastErr = err
		lastStatus = 0
		if resp != nil {
			lastStatus = resp.StatusCode
			resp.Body.Close()
		}
		cancel()

		// Wait before retry
		if attempt < maxRetries {
			time.Sleep(time.Duration(hook.RetryDelaySeconds) * time.Second)
		}
	}

	// Failed
	status := "FAILED"
	errMsg := ""
	if lastErr != nil {
		errMsg = lastErr.Error()
		if errors.Is(lastErr, context.DeadlineExceeded) {
			status = "TIMEOUT"
		}
	} else if lastStatus != 0 {
		errMsg = fmt.Sprintf("unexpected status %d", lastStatus)
	}

	wm.logDelivery(hook.ID, alertID, status, lastStatus, errMsg, maxRetries)
	if dbErr := wm.repo.RecordDeliveryResult(hook.ID, false, errMsg); dbErr != nil {
		log.Printf("⚠️  Failed to update webhook counters: %v", dbErr)
	}
}

func (wm *WebhookManager) applyAuth(req *http.Request, hook database.AlertWebhook) {
	if hook.AuthType == "BEARER" {
		req.Header.Set("Authorization", "Bearer "+hook.AuthValue)
	} else if hook.AuthHeader != "" {
		req.Header.Set(hook.AuthHeader, hook.AuthValue)
	}
}

func (wm *WebhookManager) applyCustomHeaders(req *http.Request, hook database.AlertWebhook) {
	if hook.CustomHeaders == "" || hook.CustomHeaders == "null" {
		return
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(hook.CustomHeaders), &headers); err != nil {
		return
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
}

func (wm *WebhookManager) logDelivery(webhookID int, alertID int64, status string, code int, err string, attempt int) {
	logEntry := &database.WebhookDeliveryLog{
		WebhookID:    webhookID,
		AlertID:      &alertID,
		TriggeredAt:  time.Now(),
		Status:       status,
		RetryAttempt: attempt,
	}

	if code != 0 {
		logEntry.HTTPStatusCode = &code
	}
	if err != "" {
		logEntry.ErrorMessage = err
	}

	if dbErr := wm.repo.SaveDeliveryLog(logEntry); dbErr != nil {
		log.Printf("⚠️  Failed to save webhook log: %v", dbErr)
	}
}

// RefreshCache reloads webhook configurations
func (wm *WebhookManager) RefreshCache() {
	if wm.redis != nil {
		_ = wm.redis.Delete(context.Background(), "active_webhooks")
		log.Println("🔄 Webhook cache invalidated")
	}
}
