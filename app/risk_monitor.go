package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"feedback-pulse/cache"
	"feedback-pulse/config"
	"feedback-pulse/database"
	alertsrepo "feedback-pulse/database/alerts"
	"feedback-pulse/helpers"
	"feedback-pulse/notifications"
	"feedback-pulse/realtime"
	"feedback-pulse/trajectory"
	"feedback-pulse/websocket"
)

// RiskMonitor periodically re-forecasts students with recent feedback
// and raises alerts when a risk crosses the configured thresholds
type RiskMonitor struct {
	cfg      *config.Config
	journeys *database.JourneyRepository
	alerts   *alertsrepo.Repository
	webhooks *notifications.WebhookManager
	broker   *realtime.Broker
	hub      *websocket.Hub
	redis    *cache.RedisClient
	done     chan bool
}

// NewRiskMonitor creates a new risk monitor
func NewRiskMonitor(
	cfg *config.Config,
	journeys *database.JourneyRepository,
	alerts *alertsrepo.Repository,
	webhooks *notifications.WebhookManager,
	broker *realtime.Broker,
	hub *websocket.Hub,
	redis *cache.RedisClient,
) *RiskMonitor {
	return &RiskMonitor{
		cfg:      cfg,
		journeys: journeys,
		alerts:   alerts,
		webhooks: webhooks,
		broker:   broker,
		hub:      hub,
		redis:    redis,
		done:     make(chan bool),
	}
}

// Start begins the risk scan loop
func (rm *RiskMonitor) Start() {
	log.Println("📊 Risk Monitor started")

	interval := time.Duration(rm.cfg.Analysis.RiskScanIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	rm.scan()

	for {
		select {
		case <-ticker.C:
			rm.scan()
		case <-rm.done:
			log.Println("📊 Risk Monitor stopped")
			return
		}
	}
}

// Stop gracefully stops the monitor
func (rm *RiskMonitor) Stop() {
	close(rm.done)
}

// scan walks every active course and evaluates each student's latest
// submission
func (rm *RiskMonitor) scan() {
	lookback := time.Duration(rm.cfg.Analysis.RiskScanRecentWeeks) * 7 * 24 * time.Hour
	since := time.Now().Add(-lookback)

	courses, err := rm.journeys.GetActiveCourses(since)
	if err != nil {
		log.Printf("❌ Risk scan: %v", err)
		return
	}

	scanned := 0
	raised := 0
	for _, courseID := range courses {
		journeys, err := rm.journeys.GetRecentJourneys(courseID, since, 0)
		if err != nil {
			log.Printf("❌ Risk scan for %s: %v", courseID, err)
			continue
		}

		// Rows arrive newest first, so the first row per student is the
		// latest submission
		seen := make(map[string]bool, len(journeys))
		for _, journey := range journeys {
			if seen[journey.StudentID] {
				continue
			}
			seen[journey.StudentID] = true
			scanned++
			raised += rm.evaluateStudent(journey)
		}
	}

	if raised > 0 {
		log.Printf("✅ Risk scan: %d alerts raised from %d students", raised, scanned)
	}

	rm.broker.Broadcast(realtime.EventRiskSummary, map[string]interface{}{
		"courses_scanned":  len(courses),
		"students_scanned": scanned,
		"alerts_raised":    raised,
		"scanned_at":       time.Now(),
	})
}

// evaluateStudent forecasts one student and raises alerts for every
// threshold the forecast or the latest profile crosses. Returns the
// number of alerts raised.
func (rm *RiskMonitor) evaluateStudent(latest database.StudentJourney) int {
	history, err := rm.journeys.GetStudentHistory(latest.StudentID, latest.CourseID)
	if err != nil {
		log.Printf("❌ History for %s: %v", latest.StudentID, err)
		return 0
	}
	if len(history) == 0 {
		return 0
	}

	prediction := trajectory.Predict(history)

	raised := 0
	for _, candidate := range rm.alertCandidates(latest, prediction) {
		if rm.raiseAlert(candidate) {
			raised++
		}
	}
	return raised
}

// actionable reports whether a forecast risk is worth an alert
func actionable(risk trajectory.RiskLevel) bool {
	return risk == trajectory.RiskHigh || risk == trajectory.RiskCritical
}

// alertCandidates builds the alerts implied by the latest profile and
// its forecast. Deduplication happens later, in raiseAlert.
func (rm *RiskMonitor) alertCandidates(latest database.StudentJourney, prediction trajectory.Prediction) []database.EmotionAlert {
	var candidates []database.EmotionAlert

	base := database.EmotionAlert{
		CreatedAt:  time.Now(),
		StudentID:  latest.StudentID,
		CourseID:   latest.CourseID,
		WeekNumber: latest.WeekNumber,
	}

	frustration := prediction.Risks.FrustrationBoilingPoint
	if actionable(frustration.RiskLevel) || latest.FrustrationLevel >= rm.cfg.Analysis.FrustrationAlertThreshold {
		alert := base
		alert.AlertType = database.AlertFrustrationBoilingPoint
		alert.RiskLevel = string(frustration.RiskLevel)
		if !actionable(frustration.RiskLevel) {
			// Raw level crossed the threshold before the curve did
			alert.RiskLevel = database.RiskHigh
		}
		alert.Urgency = string(frustration.Urgency)
		alert.DaysToEvent = frustration.DaysToThreshold
		if frustration.DaysToThreshold != nil {
			alert.Message = fmt.Sprintf("Frustration projected to hit the boiling point in %s (trend: %s)",
				helpers.FormatDays(*frustration.DaysToThreshold), frustration.Trend)
		} else {
			alert.Message = fmt.Sprintf("Frustration at %s with %s trend",
				helpers.FormatScore(latest.FrustrationLevel), frustration.Trend)
		}
		if prediction.Windows.Primary.Type == trajectory.WindowFrustration {
			alert.InterventionType = string(prediction.Windows.Primary.Type)
			alert.TargetDate = prediction.Windows.Primary.TargetDate
		}
		candidates = append(candidates, alert)
	}

	dropout := prediction.Risks.EngagementDropout
	if actionable(dropout.DropoutRisk) || latest.EngagementLevel <= rm.cfg.Analysis.EngagementAlertFloor {
		alert := base
		alert.AlertType = database.AlertEngagementDropout
		alert.RiskLevel = string(dropout.DropoutRisk)
		if !actionable(dropout.DropoutRisk) {
			alert.RiskLevel = database.RiskHigh
		}
		alert.InterventionType = string(dropout.InterventionType)
		alert.DaysToEvent = dropout.DaysToIntervention
		if dropout.WeeksToDisengagement != nil {
			alert.Message = fmt.Sprintf("Engagement projected to bottom out in %.1f weeks, response: %s",
				*dropout.WeeksToDisengagement, dropout.InterventionType)
		} else {
			alert.Message = fmt.Sprintf("Engagement down to %s, response: %s",
				helpers.FormatScore(latest.EngagementLevel), dropout.InterventionType)
		}
		candidates = append(candidates, alert)
	}

	explosion := prediction.Risks.DissatisfactionExplosion
	if latest.HiddenDissatisfaction && latest.HiddenConfidence >= rm.cfg.Analysis.HiddenAlertConfidence {
		alert := base
		alert.AlertType = database.AlertHiddenDissatisfaction
		alert.RiskLevel = string(explosion.Risk)
		if !actionable(explosion.Risk) {
			alert.RiskLevel = database.RiskMedium
		}
		alert.Urgency = string(explosion.Timing)
		probability := explosion.ExplosionProbability
		alert.Probability = &probability
		alert.DaysToEvent = explosion.DaysToExplosion
		alert.InterventionType = string(explosion.Approach)
		alert.Message = fmt.Sprintf("Hidden dissatisfaction detected (%s confidence), %s chance of open escalation",
			helpers.FormatPercent(latest.HiddenConfidence), helpers.FormatPercent(explosion.ExplosionProbability))
		candidates = append(candidates, alert)
	}

	if latest.EmotionalTemperature >= rm.cfg.Analysis.TemperatureAlertThreshold {
		alert := base
		alert.AlertType = database.AlertTemperatureSpike
		alert.RiskLevel = database.RiskHigh
		if latest.EmotionalTemperature >= 0.9 {
			alert.RiskLevel = database.RiskCritical
		}
		alert.Urgency = latest.ResponseUrgency
		alert.Message = fmt.Sprintf("Emotional temperature spiked to %s in week %d",
			helpers.FormatScore(latest.EmotionalTemperature), latest.WeekNumber)
		candidates = append(candidates, alert)
	}

	return candidates
}

// raiseAlert persists one alert and fans it out to every delivery
// channel. Repeats of the same alert type inside the dedup window are
// dropped.
func (rm *RiskMonitor) raiseAlert(alert database.EmotionAlert) bool {
	recent, err := rm.alerts.HasRecentAlert(alert.StudentID, alert.CourseID, alert.AlertType, database.AlertDedupWindow)
	if err != nil {
		log.Printf("❌ Alert dedup check: %v", err)
		return false
	}
	if recent {
		return false
	}

	if err := rm.alerts.SaveAlert(&alert); err != nil {
		log.Printf("❌ Save alert: %v", err)
		return false
	}

	log.Printf("%s ALERT %s: %s @ %s week %d (%s)",
		helpers.RiskEmoji(alert.RiskLevel), alert.AlertType, alert.StudentID, alert.CourseID, alert.WeekNumber, alert.RiskLevel)

	rm.broker.Broadcast(realtime.EventAlertRaised, alert)
	rm.hub.BroadcastAlert(&alert)
	go rm.webhooks.SendAlert(&alert)

	if rm.redis != nil {
		if err := rm.redis.Publish(context.Background(), "emotion_alerts", alert); err != nil {
			log.Printf("⚠️  Alert publish failed: %v", err)
		}
	}

	return true
}
