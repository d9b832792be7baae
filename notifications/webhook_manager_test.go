package notifications

import (
	"strings"
	"testing"
	"time"

	"feedback-pulse/database"
)

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }

func testAlert() *database.EmotionAlert {
	return &database.EmotionAlert{
		ID:          7,
		StudentID:   "s-204",
		CourseID:    "go-101",
		WeekNumber:  5,
		AlertType:   database.AlertFrustrationBoilingPoint,
		RiskLevel:   database.RiskCritical,
		Urgency:     "immediate",
		Probability: floatp(0.82),
		DaysToEvent: intp(3),
	}
}

func TestShouldSendFilters(t *testing.T) {
	wm := &WebhookManager{}
	alert := testAlert()

	tests := []struct {
		name string
		hook database.AlertWebhook
		want bool
	}{
		{"no filters", database.AlertWebhook{}, true},
		{"matching type", database.AlertWebhook{AlertTypes: `["frustration_boiling_point"]`}, true},
		{"other type", database.AlertWebhook{AlertTypes: `["engagement_dropout"]`}, false},
		{"empty json list passes", database.AlertWebhook{AlertTypes: `[]`}, true},
		{"matching course", database.AlertWebhook{CourseIDs: `["go-101","ml-200"]`}, true},
		{"other course", database.AlertWebhook{CourseIDs: `["ml-200"]`}, false},
		{"risk floor met", database.AlertWebhook{MinRiskLevel: database.RiskHigh}, true},
		{"probability floor met", database.AlertWebhook{MinProbability: floatp(0.5)}, true},
		{"probability floor unmet", database.AlertWebhook{MinProbability: floatp(0.9)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wm.shouldSend(tt.hook, alert); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShouldSendRiskFloorBlocksLower(t *testing.T) {
	wm := &WebhookManager{}
	alert := testAlert()
	alert.RiskLevel = database.RiskMedium

	hook := database.AlertWebhook{MinRiskLevel: database.RiskHigh}
	if wm.shouldSend(hook, alert) {
		t.Error("expected medium alert to be blocked by high floor")
	}
}

func TestShouldSendProbabilityFloorNeedsValue(t *testing.T) {
	wm := &WebhookManager{}
	alert := testAlert()
	alert.Probability = nil

	hook := database.AlertWebhook{MinProbability: floatp(0.5)}
	if wm.shouldSend(hook, alert) {
		t.Error("expected alert without probability to be blocked by probability floor")
	}
}

func TestCreatePayloadMessage(t *testing.T) {
	wm := &WebhookManager{}
	payload := wm.CreatePayload(testAlert())

	if payload.AlertID != 7 {
		t.Errorf("expected alert id 7, got %d", payload.AlertID)
	}
	if payload.RiskLevel != database.RiskCritical {
		t.Errorf("expected critical risk, got %s", payload.RiskLevel)
	}
	for _, part := range []string{"s-204", "go-101", "week 5", "frustration_boiling_point", "critical", "82%", "3 days"} {
		if !strings.Contains(payload.Message, part) {
			t.Errorf("expected message to contain %q, got %q", part, payload.Message)
		}
	}
}

func TestCreatePayloadOmitsMissingForecast(t *testing.T) {
	wm := &WebhookManager{}
	alert := testAlert()
	alert.Probability = nil
	alert.DaysToEvent = nil

	payload := wm.CreatePayload(alert)
	if strings.Contains(payload.Message, "%") {
		t.Errorf("expected no percentage in message, got %q", payload.Message)
	}
	if strings.Contains(payload.Message, "days") {
		t.Errorf("expected no day estimate in message, got %q", payload.Message)
	}
}

func TestAllowRate(t *testing.T) {
	wm := &WebhookManager{recent: make(map[int][]time.Time)}

	for i := 0; i < 3; i++ {
		if !wm.allowRate(1, 3) {
			t.Fatalf("expected send %d to be allowed", i+1)
		}
	}
	if wm.allowRate(1, 3) {
		t.Error("expected fourth send within a minute to be blocked")
	}

	// Other hooks have their own budget, zero disables the limit
	if !wm.allowRate(2, 3) {
		t.Error("expected separate hook to be allowed")
	}
	if !wm.allowRate(1, 0) {
		t.Error("expected zero limit to disable rate limiting")
	}

	// Entries older than a minute fall out of the window
	wm.recent[3] = []time.Time{time.Now().Add(-2 * time.Minute)}
	if !wm.allowRate(3, 1) {
		t.Error("expected expired entries to free the budget")
	}
}
