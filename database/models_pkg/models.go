package models

import "time"

// StudentJourney represents one weekly feedback observation for a
// (student, course) pair, together with the emotion profile extracted
// from it. The raw text and aspect ratings are kept so a journey can be
// re-analyzed when the extraction lexicon changes.
//
// Key Fields:
//   - StudentID/CourseID: identify the journey (composite index)
//   - WeekNumber: course week the feedback belongs to (1-based)
//   - FeedbackText: the raw free-text feedback
//   - LMSUsability..CoursePace: optional 1-5 aspect ratings
//   - CompletionStatus: enrolled, completed, or dropped_week_N
//   - FrustrationLevel..EmotionalComplexity: the extracted profile
//   - PatternSignature: coarse bucketing key for pattern matching
//
// List-valued profile fields (urgency signals, hidden signals, dropout
// emotions, recovery indicators, triggers) are stored as JSON arrays in
// text columns.
type StudentJourney struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID    string    `gorm:"size:64;index:idx_journey_student_course;not null" json:"student_id"`
	CourseID     string    `gorm:"size:64;index:idx_journey_student_course;index;not null" json:"course_id"`
	WeekNumber   int       `gorm:"index;not null" json:"week_number"`
	SubmittedAt  time.Time `gorm:"index;not null" json:"submitted_at"`
	FeedbackText string    `gorm:"type:text" json:"feedback_text"`

	// Aspect ratings (1-5 scale, nil when the student skipped one)
	LMSUsability      *int `json:"lms_usability,omitempty"`
	InstructorQuality *int `json:"instructor_quality,omitempty"`
	ContentDifficulty *int `json:"content_difficulty,omitempty"`
	SupportQuality    *int `json:"support_quality,omitempty"`
	CoursePace        *int `json:"course_pace,omitempty"`
	NPSScore          *int `json:"nps_score,omitempty"`

	CompletionStatus string `gorm:"size:32;index;default:enrolled" json:"completion_status"`

	// Primary emotion levels
	FrustrationLevel  float64 `gorm:"type:decimal(5,4)" json:"frustration_level"`
	EngagementLevel   float64 `gorm:"type:decimal(5,4)" json:"engagement_level"`
	ConfidenceLevel   float64 `gorm:"type:decimal(5,4)" json:"confidence_level"`
	SatisfactionLevel float64 `gorm:"type:decimal(5,4)" json:"satisfaction_level"`

	// Frustration classification
	FrustrationType      string `gorm:"size:16" json:"frustration_type"`
	FrustrationIntensity string `gorm:"size:16" json:"frustration_intensity"`
	FrustrationTrend     string `gorm:"size:16" json:"frustration_trend"`

	// Urgency
	UrgencyLevel    string `gorm:"size:16;index" json:"urgency_level"`
	UrgencySignals  string `json:"urgency_signals"` // Stored as JSON array
	ResponseUrgency string `gorm:"size:16" json:"response_urgency"`

	// Emotional dynamics
	EmotionalTemperature float64 `gorm:"type:decimal(5,4)" json:"emotional_temperature"`
	EmotionalVolatility  float64 `gorm:"type:decimal(5,4)" json:"emotional_volatility"`
	EmotionalTrajectory  string  `gorm:"size:16" json:"emotional_trajectory"`

	// Hidden dissatisfaction
	HiddenDissatisfaction bool    `gorm:"index" json:"hidden_dissatisfaction_flag"`
	HiddenConfidence      float64 `gorm:"type:decimal(5,4)" json:"hidden_dissatisfaction_confidence"`
	HiddenSignals         string  `json:"hidden_signals"` // Stored as JSON array
	PolitenessMask        float64 `gorm:"type:decimal(5,4)" json:"politeness_mask_level"`

	// Advanced markers
	DropoutEmotions    string `json:"dropout_risk_emotions"`        // Stored as JSON array
	RecoveryIndicators string `json:"positive_recovery_indicators"` // Stored as JSON array
	EmotionalTriggers  string `json:"emotional_triggers"`           // Stored as JSON array

	// Meta-emotional
	EmotionCoherence    float64 `gorm:"type:decimal(5,4)" json:"emotion_coherence"`
	Authenticity        float64 `gorm:"type:decimal(5,4)" json:"sentiment_authenticity"`
	EmotionalComplexity string  `gorm:"size:16" json:"emotional_complexity"`

	PatternSignature string `gorm:"size:128;index" json:"pattern_signature"`
}

// TableName specifies the table name for StudentJourney
func (StudentJourney) TableName() string {
	return "student_journeys"
}

// EmotionAlert represents a risk escalation raised by the background
// monitor for one student.
//
// Key Fields:
//   - AlertType: frustration_boiling_point, engagement_dropout,
//     hidden_dissatisfaction or temperature_spike
//   - RiskLevel: minimal, low, medium, high, critical
//   - DaysToEvent: projected days until the risk materializes (nil when
//     the fitted curve never crosses the threshold)
//   - Probability: escalation probability where the analysis yields one
//   - InterventionType/TargetDate: the recommended response
type EmotionAlert struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt        time.Time  `gorm:"index;not null" json:"created_at"`
	StudentID        string     `gorm:"size:64;index;not null" json:"student_id"`
	CourseID         string     `gorm:"size:64;index;not null" json:"course_id"`
	WeekNumber       int        `json:"week_number"`
	AlertType        string     `gorm:"size:48;index;not null" json:"alert_type"`
	RiskLevel        string     `gorm:"size:16;not null" json:"risk_level"`
	Urgency          string     `gorm:"size:24" json:"urgency"`
	Probability      *float64   `gorm:"type:decimal(5,4)" json:"probability,omitempty"`
	DaysToEvent      *int       `json:"days_to_event,omitempty"`
	Message          string     `gorm:"type:text" json:"message"`
	InterventionType string     `gorm:"size:48" json:"intervention_type,omitempty"`
	TargetDate       string     `gorm:"size:10" json:"target_date,omitempty"`
	Acknowledged     bool       `gorm:"default:false;index" json:"acknowledged"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy   string     `gorm:"size:64" json:"acknowledged_by,omitempty"`
}

// TableName specifies the table name for EmotionAlert
func (EmotionAlert) TableName() string {
	return "emotion_alerts"
}

// Intervention records a support action planned or taken for a student,
// optionally linked to the alert that prompted it.
type Intervention struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AlertID     *int64     `gorm:"index" json:"alert_id,omitempty"`
	StudentID   string     `gorm:"size:64;index;not null" json:"student_id"`
	CourseID    string     `gorm:"size:64;index;not null" json:"course_id"`
	Type        string     `gorm:"size:48;not null" json:"type"`
	Timing      string     `gorm:"size:24" json:"timing"`
	TargetDate  string     `gorm:"size:10" json:"target_date"`
	Confidence  float64    `gorm:"type:decimal(5,4)" json:"confidence"`
	Status      string     `gorm:"size:24;default:planned" json:"status"` // planned, in_progress, done, skipped
	Outcome     string     `gorm:"size:48" json:"outcome,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for Intervention
func (Intervention) TableName() string {
	return "interventions"
}

// AlertWebhook holds webhook registration
type AlertWebhook struct {
	ID                 int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	URL                string     `gorm:"not null" json:"url"`
	Method             string     `gorm:"size:10;default:POST" json:"method"`
	AuthType           string     `gorm:"size:20" json:"auth_type"`
	AuthHeader         string     `gorm:"size:100" json:"auth_header"`
	AuthValue          string     `json:"auth_value"`
	AlertTypes         string     `json:"alert_types"` // Stored as JSON array
	CourseIDs          string     `json:"course_ids"`  // Stored as JSON array
	MinRiskLevel       string     `gorm:"size:16" json:"min_risk_level,omitempty"`
	MinProbability     *float64   `gorm:"type:decimal(5,4)" json:"min_probability,omitempty"`
	IsActive           bool       `gorm:"default:true" json:"is_active"`
	RetryCount         int        `gorm:"default:3" json:"retry_count"`
	RetryDelaySeconds  int        `gorm:"default:5" json:"retry_delay_seconds"`
	TimeoutSeconds     int        `gorm:"default:10" json:"timeout_seconds"`
	MaxAlertsPerMinute int        `gorm:"default:10" json:"max_alerts_per_minute"`
	CustomHeaders      string     `json:"custom_headers"` // Stored as JSON
	LastTriggeredAt    *time.Time `json:"last_triggered_at,omitempty"`
	LastSuccessAt      *time.Time `json:"last_success_at,omitempty"`
	LastError          string     `json:"last_error,omitempty"`
	TotalSent          int        `gorm:"default:0" json:"total_sent"`
	TotalFailed        int        `gorm:"default:0" json:"total_failed"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for AlertWebhook
func (AlertWebhook) TableName() string {
	return "alert_webhooks"
}

// WebhookDeliveryLog holds webhook delivery logs
type WebhookDeliveryLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WebhookID      int       `gorm:"index;not null" json:"webhook_id"`
	AlertID        *int64    `json:"alert_id,omitempty"`
	TriggeredAt    time.Time `gorm:"index;not null" json:"triggered_at"`
	Status         string    `gorm:"type:text" json:"status"` // SUCCESS, FAILED, TIMEOUT, RATE_LIMITED
	HTTPStatusCode *int      `json:"http_status_code,omitempty"`
	ResponseBody   string    `json:"response_body,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	RetryAttempt   int       `gorm:"default:0" json:"retry_attempt"`
}

// TableName specifies the table name for WebhookDeliveryLog
func (WebhookDeliveryLog) TableName() string {
	return "webhook_delivery_logs"
}

// PatternOutcome stores the per-cluster outcome statistics computed by
// the pattern refresher from completed journeys. Rows are replaced on
// each refresh, keyed by (course_id, cluster_id).
type PatternOutcome struct {
	ID                       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID                 string    `gorm:"size:64;index;not null" json:"course_id"`
	ClusterID                int       `gorm:"not null" json:"cluster_id"`
	SignaturePrototype       string    `gorm:"size:128" json:"signature_prototype"`
	MemberCount              int       `json:"member_count"`
	AvgSimilarity            float64   `gorm:"type:decimal(5,4)" json:"avg_similarity"`
	DropoutRisk              float64   `gorm:"type:decimal(5,4)" json:"dropout_risk"`
	InterventionSuccess      float64   `gorm:"type:decimal(5,4)" json:"intervention_success_probability"`
	RecommendedInterventions string    `json:"recommended_interventions"` // Stored as JSON array
	ComputedAt               time.Time `gorm:"index;not null" json:"computed_at"`
}

// TableName specifies the table name for PatternOutcome
func (PatternOutcome) TableName() string {
	return "pattern_outcomes"
}
