package database

import "time"

// Completion status values for student journeys
const (
	StatusEnrolled  = "enrolled"
	StatusCompleted = "completed"

	// DroppedPrefix marks dropout statuses; the drop week is appended,
	// e.g. dropped_week_5.
	DroppedPrefix = "dropped"
)

// Alert types raised by the risk monitor
const (
	AlertFrustrationBoilingPoint = "frustration_boiling_point"
	AlertEngagementDropout       = "engagement_dropout"
	AlertHiddenDissatisfaction   = "hidden_dissatisfaction"
	AlertTemperatureSpike        = "temperature_spike"
)

// Risk level values persisted on alerts and pattern outcomes
const (
	RiskMinimal  = "minimal"
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Intervention lifecycle values
const (
	InterventionPlanned    = "planned"
	InterventionInProgress = "in_progress"
	InterventionDone       = "done"
	InterventionSkipped    = "skipped"

	// OutcomeSuccessful marks a done intervention that worked; these feed
	// the per-cluster recommendations.
	OutcomeSuccessful = "successful"
)

// Aspect rating bounds
const (
	AspectScoreMin = 1
	AspectScoreMax = 5
	NPSScoreMin    = 0
	NPSScoreMax    = 10
)

// Query limits
const (
	DefaultLimit = 50
	TopLimit     = 20
	MaxLimit     = 100
)

// Lookback periods for monitor scans and dashboards
const (
	// AlertDedupWindow suppresses repeats of the same alert type for a
	// student within this window.
	AlertDedupWindow  = 24 * time.Hour
	RecentFeedbackAge = 14 * 24 * time.Hour

	// PatternLookbackAge bounds how far back completed journeys feed the
	// pattern refresher.
	PatternLookbackAge = 180 * 24 * time.Hour
)

// Data retention policies
const (
	RetentionJourneys     = 2 * 365 * 24 * time.Hour
	RetentionAlerts       = 365 * 24 * time.Hour
	RetentionDeliveryLogs = 90 * 24 * time.Hour
)

// Course shape defaults
const (
	DefaultCourseLengthWeeks = 12
)
