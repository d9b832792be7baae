package types

import "time"

// CourseEmotionStats holds aggregated emotion metrics for one course
type CourseEmotionStats struct {
	CourseID        string  `json:"course_id"`
	StudentCount    int64   `json:"student_count"`
	FeedbackCount   int64   `json:"feedback_count"`
	AvgFrustration  float64 `json:"avg_frustration"`
	AvgEngagement   float64 `json:"avg_engagement"`
	AvgConfidence   float64 `json:"avg_confidence"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	AvgTemperature  float64 `json:"avg_temperature"`
	AvgNPS          float64 `json:"avg_nps"`
	HiddenCount     int64   `json:"hidden_dissatisfaction_count"`
	HighUrgencyPct  float64 `json:"high_urgency_pct"`
	CompletedCount  int64   `json:"completed_count"`
	DroppedCount    int64   `json:"dropped_count"`
}

// WeeklyTrendPoint holds course-level emotion averages for one week
type WeeklyTrendPoint struct {
	WeekNumber      int     `json:"week_number"`
	FeedbackCount   int64   `json:"feedback_count"`
	AvgFrustration  float64 `json:"avg_frustration"`
	AvgEngagement   float64 `json:"avg_engagement"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	AvgTemperature  float64 `json:"avg_temperature"`
	HiddenCount     int64   `json:"hidden_count"`
}

// StudentRiskScore holds one student's latest risk standing in a course
type StudentRiskScore struct {
	StudentID        string  `json:"student_id"`
	CourseID         string  `json:"course_id"`
	LatestWeek       int     `json:"latest_week"`
	FrustrationLevel float64 `json:"frustration_level"`
	EngagementLevel  float64 `json:"engagement_level"`
	UrgencyLevel     string  `json:"urgency_level"`
	Hidden           bool    `json:"hidden_dissatisfaction"`
	RiskLevel        string  `json:"risk_level"`
}

// RiskSummary aggregates open risk across one course
type RiskSummary struct {
	CourseID      string             `json:"course_id"`
	GeneratedAt   time.Time          `json:"generated_at"`
	CriticalCount int64              `json:"critical_count"`
	HighCount     int64              `json:"high_count"`
	MediumCount   int64              `json:"medium_count"`
	LowCount      int64              `json:"low_count"`
	OpenAlerts    int64              `json:"open_alerts"`
	TopStudents   []StudentRiskScore `json:"top_students"`
}

// AspectAverages holds per-aspect rating means for one course
type AspectAverages struct {
	CourseID          string  `json:"course_id"`
	LMSUsability      float64 `json:"lms_usability"`
	InstructorQuality float64 `json:"instructor_quality"`
	ContentDifficulty float64 `json:"content_difficulty"`
	SupportQuality    float64 `json:"support_quality"`
	CoursePace        float64 `json:"course_pace"`
	SampleCount       int64   `json:"sample_count"`
}

// AlertCounts holds alert totals grouped by type for dashboards
type AlertCounts struct {
	AlertType      string `json:"alert_type"`
	Total          int64  `json:"total"`
	Unacknowledged int64  `json:"unacknowledged"`
}
