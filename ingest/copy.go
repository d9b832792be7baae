package ingest

import (
	"fmt"

	"github.com/lib/pq"

	"feedback-pulse/database"
)

// journeyCopyColumns lists student_journeys columns in COPY order. ID is
// omitted so the sequence assigns it.
var journeyCopyColumns = []string{
	"student_id", "course_id", "week_number", "submitted_at", "feedback_text",
	"lms_usability", "instructor_quality", "content_difficulty", "support_quality", "course_pace",
	"nps_score", "completion_status",
	"frustration_level", "engagement_level", "confidence_level", "satisfaction_level",
	"frustration_type", "frustration_intensity", "frustration_trend",
	"urgency_level", "urgency_signals", "response_urgency",
	"emotional_temperature", "emotional_volatility", "emotional_trajectory",
	"hidden_dissatisfaction", "hidden_confidence", "hidden_signals", "politeness_mask",
	"dropout_emotions", "recovery_indicators", "emotional_triggers",
	"emotion_coherence", "authenticity", "emotional_complexity",
	"pattern_signature",
}

// CopyJourneys bulk-inserts analyzed journey rows using PostgreSQL COPY
// on the raw connection. One bad row aborts the whole transaction, so
// callers validate before reaching here.
func CopyJourneys(db *database.DB, journeys []database.StudentJourney) error {
	if len(journeys) == 0 {
		return nil
	}

	tx, err := db.GetConn().Begin()
	if err != nil {
		return fmt.Errorf("CopyJourneys: begin: %w", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("student_journeys", journeyCopyColumns...))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("CopyJourneys: prepare: %w", err)
	}

	for _, j := range journeys {
		_, err := stmt.Exec(
			j.StudentID, j.CourseID, j.WeekNumber, j.SubmittedAt, j.FeedbackText,
			j.LMSUsability, j.InstructorQuality, j.ContentDifficulty, j.SupportQuality, j.CoursePace,
			j.NPSScore, j.CompletionStatus,
			j.FrustrationLevel, j.EngagementLevel, j.ConfidenceLevel, j.SatisfactionLevel,
			j.FrustrationType, j.FrustrationIntensity, j.FrustrationTrend,
			j.UrgencyLevel, j.UrgencySignals, j.ResponseUrgency,
			j.EmotionalTemperature, j.EmotionalVolatility, j.EmotionalTrajectory,
			j.HiddenDissatisfaction, j.HiddenConfidence, j.HiddenSignals, j.PolitenessMask,
			j.DropoutEmotions, j.RecoveryIndicators, j.EmotionalTriggers,
			j.EmotionCoherence, j.Authenticity, j.EmotionalComplexity,
			j.PatternSignature,
		)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("CopyJourneys: buffer row for %s week %d: %w", j.StudentID, j.WeekNumber, err)
		}
	}

	// Final Exec with no args flushes the COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return fmt.Errorf("CopyJourneys: flush: %w", err)
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return fmt.Errorf("CopyJourneys: close: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CopyJourneys: commit: %w", err)
	}
	return nil
}
