package database

import (
	"fmt"
	"time"

	"feedback-pulse/database/types"
)

// Dashboard Query Methods

// GetCourseEmotionStats aggregates emotion metrics across one course
func (r *JourneyRepository) GetCourseEmotionStats(courseID string) (*types.CourseEmotionStats, error) {
	var stats types.CourseEmotionStats
	err := r.db.db.Raw(`
		SELECT
			? AS course_id,
			COUNT(DISTINCT student_id) AS student_count,
			COUNT(*) AS feedback_count,
			COALESCE(AVG(frustration_level), 0) AS avg_frustration,
			COALESCE(AVG(engagement_level), 0) AS avg_engagement,
			COALESCE(AVG(confidence_level), 0) AS avg_confidence,
			COALESCE(AVG(satisfaction_level), 0) AS avg_satisfaction,
			COALESCE(AVG(emotional_temperature), 0) AS avg_temperature,
			COALESCE(AVG(nps_score), 0) AS avg_nps,
			SUM(CASE WHEN hidden_dissatisfaction THEN 1 ELSE 0 END) AS hidden_count,
			COALESCE(AVG(CASE WHEN urgency_level IN ('high', 'critical', 'immediate') THEN 100.0 ELSE 0.0 END), 0) AS high_urgency_pct,
			COUNT(DISTINCT CASE WHEN completion_status = ? THEN student_id END) AS completed_count,
			COUNT(DISTINCT CASE WHEN completion_status LIKE ? THEN student_id END) AS dropped_count
		FROM student_journeys
		WHERE course_id = ?`,
		courseID, StatusCompleted, DroppedPrefix+"%", courseID).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("GetCourseEmotionStats: %w", err)
	}
	return &stats, nil
}

// GetWeeklyTrends returns per-week emotion averages for one course from
// the course_weekly_emotions view
func (r *JourneyRepository) GetWeeklyTrends(courseID string) ([]types.WeeklyTrendPoint, error) {
	var points []types.WeeklyTrendPoint
	err := r.db.db.Raw(`
		SELECT week_number, feedback_count, avg_frustration, avg_engagement,
			avg_satisfaction, avg_temperature, hidden_count
		FROM course_weekly_emotions
		WHERE course_id = ?
		ORDER BY week_number ASC`, courseID).Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("GetWeeklyTrends: %w", err)
	}
	return points, nil
}

// GetAspectAverages returns per-aspect rating means for one course
func (r *JourneyRepository) GetAspectAverages(courseID string) (*types.AspectAverages, error) {
	var averages types.AspectAverages
	err := r.db.db.Raw(`
		SELECT
			? AS course_id,
			COALESCE(AVG(lms_usability), 0) AS lms_usability,
			COALESCE(AVG(instructor_quality), 0) AS instructor_quality,
			COALESCE(AVG(content_difficulty), 0) AS content_difficulty,
			COALESCE(AVG(support_quality), 0) AS support_quality,
			COALESCE(AVG(course_pace), 0) AS course_pace,
			COUNT(*) AS sample_count
		FROM student_journeys
		WHERE course_id = ?`, courseID, courseID).Scan(&averages).Error
	if err != nil {
		return nil, fmt.Errorf("GetAspectAverages: %w", err)
	}
	return &averages, nil
}

// GetTopRiskStudents returns the highest-risk students in a course
// based on their latest journey row. Risk is banded from the stored
// emotion levels; the trajectory analyses refine it asynchronously.
func (r *JourneyRepository) GetTopRiskStudents(courseID string, limit int) ([]types.StudentRiskScore, error) {
	if limit <= 0 {
		limit = TopLimit
	}

	var students []types.StudentRiskScore
	err := r.db.db.Raw(`
		SELECT
			sj.student_id,
			sj.course_id,
			sj.week_number AS latest_week,
			sj.frustration_level,
			sj.engagement_level,
			sj.urgency_level,
			sj.hidden_dissatisfaction AS hidden,
			CASE
				WHEN sj.frustration_level >= 0.8 OR sj.urgency_level IN ('critical', 'immediate') THEN 'critical'
				WHEN sj.frustration_level >= 0.6 OR sj.engagement_level < 0.3 THEN 'high'
				WHEN sj.frustration_level >= 0.4 OR sj.hidden_dissatisfaction THEN 'medium'
				ELSE 'low'
			END AS risk_level
		FROM student_journeys sj
		JOIN (
			SELECT student_id, course_id, MAX(week_number) AS max_week
			FROM student_journeys
			WHERE course_id = ? AND completion_status = ?
			GROUP BY student_id, course_id
		) last ON sj.student_id = last.student_id
			AND sj.course_id = last.course_id
			AND sj.week_number = last.max_week
		ORDER BY sj.frustration_level DESC, sj.engagement_level ASC
		LIMIT ?`, courseID, StatusEnrolled, limit).Scan(&students).Error
	if err != nil {
		return nil, fmt.Errorf("GetTopRiskStudents: %w", err)
	}
	return students, nil
}

// GetRiskSummary assembles the open-risk overview for one course
func (r *JourneyRepository) GetRiskSummary(courseID string, openAlerts int64) (*types.RiskSummary, error) {
	students, err := r.GetTopRiskStudents(courseID, TopLimit)
	if err != nil {
		return nil, err
	}

	summary := &types.RiskSummary{
		CourseID:    courseID,
		GeneratedAt: time.Now(),
		OpenAlerts:  openAlerts,
		TopStudents: students,
	}
	for _, s := range students {
		switch s.RiskLevel {
		case RiskCritical:
			summary.CriticalCount++
		case RiskHigh:
			summary.HighCount++
		case RiskMedium:
			summary.MediumCount++
		default:
			summary.LowCount++
		}
	}
	return summary, nil
}
