package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedback-pulse/emotion"
)

// JourneyRepository handles database operations for student journeys
type JourneyRepository struct {
	db *Database
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *Database) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// InitSchema performs auto-migration and index setup
func (r *JourneyRepository) InitSchema() error {
	fmt.Println("🔄 Starting database schema initialization...")

	err := r.db.db.AutoMigrate(
		&StudentJourney{},
		&EmotionAlert{},
		&Intervention{},
		&AlertWebhook{},
		&WebhookDeliveryLog{},
		&PatternOutcome{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// One journey row per student, course and week. Re-analysis updates
	// in place instead of stacking duplicates.
	r.db.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_journeys_unique_week
		ON student_journeys (student_id, course_id, week_number)
	`)

	// Pattern outcome rows are replaced per refresh, keyed by course and cluster
	r.db.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_pattern_outcomes_course_cluster
		ON pattern_outcomes (course_id, cluster_id)
	`)

	fmt.Println("📊 Creating course_weekly_emotions materialized view...")
	if err := r.db.db.Exec(`
		CREATE MATERIALIZED VIEW IF NOT EXISTS course_weekly_emotions AS
		SELECT
			course_id,
			week_number,
			COUNT(*) AS feedback_count,
			AVG(frustration_level) AS avg_frustration,
			AVG(engagement_level) AS avg_engagement,
			AVG(satisfaction_level) AS avg_satisfaction,
			AVG(emotional_temperature) AS avg_temperature,
			SUM(CASE WHEN hidden_dissatisfaction THEN 1 ELSE 0 END) AS hidden_count
		FROM student_journeys
		GROUP BY course_id, week_number
	`).Error; err != nil {
		fmt.Printf("⚠️ Warning: Failed to create view course_weekly_emotions: %v\n", err)
	} else {
		fmt.Println("✅ course_weekly_emotions view created successfully")
	}

	fmt.Println("✅ Database schema initialization completed")
	return nil
}

// RefreshWeeklyEmotions refreshes the course_weekly_emotions view
func (r *JourneyRepository) RefreshWeeklyEmotions() error {
	if err := r.db.db.Exec("REFRESH MATERIALIZED VIEW course_weekly_emotions").Error; err != nil {
		return fmt.Errorf("RefreshWeeklyEmotions: %w", err)
	}
	return nil
}

// SaveJourney inserts a journey row
func (r *JourneyRepository) SaveJourney(journey *StudentJourney) error {
	if err := r.db.db.Create(journey).Error; err != nil {
		return fmt.Errorf("SaveJourney: %w", err)
	}
	return nil
}

// SaveJourneyBatch inserts journey rows in chunks
func (r *JourneyRepository) SaveJourneyBatch(journeys []StudentJourney) error {
	if len(journeys) == 0 {
		return nil
	}
	if err := r.db.db.CreateInBatches(journeys, 500).Error; err != nil {
		return fmt.Errorf("SaveJourneyBatch: %w", err)
	}
	return nil
}

// UpsertJourney inserts a journey or replaces the existing row for the
// same student, course and week
func (r *JourneyRepository) UpsertJourney(journey *StudentJourney) error {
	var existing StudentJourney
	err := r.db.db.Where("student_id = ? AND course_id = ? AND week_number = ?",
		journey.StudentID, journey.CourseID, journey.WeekNumber).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.SaveJourney(journey)
	}
	if err != nil {
		return fmt.Errorf("UpsertJourney: %w", err)
	}

	journey.ID = existing.ID
	if err := r.db.db.Save(journey).Error; err != nil {
		return fmt.Errorf("UpsertJourney: %w", err)
	}
	return nil
}

// GetJourneyByID retrieves a specific journey by ID
func (r *JourneyRepository) GetJourneyByID(id int64) (*StudentJourney, error) {
	var journey StudentJourney
	err := r.db.db.First(&journey, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetJourneyByID: %w", err)
	}
	return &journey, nil
}

// GetStudentJourneys retrieves all journeys for one student in a
// course, ordered by week
func (r *JourneyRepository) GetStudentJourneys(studentID, courseID string) ([]StudentJourney, error) {
	var journeys []StudentJourney
	err := r.db.db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("week_number ASC").
		Find(&journeys).Error
	if err != nil {
		return nil, fmt.Errorf("GetStudentJourneys: %w", err)
	}
	return journeys, nil
}

// GetLatestJourney retrieves the most recent journey for one student in
// a course
func (r *JourneyRepository) GetLatestJourney(studentID, courseID string) (*StudentJourney, error) {
	var journey StudentJourney
	err := r.db.db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("week_number DESC").
		First(&journey).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetLatestJourney: %w", err)
	}
	return &journey, nil
}

// GetStudentHistory assembles the ordered emotion history for one
// student in a course
func (r *JourneyRepository) GetStudentHistory(studentID, courseID string) (emotion.History, error) {
	journeys, err := r.GetStudentJourneys(studentID, courseID)
	if err != nil {
		return nil, err
	}
	return HistoryOf(journeys), nil
}

// GetRecentJourneys retrieves journeys submitted since the given time,
// optionally filtered by course
func (r *JourneyRepository) GetRecentJourneys(courseID string, since time.Time, limit int) ([]StudentJourney, error) {
	var journeys []StudentJourney
	query := r.db.db.Order("submitted_at DESC")

	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if !since.IsZero() {
		query = query.Where("submitted_at >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&journeys).Error; err != nil {
		return nil, fmt.Errorf("GetRecentJourneys: %w", err)
	}
	return journeys, nil
}

// GetCompletedFinalJourneys retrieves the last journey row of every
// student whose course run has finished (completed or dropped). These
// rows are the pattern matching corpus.
func (r *JourneyRepository) GetCompletedFinalJourneys(courseID string, limit int) ([]StudentJourney, error) {
	var journeys []StudentJourney
	query := `
		SELECT sj.* FROM student_journeys sj
		JOIN (
			SELECT student_id, course_id, MAX(week_number) AS max_week
			FROM student_journeys
			WHERE course_id = ? AND completion_status <> ?
			GROUP BY student_id, course_id
		) last ON sj.student_id = last.student_id
			AND sj.course_id = last.course_id
			AND sj.week_number = last.max_week
		ORDER BY sj.student_id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	if err := r.db.db.Raw(query, courseID, StatusEnrolled).Scan(&journeys).Error; err != nil {
		return nil, fmt.Errorf("GetCompletedFinalJourneys: %w", err)
	}
	return journeys, nil
}

// UpdateCompletionStatus sets the completion status on every journey
// row of one student in a course
func (r *JourneyRepository) UpdateCompletionStatus(studentID, courseID, status string) error {
	err := r.db.db.Model(&StudentJourney{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Update("completion_status", status).Error
	if err != nil {
		return fmt.Errorf("UpdateCompletionStatus: %w", err)
	}
	return nil
}

// GetActiveCourses lists course IDs with feedback submitted since the
// given time
func (r *JourneyRepository) GetActiveCourses(since time.Time) ([]string, error) {
	var courses []string
	err := r.db.db.Model(&StudentJourney{}).
		Where("submitted_at >= ?", since).
		Distinct("course_id").
		Order("course_id").
		Pluck("course_id", &courses).Error
	if err != nil {
		return nil, fmt.Errorf("GetActiveCourses: %w", err)
	}
	return courses, nil
}

// CountJourneys returns the journey row count, optionally per course
func (r *JourneyRepository) CountJourneys(courseID string) (int64, error) {
	var count int64
	query := r.db.db.Model(&StudentJourney{})
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("CountJourneys: %w", err)
	}
	return count, nil
}
