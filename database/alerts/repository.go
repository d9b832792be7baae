package alerts

import (
	"fmt"
	"time"

	models "feedback-pulse/database/models_pkg"
	"feedback-pulse/database/types"

	"gorm.io/gorm"
)

// Repository handles database operations for emotion alerts and
// interventions
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new alerts repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveAlert saves an emotion alert
func (r *Repository) SaveAlert(alert *models.EmotionAlert) error {
	if err := r.db.Create(alert).Error; err != nil {
		return fmt.Errorf("SaveAlert: %w", err)
	}
	return nil
}

// GetAlerts retrieves alerts with filters
func (r *Repository) GetAlerts(courseID, studentID, alertType, riskLevel string, unacknowledgedOnly bool, since time.Time, limit, offset int) ([]models.EmotionAlert, error) {
	var alerts []models.EmotionAlert
	query := r.db.Order("created_at DESC")

	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if alertType != "" {
		query = query.Where("alert_type = ?", alertType)
	}
	if riskLevel != "" {
		query = query.Where("risk_level = ?", riskLevel)
	}
	if unacknowledgedOnly {
		query = query.Where("acknowledged = ?", false)
	}
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("GetAlerts: %w", err)
	}
	return alerts, nil
}

// GetAlertByID retrieves a specific alert by ID
func (r *Repository) GetAlertByID(id int64) (*models.EmotionAlert, error) {
	var alert models.EmotionAlert
	err := r.db.First(&alert, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetAlertByID: %w", err)
	}
	return &alert, nil
}

// HasRecentAlert reports whether the same alert type already fired for
// a student within the dedup window
func (r *Repository) HasRecentAlert(studentID, courseID, alertType string, window time.Duration) (bool, error) {
	var count int64
	err := r.db.Model(&models.EmotionAlert{}).
		Where("student_id = ? AND course_id = ? AND alert_type = ? AND created_at >= ?",
			studentID, courseID, alertType, time.Now().Add(-window)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("HasRecentAlert: %w", err)
	}
	return count > 0, nil
}

// AcknowledgeAlert marks an alert as acknowledged
func (r *Repository) AcknowledgeAlert(id int64, by string) error {
	now := time.Now()
	result := r.db.Model(&models.EmotionAlert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"acknowledged":    true,
			"acknowledged_at": &now,
			"acknowledged_by": by,
		})
	if result.Error != nil {
		return fmt.Errorf("AcknowledgeAlert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("AcknowledgeAlert: alert %d not found", id)
	}
	return nil
}

// CountOpenAlerts returns the number of unacknowledged alerts for a
// course
func (r *Repository) CountOpenAlerts(courseID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.EmotionAlert{}).Where("acknowledged = ?", false)
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("CountOpenAlerts: %w", err)
	}
	return count, nil
}

// GetAlertCountsByType returns alert totals grouped by type
func (r *Repository) GetAlertCountsByType(courseID string) ([]types.AlertCounts, error) {
	var counts []types.AlertCounts
	query := r.db.Model(&models.EmotionAlert{}).
		Select("alert_type, count(*) as total, sum(case when acknowledged then 0 else 1 end) as unacknowledged").
		Group("alert_type").
		Order("alert_type")
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if err := query.Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("GetAlertCountsByType: %w", err)
	}
	return counts, nil
}

// SaveIntervention saves an intervention record
func (r *Repository) SaveIntervention(intervention *models.Intervention) error {
	if err := r.db.Create(intervention).Error; err != nil {
		return fmt.Errorf("SaveIntervention: %w", err)
	}
	return nil
}

// GetInterventions retrieves interventions with filters
func (r *Repository) GetInterventions(studentID, courseID, status string, limit int) ([]models.Intervention, error) {
	var interventions []models.Intervention
	query := r.db.Order("created_at DESC")

	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&interventions).Error; err != nil {
		return nil, fmt.Errorf("GetInterventions: %w", err)
	}
	return interventions, nil
}

// GetSuccessfulInterventionTypes returns, per student, the intervention
// types recorded as done and successful in one course. The pattern
// layer folds these into its recommendations.
func (r *Repository) GetSuccessfulInterventionTypes(courseID string) (map[string][]string, error) {
	var rows []models.Intervention
	err := r.db.
		Where("course_id = ? AND status = ? AND outcome = ?", courseID, "done", "successful").
		Order("student_id, type").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("GetSuccessfulInterventionTypes: %w", err)
	}

	byStudent := make(map[string][]string, len(rows))
	for _, row := range rows {
		byStudent[row.StudentID] = append(byStudent[row.StudentID], row.Type)
	}
	return byStudent, nil
}

// UpdateInterventionStatus updates an intervention's status and outcome
func (r *Repository) UpdateInterventionStatus(id int64, status, outcome, notes string) error {
	updates := map[string]interface{}{"status": status}
	if outcome != "" {
		updates["outcome"] = outcome
	}
	if notes != "" {
		updates["notes"] = notes
	}
	if status == "done" {
		now := time.Now()
		updates["completed_at"] = &now
	}

	result := r.db.Model(&models.Intervention{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("UpdateInterventionStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("UpdateInterventionStatus: intervention %d not found", id)
	}
	return nil
}
