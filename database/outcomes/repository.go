package outcomes

import (
	"fmt"
	"time"

	models "feedback-pulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for pattern outcome statistics
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new outcomes repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceCourseOutcomes swaps the stored cluster statistics for one
// course with a freshly computed set
func (r *Repository) ReplaceCourseOutcomes(courseID string, rows []models.PatternOutcome) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.PatternOutcome{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return fmt.Errorf("ReplaceCourseOutcomes: %w", err)
	}
	return nil
}

// GetCourseOutcomes retrieves the stored cluster statistics for one
// course
func (r *Repository) GetCourseOutcomes(courseID string) ([]models.PatternOutcome, error) {
	var rows []models.PatternOutcome
	err := r.db.Where("course_id = ?", courseID).Order("cluster_id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("GetCourseOutcomes: %w", err)
	}
	return rows, nil
}

// LatestComputedAt returns when a course's outcomes were last refreshed
func (r *Repository) LatestComputedAt(courseID string) (*time.Time, error) {
	var row models.PatternOutcome
	err := r.db.Where("course_id = ?", courseID).Order("computed_at DESC").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestComputedAt: %w", err)
	}
	return &row.ComputedAt, nil
}
