package webhooks

import (
	"fmt"
	"time"

	models "feedback-pulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for alert webhooks and their
// delivery logs
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new webhooks repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetActiveWebhooks retrieves all active webhooks
func (r *Repository) GetActiveWebhooks() ([]models.AlertWebhook, error) {
	var webhooks []models.AlertWebhook
	if err := r.db.Where("is_active = ?", true).Find(&webhooks).Error; err != nil {
		return nil, fmt.Errorf("GetActiveWebhooks: %w", err)
	}
	return webhooks, nil
}

// GetWebhooks retrieves all webhooks (active and inactive)
func (r *Repository) GetWebhooks() ([]models.AlertWebhook, error) {
	var webhooks []models.AlertWebhook
	if err := r.db.Order("id ASC").Find(&webhooks).Error; err != nil {
		return nil, fmt.Errorf("GetWebhooks: %w", err)
	}
	return webhooks, nil
}

// GetWebhookByID retrieves a specific webhook
func (r *Repository) GetWebhookByID(id int) (*models.AlertWebhook, error) {
	var webhook models.AlertWebhook
	err := r.db.First(&webhook, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWebhookByID: %w", err)
	}
	return &webhook, nil
}

// SaveWebhook creates or updates a webhook
func (r *Repository) SaveWebhook(webhook *models.AlertWebhook) error {
	if err := r.db.Save(webhook).Error; err != nil {
		return fmt.Errorf("SaveWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook deletes a webhook and its delivery logs
func (r *Repository) DeleteWebhook(id int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("webhook_id = ?", id).Delete(&models.WebhookDeliveryLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AlertWebhook{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("DeleteWebhook: %w", err)
	}
	return nil
}

// SaveDeliveryLog saves a new webhook delivery log
func (r *Repository) SaveDeliveryLog(log *models.WebhookDeliveryLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("SaveDeliveryLog: %w", err)
	}
	return nil
}

// GetDeliveryLogs retrieves recent delivery logs for one webhook
func (r *Repository) GetDeliveryLogs(webhookID int, limit int) ([]models.WebhookDeliveryLog, error) {
	var logs []models.WebhookDeliveryLog
	query := r.db.Where("webhook_id = ?", webhookID).Order("triggered_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("GetDeliveryLogs: %w", err)
	}
	return logs, nil
}

// RecordDeliveryResult updates a webhook's aggregate delivery counters
func (r *Repository) RecordDeliveryResult(id int, success bool, errMsg string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"last_triggered_at": &now,
	}
	if success {
		updates["last_success_at"] = &now
		updates["last_error"] = ""
		updates["total_sent"] = gorm.Expr("total_sent + 1")
	} else {
		updates["last_error"] = errMsg
		updates["total_failed"] = gorm.Expr("total_failed + 1")
	}

	err := r.db.Model(&models.AlertWebhook{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("RecordDeliveryResult: %w", err)
	}
	return nil
}
