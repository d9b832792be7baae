// Package database provides database connection management for the feedback-pulse
// emotion analysis system.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Journey, alert, webhook and pattern-outcome repositories
//   - Comprehensive error handling and validation
//
// Key Concepts:
//   - Student journeys hold the raw feedback plus the extracted emotion profile
//   - Alerts are the persisted output of the background risk monitor
//   - Pattern outcomes are refreshed cluster statistics over completed journeys
//
// Data Models:
//
//	All data models (StudentJourney, EmotionAlert, etc.) are defined in the
//	models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "feedback-pulse/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the underlying DB instance.
// It serves as the central connection point for all database operations in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Backward Compatibility Type Aliases
// ============================================================================

// These type aliases maintain backward compatibility with existing code
// that imports types from the database package directly.

// Core data models - type aliases for backward compatibility
type StudentJourney = models.StudentJourney
type EmotionAlert = models.EmotionAlert
type Intervention = models.Intervention
type AlertWebhook = models.AlertWebhook
type WebhookDeliveryLog = models.WebhookDeliveryLog
type PatternOutcome = models.PatternOutcome
