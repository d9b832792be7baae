package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// HTTP API
	ServerHost string
	ServerPort string

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// LLM configuration
	LLM LLMConfig

	// Analysis configuration
	Analysis AnalysisConfig

	// Batch configuration
	Batch BatchConfig
}

// LLMConfig holds LLM service configuration
type LLMConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Model    string
}

// AnalysisConfig holds emotion thresholds and monitor cadence
type AnalysisConfig struct {
	// Alert thresholds
	FrustrationAlertThreshold float64
	EngagementAlertFloor      float64
	HiddenAlertConfidence     float64
	TemperatureAlertThreshold float64

	// Course shape
	CourseLengthWeeks int

	// Background monitors
	RiskScanIntervalMinutes       int
	RiskScanRecentWeeks           int
	PatternRefreshIntervalMinutes int

	// Insight throttling
	InsightCooldownMinutes int
}

// BatchConfig holds worker pool parameters for batch analysis
type BatchConfig struct {
	MaxWorkers     int
	TimeoutSeconds int
	BatchSize      int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerHost: getEnvOrDefault("SERVER_HOST", ""),
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "feedback_pulse"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "pulse"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "pulse123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// LLM configuration
		LLM: LLMConfig{
			Enabled:  getEnvOrDefault("LLM_ENABLED", "false") == "true",
			Endpoint: getEnvOrDefault("LLM_ENDPOINT", "https://ai.onehub.biz.id/v1"),
			APIKey:   getEnvOrDefault("LLM_API_KEY", ""),
			Model:    getEnvOrDefault("LLM_MODEL", "qwen3-max"),
		},

		// Analysis configuration
		Analysis: AnalysisConfig{
			FrustrationAlertThreshold: getEnvFloat("ANALYSIS_FRUSTRATION_ALERT", 0.8),
			EngagementAlertFloor:      getEnvFloat("ANALYSIS_ENGAGEMENT_FLOOR", 0.3),
			HiddenAlertConfidence:     getEnvFloat("ANALYSIS_HIDDEN_CONFIDENCE", 0.6),
			TemperatureAlertThreshold: getEnvFloat("ANALYSIS_TEMPERATURE_ALERT", 0.75),

			CourseLengthWeeks: getEnvInt("ANALYSIS_COURSE_LENGTH_WEEKS", 12),

			RiskScanIntervalMinutes:       getEnvInt("ANALYSIS_RISK_SCAN_INTERVAL", 15),
			RiskScanRecentWeeks:           getEnvInt("ANALYSIS_RISK_SCAN_RECENT_WEEKS", 2),
			PatternRefreshIntervalMinutes: getEnvInt("ANALYSIS_PATTERN_REFRESH_INTERVAL", 60),

			InsightCooldownMinutes: getEnvInt("ANALYSIS_INSIGHT_COOLDOWN", 60),
		},

		// Batch configuration
		Batch: BatchConfig{
			MaxWorkers:     getEnvInt("BATCH_MAX_WORKERS", 4),
			TimeoutSeconds: getEnvInt("BATCH_TIMEOUT_SECONDS", 30),
			BatchSize:      getEnvInt("BATCH_SIZE", 10),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
