package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"feedback-pulse/emotion"
	"feedback-pulse/patterns"
	"feedback-pulse/trajectory"
)

// AnalysisCache stores computed analysis artifacts keyed by a scope
// (student or course id) and a hash of the exact input data, so a hit
// is only possible for byte-identical inputs. Cache absence never
// changes results; callers fall through to computing.
type AnalysisCache struct {
	redis *RedisClient
}

// NewAnalysisCache creates an analysis cache over the Redis client. A
// nil client yields a cache that always misses.
func NewAnalysisCache(redis *RedisClient) *AnalysisCache {
	return &AnalysisCache{redis: redis}
}

// GetProfile retrieves a cached emotion profile.
// Returns the profile and true if found, nil and false otherwise.
func (c *AnalysisCache) GetProfile(ctx context.Context, scope, dataHash string) (*emotion.Profile, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	var profile emotion.Profile
	if err := c.redis.Get(ctx, profileKey(scope, dataHash), &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// SetProfile caches an emotion profile.
func (c *AnalysisCache) SetProfile(ctx context.Context, scope, dataHash string, profile *emotion.Profile, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, profileKey(scope, dataHash), profile, ttl)
}

// GetPrediction retrieves a cached trajectory prediction.
func (c *AnalysisCache) GetPrediction(ctx context.Context, scope, dataHash string) (*trajectory.Prediction, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	var prediction trajectory.Prediction
	if err := c.redis.Get(ctx, predictionKey(scope, dataHash), &prediction); err != nil {
		return nil, false
	}
	return &prediction, true
}

// SetPrediction caches a trajectory prediction.
func (c *AnalysisCache) SetPrediction(ctx context.Context, scope, dataHash string, prediction *trajectory.Prediction, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, predictionKey(scope, dataHash), prediction, ttl)
}

// GetOutcomes retrieves cached pattern outcome aggregates.
func (c *AnalysisCache) GetOutcomes(ctx context.Context, scope, dataHash string) (*patterns.OutcomePrediction, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	var outcomes patterns.OutcomePrediction
	if err := c.redis.Get(ctx, outcomesKey(scope, dataHash), &outcomes); err != nil {
		return nil, false
	}
	return &outcomes, true
}

// SetOutcomes caches pattern outcome aggregates.
func (c *AnalysisCache) SetOutcomes(ctx context.Context, scope, dataHash string, outcomes *patterns.OutcomePrediction, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, outcomesKey(scope, dataHash), outcomes, ttl)
}

// SetInsightCooldown suppresses repeat LLM insight calls for a scope
// until the ttl passes.
func (c *AnalysisCache) SetInsightCooldown(ctx context.Context, scope string, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, cooldownKey(scope), time.Now().Unix(), ttl)
}

// InInsightCooldown checks whether a scope is still in its LLM insight
// cooldown period.
func (c *AnalysisCache) InInsightCooldown(ctx context.Context, scope string) bool {
	if c == nil || c.redis == nil {
		return false
	}

	var timestamp int64
	if err := c.redis.Get(ctx, cooldownKey(scope), &timestamp); err != nil {
		return false
	}
	return timestamp > 0
}

// GenerateDataHash hashes the exact analysis input so cached artifacts
// are reused only when the data is unchanged.
func GenerateDataHash(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8]) // first 8 bytes for shorter keys
}

func profileKey(scope, dataHash string) string {
	return fmt.Sprintf("analysis:profile:%s:%s", scope, dataHash)
}

func predictionKey(scope, dataHash string) string {
	return fmt.Sprintf("analysis:prediction:%s:%s", scope, dataHash)
}

func outcomesKey(scope, dataHash string) string {
	return fmt.Sprintf("analysis:outcomes:%s:%s", scope, dataHash)
}

func cooldownKey(scope string) string {
	return fmt.Sprintf("analysis:insight-cooldown:%s", scope)
}
