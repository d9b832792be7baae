package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"feedback-pulse/cache"
	"feedback-pulse/emotion"
	"feedback-pulse/trajectory"
)

// Default pool parameters, overridable per processor.
const (
	DefaultBatchSize  = 10
	DefaultMaxWorkers = 4
	DefaultTimeout    = 30 * time.Second
)

// Aspect score bounds accepted from raw rows.
const (
	aspectScoreMin = 1
	aspectScoreMax = 5
)

const cacheTTL = 15 * time.Minute

// Processor fans independent analysis work out over a bounded worker
// pool. Results always come back in input order. The optional cache
// short-circuits identical recomputation; a nil cache changes nothing
// but speed.
type Processor struct {
	workers int
	timeout time.Duration
	cache   *cache.AnalysisCache
}

// NewProcessor creates a processor with the given worker bound and
// batch deadline. Non-positive arguments fall back to the defaults.
func NewProcessor(workers int, timeout time.Duration, analysisCache *cache.AnalysisCache) *Processor {
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Processor{workers: workers, timeout: timeout, cache: analysisCache}
}

// ProcessFeedback extracts an emotion profile for every item. Invalid
// items fail individually, items missed by the deadline come back
// incomplete, and neither aborts siblings.
func (p *Processor) ProcessFeedback(ctx context.Context, items []FeedbackItem) FeedbackBatch {
	results := make([]FeedbackResult, len(items))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range items {
		index := i
		g.Go(func() error {
			results[index] = p.analyzeOne(ctx, index, items[index])
			return nil
		})
	}
	_ = g.Wait() // per-item failures live in the results

	return summarizeFeedback(results)
}

// ProcessTrajectories predicts a trajectory for every history over the
// same bounded pool.
func (p *Processor) ProcessTrajectories(ctx context.Context, items []TrajectoryItem) TrajectoryBatch {
	results := make([]TrajectoryResult, len(items))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range items {
		index := i
		g.Go(func() error {
			results[index] = p.predictOne(ctx, index, items[index])
			return nil
		})
	}
	_ = g.Wait()

	return summarizeTrajectories(results)
}

func (p *Processor) analyzeOne(ctx context.Context, index int, item FeedbackItem) FeedbackResult {
	result := FeedbackResult{
		Index:      index,
		StudentID:  item.StudentID,
		CourseID:   item.CourseID,
		WeekNumber: item.WeekNumber,
	}

	if ctx.Err() != nil {
		result.Incomplete = true
		return result
	}
	if err := validateItem(item); err != nil {
		result.Error = err.Error()
		return result
	}

	scope := analysisScope(item.StudentID, item.CourseID)
	dataHash := cache.GenerateDataHash(item)
	if cached, ok := p.cache.GetProfile(ctx, scope, dataHash); ok {
		result.Profile = cached
		return result
	}

	profile := emotion.Extract(item.FeedbackText, item.AspectScores, item.History)
	result.Profile = &profile

	_ = p.cache.SetProfile(ctx, scope, dataHash, &profile, cacheTTL)
	return result
}

func (p *Processor) predictOne(ctx context.Context, index int, item TrajectoryItem) TrajectoryResult {
	result := TrajectoryResult{
		Index:     index,
		StudentID: item.StudentID,
		CourseID:  item.CourseID,
	}

	if ctx.Err() != nil {
		result.Incomplete = true
		return result
	}

	scope := analysisScope(item.StudentID, item.CourseID)
	dataHash := cache.GenerateDataHash(item.History)
	if cached, ok := p.cache.GetPrediction(ctx, scope, dataHash); ok {
		result.Prediction = cached
		return result
	}

	prediction := trajectory.Predict(item.History)
	result.Prediction = &prediction

	_ = p.cache.SetPrediction(ctx, scope, dataHash, &prediction, cacheTTL)
	return result
}

// validateItem rejects rows the extractor would otherwise silently
// absorb. Aspect names are checked in sorted order so the reported
// failure is stable.
func validateItem(item FeedbackItem) error {
	if item.WeekNumber < 0 {
		return fmt.Errorf("week number must not be negative: %d", item.WeekNumber)
	}
	names := make([]string, 0, len(item.AspectScores))
	for name := range item.AspectScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if score := item.AspectScores[name]; score < aspectScoreMin || score > aspectScoreMax {
			return fmt.Errorf("aspect score %s out of range %d-%d: %d", name, aspectScoreMin, aspectScoreMax, score)
		}
	}
	return nil
}

func analysisScope(studentID, courseID string) string {
	return studentID + ":" + courseID
}

func summarizeFeedback(results []FeedbackResult) FeedbackBatch {
	batch := FeedbackBatch{Results: results}
	for _, r := range results {
		switch {
		case r.Incomplete:
			batch.Incomplete++
		case r.Error != "":
			batch.Failed++
		default:
			batch.Succeeded++
		}
	}
	return batch
}

func summarizeTrajectories(results []TrajectoryResult) TrajectoryBatch {
	batch := TrajectoryBatch{Results: results}
	for _, r := range results {
		if r.Incomplete {
			batch.Incomplete++
		} else {
			batch.Succeeded++
		}
	}
	return batch
}
