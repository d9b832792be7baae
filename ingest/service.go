package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback-pulse/batch"
	"feedback-pulse/database"
	"feedback-pulse/emotion"
	"feedback-pulse/realtime"
)

// ErrTimedOut marks analyses canceled by the batch deadline.
var ErrTimedOut = errors.New("analysis timed out")

// Service runs parsed feedback through analysis and storage. Histories
// come from storage only, so items in one upload never see each other's
// results.
type Service struct {
	journeys  *database.JourneyRepository
	processor *batch.Processor
	broker    *realtime.Broker
}

// NewService creates an ingestion service. The broker may be nil when
// no live dashboard is attached.
func NewService(journeys *database.JourneyRepository, processor *batch.Processor, broker *realtime.Broker) *Service {
	return &Service{journeys: journeys, processor: processor, broker: broker}
}

// AnalyzeBatch analyzes records against their stored histories,
// optionally persisting the journey rows. The returned batch carries
// per-item outcomes; the result aggregates counts and row errors.
func (s *Service) AnalyzeBatch(ctx context.Context, records []Record, persist bool) (*batch.FeedbackBatch, *Result, error) {
	result := &Result{Parsed: len(records)}
	if len(records) == 0 {
		return &batch.FeedbackBatch{}, result, nil
	}

	items := make([]batch.FeedbackItem, len(records))
	for i, record := range records {
		history, err := s.journeys.GetStudentHistory(record.StudentID, record.CourseID)
		if err != nil {
			return nil, nil, fmt.Errorf("load history for %s: %w", record.StudentID, err)
		}
		items[i] = batch.FeedbackItem{
			StudentID:    record.StudentID,
			CourseID:     record.CourseID,
			WeekNumber:   record.WeekNumber,
			FeedbackText: record.FeedbackText,
			AspectScores: record.AspectScores,
			History:      history,
		}
	}

	analyzed := s.processor.ProcessFeedback(ctx, items)
	result.Failed = analyzed.Failed
	result.Incomplete = analyzed.Incomplete

	for i, item := range analyzed.Results {
		switch {
		case item.Incomplete:
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("item %d: %v", i, ErrTimedOut))
			continue
		case item.Error != "":
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("item %d: %s", i, item.Error))
			continue
		}

		if !persist {
			continue
		}

		journey := journeyFromRecord(records[i])
		database.ApplyProfile(&journey, *item.Profile)
		if err := s.journeys.UpsertJourney(&journey); err != nil {
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("item %d: %v", i, err))
			result.Failed++
			continue
		}
		result.Saved++

		if s.broker != nil {
			s.broker.Broadcast(realtime.EventJourneyAnalyzed, journey)
		}
	}

	return &analyzed, result, nil
}

// IngestRecords analyzes and stores one batch of feedback records
func (s *Service) IngestRecords(ctx context.Context, records []Record) (*Result, error) {
	_, result, err := s.AnalyzeBatch(ctx, records, true)
	return result, err
}

// AnalyzeOne runs a single record through the analysis pipeline and
// returns its extracted profile. Item-level failures surface as
// validation errors so callers can tell bad input from broken storage.
func (s *Service) AnalyzeOne(ctx context.Context, record Record, persist bool) (*emotion.Profile, error) {
	analyzed, result, err := s.AnalyzeBatch(ctx, []Record{record}, persist)
	if err != nil {
		return nil, err
	}

	item := analyzed.Results[0]
	switch {
	case item.Incomplete:
		return nil, ErrTimedOut
	case item.Error != "":
		return nil, database.NewValidationError("feedback", item.Error)
	}

	if persist && result.Saved == 0 {
		if len(result.RowErrors) > 0 {
			return nil, errors.New(result.RowErrors[0])
		}
		return nil, fmt.Errorf("journey not saved")
	}

	return item.Profile, nil
}

// Backfill analyzes records and bulk-imports the journey rows with
// COPY, bypassing per-row upserts. Meant for initial loads of finished
// course runs; the unique week index still applies, so backfills target
// empty ranges.
func (s *Service) Backfill(ctx context.Context, db *database.DB, records []Record) (*Result, error) {
	result := &Result{Parsed: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	items := make([]batch.FeedbackItem, len(records))
	for i, record := range records {
		items[i] = batch.FeedbackItem{
			StudentID:    record.StudentID,
			CourseID:     record.CourseID,
			WeekNumber:   record.WeekNumber,
			FeedbackText: record.FeedbackText,
			AspectScores: record.AspectScores,
		}
	}

	analyzed := s.processor.ProcessFeedback(ctx, items)
	result.Failed = analyzed.Failed
	result.Incomplete = analyzed.Incomplete

	journeys := make([]database.StudentJourney, 0, len(records))
	for i, item := range analyzed.Results {
		switch {
		case item.Incomplete:
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("item %d: %v", i, ErrTimedOut))
			continue
		case item.Error != "":
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("item %d: %s", i, item.Error))
			continue
		}

		journey := journeyFromRecord(records[i])
		database.ApplyProfile(&journey, *item.Profile)
		journeys = append(journeys, journey)
	}

	if err := CopyJourneys(db, journeys); err != nil {
		return nil, err
	}
	result.Saved = len(journeys)
	return result, nil
}

func journeyFromRecord(record Record) database.StudentJourney {
	journey := database.StudentJourney{
		StudentID:        record.StudentID,
		CourseID:         record.CourseID,
		WeekNumber:       record.WeekNumber,
		SubmittedAt:      record.SubmittedAt,
		FeedbackText:     record.FeedbackText,
		NPSScore:         record.NPSScore,
		CompletionStatus: record.CompletionStatus,
	}
	if journey.SubmittedAt.IsZero() {
		journey.SubmittedAt = time.Now()
	}
	if journey.CompletionStatus == "" {
		journey.CompletionStatus = database.StatusEnrolled
	}

	scores := record.AspectScores
	journey.LMSUsability = aspectPtr(scores, database.AspectLMSUsability)
	journey.InstructorQuality = aspectPtr(scores, database.AspectInstructorQuality)
	journey.ContentDifficulty = aspectPtr(scores, database.AspectContentDifficulty)
	journey.SupportQuality = aspectPtr(scores, database.AspectSupportQuality)
	journey.CoursePace = aspectPtr(scores, database.AspectCoursePace)

	return journey
}

func aspectPtr(scores map[string]int, name string) *int {
	if v, ok := scores[name]; ok {
		value := v
		return &value
	}
	return nil
}
