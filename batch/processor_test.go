package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"feedback-pulse/emotion"
	"feedback-pulse/trajectory"
)

func TestProcessFeedbackMixedBatch(t *testing.T) {
	items := []FeedbackItem{
		{StudentID: "s1", CourseID: "go-101", WeekNumber: 3, FeedbackText: "I love this course, the examples are great"},
		{StudentID: "s2", CourseID: "go-101", WeekNumber: 3, FeedbackText: "the platform keeps crashing and I am so frustrated"},
		{StudentID: "s3", CourseID: "go-101", WeekNumber: 3, FeedbackText: "it was fine", AspectScores: map[string]int{"content_difficulty": 9}},
		{StudentID: "s4", CourseID: "go-101", WeekNumber: 3, FeedbackText: "confusing at times but I am making progress"},
		{StudentID: "s5", CourseID: "go-101", WeekNumber: 3, FeedbackText: "thank you, the office hours helped a lot"},
	}

	got := NewProcessor(4, time.Minute, nil).ProcessFeedback(context.Background(), items)

	if len(got.Results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got.Results))
	}
	if got.Succeeded != 4 || got.Failed != 1 || got.Incomplete != 0 {
		t.Errorf("expected 4/1/0 succeeded/failed/incomplete, got %d/%d/%d",
			got.Succeeded, got.Failed, got.Incomplete)
	}
	for i, r := range got.Results {
		if r.Index != i {
			t.Errorf("result %d: expected index %d, got %d", i, i, r.Index)
		}
		if r.StudentID != items[i].StudentID {
			t.Errorf("result %d: expected student %s, got %s", i, items[i].StudentID, r.StudentID)
		}
	}

	bad := got.Results[2]
	if bad.Profile != nil {
		t.Errorf("expected no profile for the invalid item, got %+v", bad.Profile)
	}
	if !strings.Contains(bad.Error, "content_difficulty") {
		t.Errorf("expected error naming the bad aspect, got %q", bad.Error)
	}

	for _, i := range []int{0, 1, 3, 4} {
		r := got.Results[i]
		if r.Profile == nil {
			t.Errorf("result %d: expected a profile, got none (error %q)", i, r.Error)
		}
		if r.Error != "" {
			t.Errorf("result %d: expected no error, got %q", i, r.Error)
		}
	}
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name    string
		item    FeedbackItem
		wantErr string
	}{
		{
			name:    "valid scores",
			item:    FeedbackItem{FeedbackText: "ok", AspectScores: map[string]int{"lms_usability": 1, "support_quality": 5}},
			wantErr: "",
		},
		{
			name:    "no aspects",
			item:    FeedbackItem{FeedbackText: "ok"},
			wantErr: "",
		},
		{
			name:    "score below range",
			item:    FeedbackItem{AspectScores: map[string]int{"course_pace": 0}},
			wantErr: "course_pace",
		},
		{
			name:    "score above range",
			item:    FeedbackItem{AspectScores: map[string]int{"instructor_quality": 6}},
			wantErr: "instructor_quality",
		},
		{
			name:    "negative week",
			item:    FeedbackItem{WeekNumber: -1},
			wantErr: "week number",
		},
		{
			name:    "first bad aspect by name",
			item:    FeedbackItem{AspectScores: map[string]int{"b_quality": 7, "a_pace": 9}},
			wantErr: "a_pace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItem(tt.item)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestProcessFeedbackOrderPreserved(t *testing.T) {
	items := make([]FeedbackItem, 20)
	for i := range items {
		items[i] = FeedbackItem{
			StudentID:    fmt.Sprintf("s%02d", i),
			CourseID:     "go-101",
			WeekNumber:   i % 12,
			FeedbackText: "helpful session",
		}
	}

	got := NewProcessor(3, time.Minute, nil).ProcessFeedback(context.Background(), items)

	if got.Succeeded != len(items) {
		t.Fatalf("expected %d succeeded, got %d", len(items), got.Succeeded)
	}
	for i, r := range got.Results {
		if r.Index != i || r.StudentID != items[i].StudentID {
			t.Errorf("result %d: expected %s at index %d, got %s at %d",
				i, items[i].StudentID, i, r.StudentID, r.Index)
		}
	}
}

func TestProcessFeedbackCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []FeedbackItem{
		{StudentID: "s1", FeedbackText: "great"},
		{StudentID: "s2", FeedbackText: "awful"},
		{StudentID: "s3", FeedbackText: "fine"},
	}

	got := NewProcessor(2, time.Minute, nil).ProcessFeedback(ctx, items)

	if got.Incomplete != len(items) || got.Succeeded != 0 || got.Failed != 0 {
		t.Errorf("expected all %d incomplete, got %d/%d/%d succeeded/failed/incomplete",
			len(items), got.Succeeded, got.Failed, got.Incomplete)
	}
	for i, r := range got.Results {
		if !r.Incomplete {
			t.Errorf("result %d: expected incomplete", i)
		}
		if r.Profile != nil {
			t.Errorf("result %d: expected no profile after cancellation", i)
		}
		if r.StudentID != items[i].StudentID {
			t.Errorf("result %d: expected student %s, got %s", i, items[i].StudentID, r.StudentID)
		}
	}
}

func TestProcessFeedbackDeadlineExpired(t *testing.T) {
	// A parent deadline already in the past cancels synchronously, so
	// every worker observes it before doing any work.
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	items := make([]FeedbackItem, 8)
	for i := range items {
		items[i] = FeedbackItem{StudentID: fmt.Sprintf("s%d", i), FeedbackText: "fine so far"}
	}

	got := NewProcessor(1, time.Minute, nil).ProcessFeedback(ctx, items)

	if got.Incomplete != len(items) {
		t.Errorf("expected all %d items incomplete, got %d", len(items), got.Incomplete)
	}
	if len(got.Results) != len(items) {
		t.Errorf("expected %d results, got %d", len(items), len(got.Results))
	}
}

func TestProcessFeedbackCarriesHistory(t *testing.T) {
	history := emotion.History{histEntry(1, 0.2), histEntry(2, 0.8)}
	items := []FeedbackItem{{
		StudentID:    "s1",
		CourseID:     "go-101",
		WeekNumber:   3,
		FeedbackText: "the assignments keep piling up and the portal is broken",
		History:      history,
	}}

	got := NewProcessor(2, time.Minute, nil).ProcessFeedback(context.Background(), items)

	profile := got.Results[0].Profile
	if profile == nil {
		t.Fatalf("expected a profile, got error %q", got.Results[0].Error)
	}
	if profile.FrustrationTrend != emotion.TrendIncreasing {
		t.Errorf("expected trend %s, got %s", emotion.TrendIncreasing, profile.FrustrationTrend)
	}
}

func TestProcessTrajectories(t *testing.T) {
	rising := emotion.History{histEntry(1, 0.3), histEntry(2, 0.5), histEntry(3, 0.7)}
	items := []TrajectoryItem{
		{StudentID: "s1", CourseID: "go-101", History: rising},
		{StudentID: "s2", CourseID: "go-101", History: nil},
	}

	got := NewProcessor(2, time.Minute, nil).ProcessTrajectories(context.Background(), items)

	if got.Succeeded != 2 || got.Incomplete != 0 {
		t.Fatalf("expected 2/0 succeeded/incomplete, got %d/%d", got.Succeeded, got.Incomplete)
	}
	for i, r := range got.Results {
		if r.Index != i {
			t.Errorf("result %d: expected index %d, got %d", i, i, r.Index)
		}
		if r.Prediction == nil {
			t.Fatalf("result %d: expected a prediction", i)
		}
	}

	if risk := got.Results[0].Prediction.Risks.FrustrationBoilingPoint.RiskLevel; risk == trajectory.RiskUnknown {
		t.Errorf("expected a real frustration analysis for the full history, got %s", risk)
	}
	if risk := got.Results[1].Prediction.Risks.FrustrationBoilingPoint.RiskLevel; risk != trajectory.RiskUnknown {
		t.Errorf("expected %s for the empty history, got %s", trajectory.RiskUnknown, risk)
	}
}

func TestProcessTrajectoriesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []TrajectoryItem{
		{StudentID: "s1", History: emotion.History{histEntry(1, 0.4)}},
		{StudentID: "s2", History: nil},
	}

	got := NewProcessor(2, time.Minute, nil).ProcessTrajectories(ctx, items)

	if got.Incomplete != len(items) || got.Succeeded != 0 {
		t.Errorf("expected all %d incomplete, got %d/%d succeeded/incomplete",
			len(items), got.Succeeded, got.Incomplete)
	}
	for i, r := range got.Results {
		if r.Prediction != nil {
			t.Errorf("result %d: expected no prediction after cancellation", i)
		}
	}
}

func TestNewProcessorDefaults(t *testing.T) {
	p := NewProcessor(0, 0, nil)
	if p.workers != DefaultMaxWorkers {
		t.Errorf("expected %d workers, got %d", DefaultMaxWorkers, p.workers)
	}
	if p.timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, p.timeout)
	}

	p = NewProcessor(8, time.Second, nil)
	if p.workers != 8 || p.timeout != time.Second {
		t.Errorf("expected 8 workers and 1s timeout, got %d and %v", p.workers, p.timeout)
	}
}

func histEntry(week int, frustration float64) emotion.HistoryEntry {
	return emotion.HistoryEntry{
		WeekNumber: week,
		Profile: emotion.Profile{
			FrustrationLevel:  frustration,
			EngagementLevel:   0.6,
			SatisfactionLevel: 1 - frustration,
		},
	}
}
