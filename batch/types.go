package batch

import (
	"feedback-pulse/emotion"
	"feedback-pulse/trajectory"
)

// FeedbackItem is one raw feedback row submitted for extraction. The
// optional history gives trend context; the caller sources it from
// storage, so items never depend on each other.
type FeedbackItem struct {
	StudentID    string          `json:"student_id"`
	CourseID     string          `json:"course_id"`
	WeekNumber   int             `json:"week_number"`
	FeedbackText string          `json:"feedback_text"`
	AspectScores map[string]int  `json:"aspect_scores,omitempty"`
	History      emotion.History `json:"history,omitempty"`
}

// FeedbackResult is the outcome for one item, reported at its input
// position. Exactly one of Profile, Error or Incomplete carries the
// outcome.
type FeedbackResult struct {
	Index      int              `json:"index"`
	StudentID  string           `json:"student_id"`
	CourseID   string           `json:"course_id"`
	WeekNumber int              `json:"week_number"`
	Profile    *emotion.Profile `json:"profile,omitempty"`
	Error      string           `json:"error,omitempty"`
	Incomplete bool             `json:"incomplete,omitempty"`
}

// FeedbackBatch is a completed extraction batch in input order.
type FeedbackBatch struct {
	Results    []FeedbackResult `json:"results"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Incomplete int              `json:"incomplete"`
}

// TrajectoryItem is one student history submitted for prediction.
type TrajectoryItem struct {
	StudentID string          `json:"student_id"`
	CourseID  string          `json:"course_id"`
	History   emotion.History `json:"history"`
}

// TrajectoryResult is the outcome for one history, reported at its
// input position.
type TrajectoryResult struct {
	Index      int                    `json:"index"`
	StudentID  string                 `json:"student_id"`
	CourseID   string                 `json:"course_id"`
	Prediction *trajectory.Prediction `json:"prediction,omitempty"`
	Incomplete bool                   `json:"incomplete,omitempty"`
}

// TrajectoryBatch is a completed prediction batch in input order.
type TrajectoryBatch struct {
	Results    []TrajectoryResult `json:"results"`
	Succeeded  int                `json:"succeeded"`
	Incomplete int                `json:"incomplete"`
}
