package ingest

import (
	"io"
	"time"
)

// Record is one normalized feedback row from any source, before
// analysis.
type Record struct {
	StudentID        string         `json:"student_id"`
	CourseID         string         `json:"course_id"`
	WeekNumber       int            `json:"week_number"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	FeedbackText     string         `json:"feedback_text"`
	AspectScores     map[string]int `json:"aspect_scores,omitempty"`
	NPSScore         *int           `json:"nps_score,omitempty"`
	CompletionStatus string         `json:"completion_status,omitempty"`
}

// Source parses one external feedback format into records. Rows that
// cannot be parsed are reported individually and never abort the rest.
type Source interface {
	// Parse reads the full input and returns the parsed records plus
	// one message per skipped row.
	Parse(r io.Reader) ([]Record, []string, error)

	// Format names the wire format the source accepts.
	Format() string
}

// Result summarizes one ingestion run.
type Result struct {
	Parsed     int      `json:"parsed"`
	Saved      int      `json:"saved"`
	Failed     int      `json:"failed"`
	Incomplete int      `json:"incomplete"`
	RowErrors  []string `json:"row_errors,omitempty"`
}
