package ingest

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestCSVParseFullRow(t *testing.T) {
	input := strings.Join([]string{
		"student_id,course_id,week_number,feedback_text,submitted_at,lms_usability,instructor_quality,content_difficulty,support_quality,course_pace,nps_score,completion_status",
		"s1,go-101,3,The platform keeps crashing,2025-03-01T09:30:00Z,2,4,3,5,3,6,enrolled",
	}, "\n")

	source := &CSVSource{now: fixedClock}
	records, rowErrors, err := source.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.StudentID != "s1" {
		t.Errorf("expected student s1, got %s", record.StudentID)
	}
	if record.CourseID != "go-101" {
		t.Errorf("expected course go-101, got %s", record.CourseID)
	}
	if record.WeekNumber != 3 {
		t.Errorf("expected week 3, got %d", record.WeekNumber)
	}
	if record.FeedbackText != "The platform keeps crashing" {
		t.Errorf("unexpected feedback text: %q", record.FeedbackText)
	}
	want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	if !record.SubmittedAt.Equal(want) {
		t.Errorf("expected submitted_at %v, got %v", want, record.SubmittedAt)
	}
	if len(record.AspectScores) != 5 {
		t.Fatalf("expected 5 aspect scores, got %d", len(record.AspectScores))
	}
	if record.AspectScores["lms_usability"] != 2 {
		t.Errorf("expected lms_usability 2, got %d", record.AspectScores["lms_usability"])
	}
	if record.AspectScores["support_quality"] != 5 {
		t.Errorf("expected support_quality 5, got %d", record.AspectScores["support_quality"])
	}
	if record.NPSScore == nil || *record.NPSScore != 6 {
		t.Errorf("expected nps 6, got %v", record.NPSScore)
	}
	if record.CompletionStatus != "enrolled" {
		t.Errorf("expected completion_status enrolled, got %s", record.CompletionStatus)
	}
}

func TestCSVParseMissingRequiredColumn(t *testing.T) {
	input := "student_id,course_id,feedback_text\ns1,go-101,fine"

	source := NewCSVSource()
	_, _, err := source.Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for missing week_number column, got nil")
	}
	if !strings.Contains(err.Error(), "week_number") {
		t.Errorf("expected error to name week_number, got %v", err)
	}
}

func TestCSVParseBadRowsKeepGoodRows(t *testing.T) {
	input := strings.Join([]string{
		"student_id,course_id,week_number,feedback_text",
		"s1,go-101,1,all good",
		"s2,go-101,soon,not a week",
		",go-101,2,missing student",
		"s3,go-101,2,still fine",
	}, "\n")

	source := NewCSVSource()
	records, rowErrors, err := source.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].StudentID != "s1" || records[1].StudentID != "s3" {
		t.Errorf("expected s1 and s3 to survive, got %s and %s", records[0].StudentID, records[1].StudentID)
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrors)
	}
	if !strings.Contains(rowErrors[0], "row 3") || !strings.Contains(rowErrors[0], "week_number") {
		t.Errorf("expected first error to flag row 3 week_number, got %s", rowErrors[0])
	}
	if !strings.Contains(rowErrors[1], "row 4") {
		t.Errorf("expected second error to flag row 4, got %s", rowErrors[1])
	}
}

func TestCSVParseQuotedText(t *testing.T) {
	input := strings.Join([]string{
		"student_id,course_id,week_number,feedback_text",
		`s1,go-101,2,"Honestly, the labs are broken, and support said ""wait"""`,
	}, "\n")

	source := NewCSVSource()
	records, rowErrors, err := source.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	wantText := `Honestly, the labs are broken, and support said "wait"`
	if records[0].FeedbackText != wantText {
		t.Errorf("expected %q, got %q", wantText, records[0].FeedbackText)
	}
}

func TestCSVParseOptionalCellsEmpty(t *testing.T) {
	input := strings.Join([]string{
		"student_id,course_id,week_number,feedback_text,submitted_at,lms_usability,nps_score",
		"s1,go-101,1,quiet week,,,",
	}, "\n")

	source := &CSVSource{now: fixedClock}
	records, rowErrors, err := source.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}

	record := records[0]
	if record.AspectScores != nil {
		t.Errorf("expected nil aspect scores, got %v", record.AspectScores)
	}
	if record.NPSScore != nil {
		t.Errorf("expected nil nps, got %v", *record.NPSScore)
	}
	if !record.SubmittedAt.Equal(fixedClock()) {
		t.Errorf("expected parse-time default submitted_at, got %v", record.SubmittedAt)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2025-03-01T09:30:00Z", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), false},
		{"datetime", "2025-03-01 09:30:00", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), false},
		{"date only", "2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "first of march", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got nil", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
