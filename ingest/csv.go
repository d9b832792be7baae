package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Required CSV columns; aspect and meta columns are optional.
var requiredColumns = []string{"student_id", "course_id", "week_number", "feedback_text"}

// aspectColumns lists the headers carried into the extractor's aspect
// score map under the same names.
var aspectColumns = []string{
	"lms_usability",
	"instructor_quality",
	"content_difficulty",
	"support_quality",
	"course_pace",
}

// CSVSource parses feedback exports in CSV form. The header row decides
// column positions; unknown columns are ignored. Range checking of
// aspect scores happens downstream so a bad rating fails its item, not
// the upload.
type CSVSource struct {
	now func() time.Time
}

// NewCSVSource creates a CSV source
func NewCSVSource() *CSVSource {
	return &CSVSource{now: time.Now}
}

// Format names the wire format
func (s *CSVSource) Format() string {
	return "csv"
}

// Parse reads all rows. Malformed rows are reported per row and never
// abort the rest of the file.
func (s *CSVSource) Parse(r io.Reader) ([]Record, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var records []Record
	var rowErrors []string
	row := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		record, err := s.parseRow(index, fields)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		records = append(records, record)
	}

	return records, rowErrors, nil
}

func (s *CSVSource) parseRow(index map[string]int, fields []string) (Record, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	record := Record{
		StudentID:    get("student_id"),
		CourseID:     get("course_id"),
		FeedbackText: get("feedback_text"),
		SubmittedAt:  s.now(),
	}
	if record.StudentID == "" || record.CourseID == "" {
		return Record{}, fmt.Errorf("student_id and course_id must not be empty")
	}

	week, err := strconv.Atoi(get("week_number"))
	if err != nil {
		return Record{}, fmt.Errorf("week_number: %v", err)
	}
	record.WeekNumber = week

	if raw := get("submitted_at"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return Record{}, fmt.Errorf("submitted_at: %v", err)
		}
		record.SubmittedAt = ts
	}

	for _, name := range aspectColumns {
		raw := get(name)
		if raw == "" {
			continue
		}
		score, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %v", name, err)
		}
		if record.AspectScores == nil {
			record.AspectScores = map[string]int{}
		}
		record.AspectScores[name] = score
	}

	if raw := get("nps_score"); raw != "" {
		nps, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("nps_score: %v", err)
		}
		record.NPSScore = &nps
	}

	record.CompletionStatus = get("completion_status")
	return record, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
