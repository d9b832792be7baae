package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"feedback-pulse/batch"
	"feedback-pulse/database"
	"feedback-pulse/ingest"
)

// analyzeRequest is one feedback submission for analysis
type analyzeRequest struct {
	StudentID    string         `json:"student_id"`
	CourseID     string         `json:"course_id"`
	WeekNumber   int            `json:"week_number"`
	FeedbackText string         `json:"feedback_text"`
	AspectScores map[string]int `json:"aspect_scores,omitempty"`
	Persist      bool           `json:"persist,omitempty"`
}

func (req *analyzeRequest) record() ingest.Record {
	return ingest.Record{
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		WeekNumber:   req.WeekNumber,
		FeedbackText: req.FeedbackText,
		AspectScores: req.AspectScores,
	}
}

// handleAnalyzeFeedback extracts the emotion profile from one feedback
// submission, optionally persisting the journey row
func (s *Server) handleAnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StudentID == "" || req.CourseID == "" {
		http.Error(w, "student_id and course_id are required", http.StatusBadRequest)
		return
	}

	profile, err := s.ingestSvc.AnalyzeOne(r.Context(), req.record(), req.Persist)
	if err != nil {
		var validation *database.ValidationError
		switch {
		case errors.As(err, &validation):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, ingest.ErrTimedOut):
			respondWithError(w, http.StatusServiceUnavailable, "analysis timed out", err)
		default:
			respondWithError(w, http.StatusInternalServerError, "analysis failed", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"student_id":      req.StudentID,
		"course_id":       req.CourseID,
		"week_number":     req.WeekNumber,
		"persisted":       req.Persist,
		"emotion_profile": profile,
	})
}

// handleBatchAnalyze runs a batch of submissions through the worker pool
func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items   []analyzeRequest `json:"items"`
		Persist bool             `json:"persist,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "items must not be empty", http.StatusBadRequest)
		return
	}
	if len(req.Items) > database.MaxLimit {
		http.Error(w, "too many items in one batch", http.StatusBadRequest)
		return
	}

	records := make([]ingest.Record, len(req.Items))
	for i, item := range req.Items {
		if item.StudentID == "" || item.CourseID == "" {
			http.Error(w, "student_id and course_id are required for every item", http.StatusBadRequest)
			return
		}
		records[i] = item.record()
	}

	analyzed, result, err := s.ingestSvc.AnalyzeBatch(r.Context(), records, req.Persist)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "batch analysis failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results":    analyzed.Results,
		"succeeded":  analyzed.Succeeded,
		"failed":     analyzed.Failed,
		"incomplete": analyzed.Incomplete,
		"persisted":  req.Persist,
		"saved":      result.Saved,
		"row_errors": result.RowErrors,
	})
}

// handleBatchTrajectories forecasts several students at once from their
// stored histories
func (s *Server) handleBatchTrajectories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			StudentID string `json:"student_id"`
			CourseID  string `json:"course_id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "items must not be empty", http.StatusBadRequest)
		return
	}
	if len(req.Items) > database.MaxLimit {
		http.Error(w, "too many items in one batch", http.StatusBadRequest)
		return
	}

	items := make([]batch.TrajectoryItem, len(req.Items))
	for i, item := range req.Items {
		if item.StudentID == "" || item.CourseID == "" {
			http.Error(w, "student_id and course_id are required for every item", http.StatusBadRequest)
			return
		}
		history, err := s.journeys.GetStudentHistory(item.StudentID, item.CourseID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to load history", err)
			return
		}
		items[i] = batch.TrajectoryItem{
			StudentID: item.StudentID,
			CourseID:  item.CourseID,
			History:   history,
		}
	}

	predicted := s.processor.ProcessTrajectories(r.Context(), items)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results":    predicted.Results,
		"succeeded":  predicted.Succeeded,
		"incomplete": predicted.Incomplete,
	})
}

// uploadReader picks the feedback payload from a multipart upload or the
// raw request body
func uploadReader(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return http.MaxBytesReader(w, r.Body, maxUploadBytes), nil
}

// handleImportFeedback parses an uploaded feedback export and runs it
// through analysis and storage
func (s *Server) handleImportFeedback(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	reader, err := uploadReader(w, r)
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer reader.Close()

	records, rowErrors, err := s.sources.Parse(format, reader)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	log.Printf("📥 Import: %d records parsed (%d rows rejected)", len(records), len(rowErrors))

	result, err := s.ingestSvc.IngestRecords(r.Context(), records)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "import failed", err)
		return
	}
	result.RowErrors = append(rowErrors, result.RowErrors...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"format": format,
		"result": result,
	})
}

// handleBackfillFeedback bulk-imports an analyzed feedback export over
// the COPY path, for initial loads of finished course runs
func (s *Server) handleBackfillFeedback(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	reader, err := uploadReader(w, r)
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer reader.Close()

	records, rowErrors, err := s.sources.Parse(format, reader)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	log.Printf("📥 Backfill: %d records parsed (%d rows rejected)", len(records), len(rowErrors))

	result, err := s.ingestSvc.Backfill(r.Context(), s.rawDB, records)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "backfill failed", err)
		return
	}
	result.RowErrors = append(rowErrors, result.RowErrors...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"format": format,
		"result": result,
	})
}
