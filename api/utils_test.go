package api

import (
	"net/http/httptest"
	"testing"
)

func TestGetIntParam(t *testing.T) {
	one := 1
	hundred := 100

	tests := []struct {
		name       string
		url        string
		key        string
		defaultVal int
		minVal     *int
		maxVal     *int
		expected   int
	}{
		{"missing param returns default", "/api/alerts", "limit", 50, nil, nil, 50},
		{"valid param", "/api/alerts?limit=25", "limit", 50, nil, nil, 25},
		{"non-numeric returns default", "/api/alerts?limit=abc", "limit", 50, nil, nil, 50},
		{"below min returns default", "/api/alerts?limit=0", "limit", 50, &one, &hundred, 50},
		{"above max returns default", "/api/alerts?limit=500", "limit", 50, &one, &hundred, 50},
		{"at min boundary", "/api/alerts?limit=1", "limit", 50, &one, &hundred, 1},
		{"at max boundary", "/api/alerts?limit=100", "limit", 50, &one, &hundred, 100},
		{"negative without bounds", "/api/alerts?offset=-5", "offset", 0, nil, nil, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			got := getIntParam(r, tt.key, tt.defaultVal, tt.minVal, tt.maxVal)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestGetFloatParam(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		key        string
		defaultVal float64
		expected   float64
	}{
		{"missing param returns default", "/api/students/s1/similar", "min_similarity", 0.7, 0.7},
		{"valid param", "/api/students/s1/similar?min_similarity=0.85", "min_similarity", 0.7, 0.85},
		{"non-numeric returns default", "/api/students/s1/similar?min_similarity=high", "min_similarity", 0.7, 0.7},
		{"zero is accepted", "/api/students/s1/similar?min_similarity=0", "min_similarity", 0.7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			got := getFloatParam(r, tt.key, tt.defaultVal)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSetupSSE(t *testing.T) {
	w := httptest.NewRecorder()

	_, ok := setupSSE(w)
	if !ok {
		t.Fatal("expected httptest recorder to support flushing")
	}

	headers := map[string]string{
		"Content-Type":      "text/event-stream",
		"Cache-Control":     "no-cache",
		"Connection":        "keep-alive",
		"X-Accel-Buffering": "no",
	}
	for key, expected := range headers {
		if got := w.Header().Get(key); got != expected {
			t.Errorf("header %s: expected %q, got %q", key, expected, got)
		}
	}
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()

	respondWithError(w, 503, "analysis timed out", nil)

	if w.Code != 503 {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	if body := w.Body.String(); body != "analysis timed out\n" {
		t.Errorf("expected body %q, got %q", "analysis timed out\n", body)
	}
}
