package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"feedback-pulse/database"
)

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readAlert(t *testing.T, conn *websocket.Conn) database.EmotionAlert {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("expected alert message, got %v", err)
	}

	var envelope struct {
		Event   string                `json:"event"`
		Payload database.EmotionAlert `json:"payload"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatalf("expected valid JSON envelope, got %v", err)
	}
	if envelope.Event != "alert_raised" {
		t.Errorf("expected event alert_raised, got %s", envelope.Event)
	}
	return envelope.Payload
}

func TestHubBroadcastFiltersByCourse(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	all, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("expected dial to succeed, got %v", err)
	}
	defer all.Close()

	scoped, _, err := websocket.DefaultDialer.Dial(wsURL+"?course_id=go-101", nil)
	if err != nil {
		t.Fatalf("expected scoped dial to succeed, got %v", err)
	}
	defer scoped.Close()

	waitForClients(t, hub, 2)

	hub.BroadcastAlert(&database.EmotionAlert{
		StudentID: "s1",
		CourseID:  "go-101",
		AlertType: database.AlertFrustrationBoilingPoint,
		RiskLevel: database.RiskHigh,
	})

	got := readAlert(t, all)
	if got.StudentID != "s1" || got.CourseID != "go-101" {
		t.Errorf("expected alert for s1/go-101, got %s/%s", got.StudentID, got.CourseID)
	}
	scopedGot := readAlert(t, scoped)
	if scopedGot.CourseID != "go-101" {
		t.Errorf("expected scoped client to receive go-101 alert, got %s", scopedGot.CourseID)
	}

	// An alert for another course reaches the unscoped client only
	hub.BroadcastAlert(&database.EmotionAlert{
		StudentID: "s2",
		CourseID:  "ml-200",
		AlertType: database.AlertEngagementDropout,
		RiskLevel: database.RiskMedium,
	})

	got = readAlert(t, all)
	if got.CourseID != "ml-200" {
		t.Errorf("expected ml-200 alert on unscoped client, got %s", got.CourseID)
	}

	scoped.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	if _, _, err := scoped.ReadMessage(); err == nil {
		t.Error("expected no message for scoped client on other course")
	}
}

func TestHubBroadcastNilAlert(t *testing.T) {
	hub := NewHub()
	// No Run loop needed, a nil alert must be ignored before the channel
	hub.BroadcastAlert(nil)
	if len(hub.broadcast) != 0 {
		t.Errorf("expected no queued message for nil alert, got %d", len(hub.broadcast))
	}
}
