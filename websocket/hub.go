package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"feedback-pulse/database"
)

// alertMessage carries one encoded alert through the hub, tagged with
// its course so per-course subscribers can be skipped.
type alertMessage struct {
	courseID string
	data     []byte
}

// Hub fans emotion alerts out to connected WebSocket clients. Clients
// subscribe on /ws/alerts, optionally scoped to one course.
type Hub struct {
	clients    map[*ClientConn]bool
	register   chan *ClientConn
	unregister chan *ClientConn
	broadcast  chan alertMessage
	mu         sync.RWMutex
}

// NewHub creates a new alert hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*ClientConn]bool),
		register:   make(chan *ClientConn),
		unregister: make(chan *ClientConn),
		broadcast:  make(chan alertMessage, 256),
	}
}

// Run starts the hub loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected. Total: %d", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("WebSocket client disconnected. Total: %d", len(h.clients))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.courseID != "" && client.courseID != msg.courseID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer, drop it rather than block the hub
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount reports how many subscribers are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAlert pushes one alert to every matching subscriber
func (h *Hub) BroadcastAlert(alert *database.EmotionAlert) {
	if alert == nil {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"event":   "alert_raised",
		"payload": alert,
	})
	if err != nil {
		log.Printf("Error marshalling alert for WebSocket: %v", err)
		return
	}

	select {
	case h.broadcast <- alertMessage{courseID: alert.CourseID, data: data}:
	default:
		// Drop if broadcast buffer full
	}
}
