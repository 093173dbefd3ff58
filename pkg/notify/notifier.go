// Package notify pushes match request events to connected users. Delivery is best
// effort: events for users without a live connection are dropped.
package notify

import (
	"time"
)

type EventType string

const (
	EventRequestCreated   EventType = "match_request.created"
	EventRequestAccepted  EventType = "match_request.accepted"
	EventRequestRejected  EventType = "match_request.rejected"
	EventRequestWithdrawn EventType = "match_request.withdrawn"
	EventMemberRemoved    EventType = "team.member_removed"
)

type Event struct {
	Type      EventType `json:"type"`
	UserID    int       `json:"user_id"`
	RequestID int       `json:"request_id,omitempty"`
	PostID    int       `json:"post_id,omitempty"`
	TeamID    int       `json:"team_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier delivers an event to the user named by event.UserID. Implementations must
// not block the caller on slow consumers.
type Notifier interface {
	Notify(event Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// Hub fans every event out to both the SSE and websocket connections of a user.
type Hub struct {
	sse *SSEManager
	ws  *WebSocketManager
}

func NewHub() *Hub {
	return &Hub{
		sse: NewSSEManager(),
		ws:  NewWebSocketManager(),
	}
}

func (h *Hub) Notify(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.sse.BroadcastToUser(event.UserID, event)
	h.ws.BroadcastToUser(event.UserID, event)
}

func (h *Hub) SSE() *SSEManager {
	return h.sse
}

func (h *Hub) WebSocket() *WebSocketManager {
	return h.ws
}

// ConnectionCount is the number of live SSE and websocket connections for a user.
func (h *Hub) ConnectionCount(userID int) int {
	return h.sse.GetConnectionCount(userID) + h.ws.GetConnectionCount(userID)
}
