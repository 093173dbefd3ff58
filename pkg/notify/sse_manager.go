package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/teamup-uiuc/teamup/pkg/clog"
)

const LogCtx = "notify"

// SSEManager tracks Server-Sent Events streams per user.
type SSEManager struct {
	// user id -> connection id -> event channel
	sseConnections map[int]map[string]chan Event
	mu             sync.RWMutex

	KeepAliveInterval time.Duration
}

func NewSSEManager() *SSEManager {
	return &SSEManager{
		sseConnections:    make(map[int]map[string]chan Event),
		KeepAliveInterval: 30 * time.Second,
	}
}

// RegisterConnection creates an event channel for a new stream of userID.
func (s *SSEManager) RegisterConnection(userID int) (string, <-chan Event) {
	eventChan := make(chan Event, 64)
	connectionID, err := uuid.GenerateUUID()
	if err != nil {
		connectionID = fmt.Sprintf("sse-%d-%d", userID, time.Now().UnixNano())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sseConnections[userID] == nil {
		s.sseConnections[userID] = make(map[string]chan Event)
	}
	s.sseConnections[userID][connectionID] = eventChan

	return connectionID, eventChan
}

func (s *SSEManager) UnregisterConnection(userID int, connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns, ok := s.sseConnections[userID]
	if !ok {
		return
	}

	if ch, exists := conns[connectionID]; exists {
		close(ch)
		delete(conns, connectionID)
	}

	if len(conns) == 0 {
		delete(s.sseConnections, userID)
	}
}

// BroadcastToUser queues event on every stream of userID. Streams whose buffer is
// full miss the event.
func (s *SSEManager) BroadcastToUser(userID int, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for connectionID, ch := range s.sseConnections[userID] {
		select {
		case ch <- event:
		default:
			clog.UsingCtx(LogCtx).WithField("connection_id", connectionID).
				Warnf("SSE buffer full for user %d, dropping %s", userID, event.Type)
		}
	}
}

// HandleSSE streams events for userID until the client goes away.
func (s *SSEManager) HandleSSE(w http.ResponseWriter, r *http.Request, userID int) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	connectionID, eventChan := s.RegisterConnection(userID)
	defer s.UnregisterConnection(userID, connectionID)

	_, _ = fmt.Fprintf(w, "event: connected\ndata: {\"user_id\":%d}\n\n", userID)
	flusher.Flush()

	ticker := time.NewTicker(s.KeepAliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-eventChan:
			data, err := json.Marshal(event)
			if err != nil {
				clog.UsingCtx(LogCtx).Errorf("Marshalling SSE event: %s", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (s *SSEManager) GetConnectionCount(userID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sseConnections[userID])
}
