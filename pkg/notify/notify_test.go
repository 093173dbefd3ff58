package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEManagerRegisterAndBroadcast(t *testing.T) {
	m := NewSSEManager()

	id1, ch1 := m.RegisterConnection(7)
	_, ch2 := m.RegisterConnection(7)
	_, other := m.RegisterConnection(8)
	require.Equal(t, 2, m.GetConnectionCount(7))

	m.BroadcastToUser(7, Event{Type: EventRequestAccepted, RequestID: 3})

	assert.Equal(t, 3, (<-ch1).RequestID)
	assert.Equal(t, 3, (<-ch2).RequestID)
	assert.Empty(t, other)

	m.UnregisterConnection(7, id1)
	assert.Equal(t, 1, m.GetConnectionCount(7))
	_, open := <-ch1
	assert.False(t, open)

	// Unknown connections are ignored.
	m.UnregisterConnection(7, "missing")
	m.UnregisterConnection(99, id1)
}

func TestSSEManagerDropsWhenBufferFull(t *testing.T) {
	m := NewSSEManager()
	_, ch := m.RegisterConnection(1)

	for i := 0; i < 100; i++ {
		m.BroadcastToUser(1, Event{Type: EventRequestCreated, RequestID: i})
	}

	assert.Len(t, ch, 64)
}

func TestHandleSSEStreamsEvents(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.SSE().HandleSSE(w, r, 5)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return name, data
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, "connected", name)
	assert.JSONEq(t, `{"user_id":5}`, data)
	require.Eventually(t, func() bool { return hub.ConnectionCount(5) == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(Event{Type: EventRequestCreated, UserID: 5, RequestID: 11, PostID: 2})
	hub.Notify(Event{Type: EventRequestCreated, UserID: 6, RequestID: 12})

	name, data = readEvent()
	assert.Equal(t, string(EventRequestCreated), name)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, 11, event.RequestID)
	assert.Equal(t, 2, event.PostID)
	assert.False(t, event.At.IsZero())

	cancel()
	require.Eventually(t, func() bool { return hub.ConnectionCount(5) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHandleWebSocketDeliversEvents(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.WebSocket().HandleWebSocket(w, r, 9)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ConnectionCount(9) == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(Event{Type: EventMemberRemoved, UserID: 9, TeamID: 4})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventMemberRemoved, event.Type)
	assert.Equal(t, 4, event.TeamID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ConnectionCount(9) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = NopNotifier{}
	n.Notify(Event{Type: EventRequestCreated})
}
