package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-uuid"
	"github.com/teamup-uiuc/teamup/pkg/clog"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

type wsClient struct {
	id     string
	userID int
	conn   *websocket.Conn
	send   chan Event
}

// WebSocketManager tracks websocket connections per user. Clients only receive;
// anything they send is read and discarded so control frames keep flowing.
type WebSocketManager struct {
	clientsByUserID map[int]map[string]*wsClient
	mu              sync.RWMutex
	upgrader        websocket.Upgrader
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clientsByUserID: make(map[int]map[string]*wsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks are done by the CORS middleware in front of the handler.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request and blocks until the connection closes.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID int) error {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		_ = conn.Close()
		return err
	}

	client := &wsClient{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan Event, 64),
	}

	m.register(client)
	go client.writePump()
	client.readPump()
	m.unregister(client)

	return nil
}

func (m *WebSocketManager) register(client *wsClient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clientsByUserID[client.userID] == nil {
		m.clientsByUserID[client.userID] = make(map[string]*wsClient)
	}
	m.clientsByUserID[client.userID][client.id] = client

	clog.UsingCtx(LogCtx).WithFields(log.Fields{"user_id": client.userID, "connection_id": client.id}).
		Debug("websocket connected")
}

// unregister closes the send channel, which stops the writer and closes the socket.
func (m *WebSocketManager) unregister(client *wsClient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clients := m.clientsByUserID[client.userID]
	if _, ok := clients[client.id]; !ok {
		return
	}

	delete(clients, client.id)
	close(client.send)
	if len(clients) == 0 {
		delete(m.clientsByUserID, client.userID)
	}
}

func (m *WebSocketManager) BroadcastToUser(userID int, event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clientsByUserID[userID] {
		select {
		case client.send <- event:
		default:
			clog.UsingCtx(LogCtx).WithField("connection_id", client.id).
				Warnf("websocket buffer full for user %d, dropping %s", userID, event.Type)
		}
	}
}

func (m *WebSocketManager) GetConnectionCount(userID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clientsByUserID[userID])
}

func (c *wsClient) readPump() {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				clog.UsingCtx(LogCtx).Warnf("websocket read error for user %d: %s", c.userID, err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
