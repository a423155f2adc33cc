package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"civic-feedback-server/logger"
	"civic-feedback-server/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Queued outbound messages per client
	sendBufferSize = 16
)

// Error constants
var (
	ErrClientBufferFull = errors.New("client send buffer is full")
	ErrClientClosed     = errors.New("client connection closed")
)

// Client is one connected dashboard
type Client struct {
	Hub     *Hub
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Session *Session

	mu     sync.Mutex
	closed bool

	// pushMu serializes dashboard pushes so an older one is never queued
	// after a newer one
	pushMu sync.Mutex
}

// newUpgrader accepts same-origin requests and the listed origins.
// An empty list accepts every origin.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// ServeWebSocket upgrades the connection and registers a new dashboard client
func ServeWebSocket(hub *Hub, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("❌ WebSocket upgrade failed")
		return
	}

	client := &Client{
		Hub:     hub,
		ID:      uuid.NewString(),
		Conn:    conn,
		Send:    make(chan []byte, sendBufferSize),
		Session: NewSession(hub.dashboard.DefaultTable()),
	}

	if !hub.register(client) {
		conn.Close()
		return
	}

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// register hands client to the hub loop; false once the hub is stopped
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.quit:
	}
}

// readPump pumps messages from the WebSocket connection to the handlers
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Str("client_id", c.ID).Msg("❌ WebSocket read error")
			}
			break
		}

		var message ClientMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			_ = c.SendError("invalid_message", "Message must be a JSON object with a type")
			continue
		}

		handler, exists := c.Hub.MessageHandlers[message.Type]
		if !exists {
			logger.Debug().Str("type", message.Type).Msg("⚠️ Unknown message type")
			_ = c.SendError("unknown_type", "Unknown message type: "+message.Type)
			continue
		}
		if err := handler(c, &message); err != nil {
			_ = c.SendError("invalid_request", err.Error())
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for this client without blocking
func (c *Client) SendMessage(message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientBufferFull
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(errorType string, message string) error {
	return c.SendMessage(&Message{
		Type: "error",
		Data: map[string]interface{}{
			"error_type": errorType,
			"message":    message,
		},
		Timestamp: time.Now(),
	})
}

// closeSend closes the send channel once; later sends report ErrClientClosed
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// sendDashboard renders the client's session over records and queues it.
// A push whose session snapshot went stale while building is dropped; the
// change that made it stale triggers its own push.
func (c *Client) sendDashboard(records []models.Feedback) {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()

	query, version := c.Session.snapshot()
	dashboard, err := c.Hub.dashboard.BuildFrom(records, query)
	if err != nil {
		logger.Error().Err(err).Str("client_id", c.ID).Msg("❌ Failed to build dashboard")
		_ = c.SendError("dashboard_failed", "Failed to build dashboard")
		return
	}
	if !c.Session.observe(version, dashboard.Table.Pagination) {
		logger.Debug().Str("client_id", c.ID).Msg("⏭️ Dropped stale dashboard push")
		return
	}

	err = c.SendMessage(&Message{Type: "dashboard", Data: dashboard, Timestamp: time.Now()})
	if errors.Is(err, ErrClientBufferFull) {
		logger.Warn().Str("client_id", c.ID).Msg("⚠️ Dashboard client send buffer is full")
	}
}
