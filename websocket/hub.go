package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"civic-feedback-server/logger"
	"civic-feedback-server/services"
)

// refreshTimeout bounds one store fetch during a refresh
const refreshTimeout = 5 * time.Second

// Hub manages all dashboard connections
type Hub struct {
	// Registered clients
	Clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Message handlers keyed by client message type
	MessageHandlers map[string]MessageHandler

	dashboard *services.DashboardService
	refresh   chan struct{}
	quit      chan struct{}
	stopOnce  sync.Once

	mu sync.RWMutex
}

// Message is a server to client message
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is a client to server message. Data depends on Type.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessageHandler handles one client message type
type MessageHandler func(*Client, *ClientMessage) error

// NewHub creates a new WebSocket hub
func NewHub(dashboard *services.DashboardService) *Hub {
	hub := &Hub{
		Clients:         make(map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		MessageHandlers: make(map[string]MessageHandler),
		dashboard:       dashboard,
		// One pending refresh is enough; later requests coalesce into it
		refresh: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}

	// Register default message handlers
	hub.registerDefaultHandlers()

	return hub
}

// Run starts the hub's main loop and returns after Stop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.ID] = client
			h.mu.Unlock()
			logger.Info().Str("client_id", client.ID).Msg("🔌 Dashboard client registered")
			// The first push fetches from the store; keep the loop responsive
			go client.pushDashboard()

		case client := <-h.Unregister:
			h.removeClient(client)

		case <-h.refresh:
			h.pushAll()

		case <-h.quit:
			h.mu.Lock()
			for id, client := range h.Clients {
				delete(h.Clients, id)
				client.closeSend()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client's send channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Refresh asks every session to recompute its dashboard. It never blocks.
func (h *Hub) Refresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// ClientCount returns the number of connected dashboards
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Clients[client.ID]; ok {
		delete(h.Clients, client.ID)
		client.closeSend()
		logger.Info().Str("client_id", client.ID).Msg("🔌 Dashboard client unregistered")
	}
}

// pushAll loads the feedback once and sends each client the dashboard for
// its own session state
func (h *Hub) pushAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.Clients))
	for _, client := range h.Clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	records, err := h.dashboard.Store().GetAllFeedback(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Dashboard refresh failed to load feedback")
		for _, client := range clients {
			_ = client.SendError("refresh_failed", "Failed to load feedback")
		}
		return
	}

	for _, client := range clients {
		client.sendDashboard(records)
	}
	logger.Debug().Int("clients", len(clients)).Msg("🔄 Dashboards refreshed")
}

// registerDefaultHandlers registers default message handlers
func (h *Hub) registerDefaultHandlers() {
	h.MessageHandlers["filter"] = h.handleFilter
	h.MessageHandlers["sort"] = h.handleSort
	h.MessageHandlers["page"] = h.handlePage
	h.MessageHandlers["next"] = h.handleNext
	h.MessageHandlers["previous"] = h.handlePrevious
	h.MessageHandlers["ping"] = h.handlePing
}
