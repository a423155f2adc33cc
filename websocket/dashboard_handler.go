package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"civic-feedback-server/logger"
	"civic-feedback-server/models"
	"civic-feedback-server/services"
)

// Session is the per-connection dashboard state. Every change bumps version,
// so a dashboard built from an older snapshot can be recognized and dropped.
type Session struct {
	mu        sync.Mutex
	criteria  models.FilterCriteria
	table     services.TableView
	lastCount int
	version   uint64
}

// NewSession starts with no filters and the given table state
func NewSession(table services.TableView) *Session {
	return &Session{table: table}
}

// Query snapshots the session as a dashboard query
func (s *Session) Query() services.DashboardQuery {
	q, _ := s.snapshot()
	return q
}

// snapshot returns the query together with the version it was taken at
func (s *Session) snapshot() (services.DashboardQuery, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return services.DashboardQuery{Criteria: s.criteria, Table: s.table}, s.version
}

// SetCriteria replaces the filters and goes back to the first page
func (s *Session) SetCriteria(criteria models.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = criteria
	s.table = s.table.WithPage(1)
	s.version++
}

// ToggleSort applies a column header click
func (s *Session) ToggleSort(field models.SortField) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.table.ToggleSort(field)
	if err != nil {
		return err
	}
	s.table = table
	s.version++
	return nil
}

// SetPage requests a page; it is clamped when the dashboard is built
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = s.table.WithPage(page)
	s.version++
}

// Next moves forward against the row count of the last dashboard sent
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = s.table.Next(s.lastCount)
	s.version++
}

// Previous moves back one page
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = s.table.Previous(s.lastCount)
	s.version++
}

// observe records the clamped page and row count of a dashboard built from
// the snapshot taken at version. It reports false, changing nothing, when the
// session has moved on since; that dashboard must not be sent.
func (s *Session) observe(version uint64, p models.Pagination) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return false
	}
	s.lastCount = p.TotalCount
	s.table = s.table.WithPage(p.Page)
	return true
}

type sortPayload struct {
	Field string `json:"field"`
}

type pagePayload struct {
	Page int `json:"page"`
}

// pushDashboard loads the feedback and sends this client its dashboard
func (c *Client) pushDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	records, err := c.Hub.dashboard.Store().GetAllFeedback(ctx)
	if err != nil {
		logger.Error().Err(err).Str("client_id", c.ID).Msg("❌ Failed to load feedback for dashboard")
		_ = c.SendError("refresh_failed", "Failed to load feedback")
		return
	}
	c.sendDashboard(records)
}

func decodePayload(message *ClientMessage, dest interface{}) error {
	if len(message.Data) == 0 {
		return fmt.Errorf("%s message requires data", message.Type)
	}
	if err := json.Unmarshal(message.Data, dest); err != nil {
		return fmt.Errorf("invalid %s data: %w", message.Type, err)
	}
	return nil
}

// handleFilter replaces the session filters
func (h *Hub) handleFilter(client *Client, message *ClientMessage) error {
	var params models.FilterParams
	if err := decodePayload(message, &params); err != nil {
		return err
	}
	criteria, err := models.ParseFilterCriteria(params)
	if err != nil {
		return err
	}
	client.Session.SetCriteria(criteria)
	client.pushDashboard()
	return nil
}

// handleSort toggles the sort column
func (h *Hub) handleSort(client *Client, message *ClientMessage) error {
	var payload sortPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	if err := client.Session.ToggleSort(models.SortField(payload.Field)); err != nil {
		return err
	}
	client.pushDashboard()
	return nil
}

// handlePage jumps to a page
func (h *Hub) handlePage(client *Client, message *ClientMessage) error {
	var payload pagePayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	client.Session.SetPage(payload.Page)
	client.pushDashboard()
	return nil
}

func (h *Hub) handleNext(client *Client, _ *ClientMessage) error {
	client.Session.Next()
	client.pushDashboard()
	return nil
}

func (h *Hub) handlePrevious(client *Client, _ *ClientMessage) error {
	client.Session.Previous()
	client.pushDashboard()
	return nil
}

// handlePing handles ping messages for connection health
func (h *Hub) handlePing(client *Client, _ *ClientMessage) error {
	return client.SendMessage(&Message{Type: "pong", Timestamp: time.Now()})
}

// DashboardHandler serves the live dashboard endpoint
type DashboardHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewDashboardHandler creates the handler; allowedOrigins restricts browsers
func NewDashboardHandler(hub *Hub, allowedOrigins []string) *DashboardHandler {
	return &DashboardHandler{hub: hub, upgrader: newUpgrader(allowedOrigins)}
}

// HandleDashboard upgrades GET /official/ws
func (h *DashboardHandler) HandleDashboard(c *gin.Context) {
	ServeWebSocket(h.hub, h.upgrader, c.Writer, c.Request)
}
