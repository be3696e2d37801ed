package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coltranesx/Project-Area/application/commands/bus"
	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Hub fans document changes and notices out to the websocket clients of
// each workspace, and feeds client change batches into the command bus.
type Hub struct {
	commandBus *bus.CommandBus
	gauge      prometheus.Gauge
	logger     *zap.Logger
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

// NewHub creates a hub. gauge may be nil.
func NewHub(commandBus *bus.CommandBus, gauge prometheus.Gauge, allowedOrigins []string, logger *zap.Logger) *Hub {
	return &Hub{
		commandBus: commandBus,
		gauge:      gauge,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients: make(map[string]map[*Client]struct{}),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			allowed = nil
			break
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP upgrades the request and attaches the client to the workspace
// chosen by the authentication middleware.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.WorkspaceFrom(r.Context())
	if workspaceID == "" {
		workspaceID = editor.DefaultWorkspace
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), workspaceID, conn, h)
	if !h.register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.workspaceID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.workspaceID] = set
	}
	set[c] = struct{}{}
	if h.gauge != nil {
		h.gauge.Inc()
	}
	h.logger.Debug("Websocket client connected",
		zap.String("clientID", c.id),
		zap.String("workspaceID", c.workspaceID),
	)
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.workspaceID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.workspaceID)
	}
	c.closeSend()
	if h.gauge != nil {
		h.gauge.Dec()
	}
	h.logger.Debug("Websocket client disconnected",
		zap.String("clientID", c.id),
		zap.String("workspaceID", c.workspaceID),
	)
}

// Clients returns the number of connected clients of workspaceID
func (h *Hub) Clients(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// OnChange broadcasts a document change. Register it with
// editor.Registry.SubscribeAll.
func (h *Hub) OnChange(change editor.Change) {
	h.broadcast(change.WorkspaceID, changeMessage(change))
}

// Notify implements ports.Notifier
func (h *Hub) Notify(_ context.Context, notice ports.Notice) {
	h.broadcast(notice.WorkspaceID, OutboundMessage{Type: TypeNotice, Data: notice})
}

func (h *Hub) broadcast(workspaceID string, msg OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode websocket message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[workspaceID] {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow websocket client", zap.String("clientID", c.id))
		h.unregister(c)
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	var all []*Client
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
	return nil
}
