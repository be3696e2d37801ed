package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// Client is one websocket connection bound to a workspace
type Client struct {
	id          string
	workspaceID string
	conn        *websocket.Conn
	hub         *Hub

	send      chan []byte
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

func newClient(id, workspaceID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:          id,
		workspaceID: workspaceID,
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, sendBuffer),
	}
}

// enqueue queues data without blocking. It reports false when the client
// cannot keep up.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg InboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Websocket read failed", zap.String("clientID", c.id), zap.Error(err))
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle turns an inbound message into a command. The resulting document
// change reaches the client through the hub like any other change.
func (c *Client) handle(msg InboundMessage) {
	ctx := context.Background()
	ws := commands.Workspace{WorkspaceID: c.workspaceID}

	var cmd bus.Command
	switch msg.Type {
	case TypeNodeChanges:
		changes, err := decodeNodeChanges(msg.Data)
		if err != nil {
			c.reply(msg.ID, nil, apperrors.NewValidationError("invalid node changes: "+err.Error()))
			return
		}
		cmd = commands.ApplyNodeChangesCommand{Workspace: ws, Changes: changes}
	case TypeEdgeChanges:
		changes, err := decodeEdgeChanges(msg.Data)
		if err != nil {
			c.reply(msg.ID, nil, apperrors.NewValidationError("invalid edge changes: "+err.Error()))
			return
		}
		cmd = commands.ApplyEdgeChangesCommand{Workspace: ws, Changes: changes}
	case TypeConnect:
		conn, err := decodeConnection(msg.Data)
		if err != nil {
			c.reply(msg.ID, nil, apperrors.NewValidationError("invalid connection: "+err.Error()))
			return
		}
		cmd = commands.ConnectCommand{Workspace: ws, Connection: conn}
	default:
		c.reply(msg.ID, nil, apperrors.NewValidationError("unknown message type: "+msg.Type))
		return
	}

	result, err := c.hub.commandBus.Send(ctx, cmd)
	c.reply(msg.ID, result, err)
}

func (c *Client) reply(id string, result any, err error) {
	out := OutboundMessage{Type: TypeResult, ID: id, Data: result}
	if err != nil {
		data := ErrorData{Message: err.Error()}
		if appErr := apperrors.GetAppError(err); appErr != nil {
			data = ErrorData{Message: appErr.Message, Code: appErr.Code}
		}
		out = OutboundMessage{Type: TypeError, ID: id, Data: data}
	}

	payload, mErr := json.Marshal(out)
	if mErr != nil {
		c.hub.logger.Error("Failed to encode websocket reply", zap.Error(mErr))
		return
	}
	if !c.enqueue(payload) {
		c.hub.unregister(c)
	}
}
