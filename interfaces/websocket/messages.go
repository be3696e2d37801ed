package websocket

import (
	"encoding/json"

	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
)

// Message types exchanged on the change channel.
const (
	TypeDocumentChanged = "document.changed"
	TypeNotice          = "notice"
	TypeResult          = "result"
	TypeError           = "error"

	TypeNodeChanges = "nodes.changes"
	TypeEdgeChanges = "edges.changes"
	TypeConnect     = "connect"
)

// OutboundMessage is sent from the server to clients
type OutboundMessage struct {
	Type    string        `json:"type"`
	Reason  editor.Reason `json:"reason,omitempty"`
	Version int           `json:"version,omitempty"`
	ID      string        `json:"id,omitempty"`
	Data    any           `json:"data,omitempty"`
}

// InboundMessage is sent from clients to the server. ID is echoed back on
// the matching result or error.
type InboundMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func changeMessage(change editor.Change) OutboundMessage {
	return OutboundMessage{
		Type:    TypeDocumentChanged,
		Reason:  change.Reason,
		Version: change.Version,
		Data:    change.Document,
	}
}

// decodeNodeChanges and friends keep the wire types in one place.
func decodeNodeChanges(raw json.RawMessage) ([]aggregates.NodeChange, error) {
	var changes []aggregates.NodeChange
	err := json.Unmarshal(raw, &changes)
	return changes, err
}

func decodeEdgeChanges(raw json.RawMessage) ([]aggregates.EdgeChange, error) {
	var changes []aggregates.EdgeChange
	err := json.Unmarshal(raw, &changes)
	return changes, err
}

func decodeConnection(raw json.RawMessage) (aggregates.Connection, error) {
	var conn aggregates.Connection
	err := json.Unmarshal(raw, &conn)
	return conn, err
}
