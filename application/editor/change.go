package editor

import (
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
)

// Reason names the command behind a Change.
type Reason string

const (
	ReasonNodeAdded        Reason = "node.added"
	ReasonNodesDeleted     Reason = "nodes.deleted"
	ReasonImported         Reason = "document.imported"
	ReasonReset            Reason = "document.reset"
	ReasonRenamed          Reason = "project.renamed"
	ReasonNodeEdited       Reason = "node.edited"
	ReasonNodeColorChanged Reason = "node.color_changed"
	ReasonNodesChanged     Reason = "nodes.changed"
	ReasonEdgesChanged     Reason = "edges.changed"
	ReasonConnected        Reason = "edge.connected"
)

// Change is emitted after every successful document mutation.
// Version increases by one per change within a workspace session and is
// only meant for ordering; it says nothing about what has been saved.
type Change struct {
	WorkspaceID string
	Reason      Reason
	Document    aggregates.Document
	Version     int
}

// Listener receives changes. It runs on the goroutine that made the change,
// after the controller lock is released, and may call back into the controller.
type Listener func(Change)

type listenerEntry struct {
	id int
	fn Listener
}
