package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields. The aggregate is the workspace.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func base(workspaceID, eventType string, version int, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: workspaceID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     version,
	}
}

// Document events

// DocumentSaved is raised after a quick save to the local cache
type DocumentSaved struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewDocumentSaved creates a DocumentSaved event
func NewDocumentSaved(workspaceID string, version, nodes, edges int, at time.Time) DocumentSaved {
	return DocumentSaved{
		BaseEvent: base(workspaceID, "document.saved", version, at),
		NodeCount: nodes,
		EdgeCount: edges,
	}
}

// DocumentExported is raised after a file export
type DocumentExported struct {
	BaseEvent
	FileName string `json:"file_name"`
	Bytes    int    `json:"bytes"`
}

// NewDocumentExported creates a DocumentExported event
func NewDocumentExported(workspaceID string, version int, fileName string, size int, at time.Time) DocumentExported {
	return DocumentExported{
		BaseEvent: base(workspaceID, "document.exported", version, at),
		FileName:  fileName,
		Bytes:     size,
	}
}

// DocumentImported is raised when an imported file replaced the document
type DocumentImported struct {
	BaseEvent
	FileName  string `json:"file_name"`
	NodeCount int    `json:"node_count"`
}

// NewDocumentImported creates a DocumentImported event
func NewDocumentImported(workspaceID string, version int, fileName string, nodes int, at time.Time) DocumentImported {
	return DocumentImported{
		BaseEvent: base(workspaceID, "document.imported", version, at),
		FileName:  fileName,
		NodeCount: nodes,
	}
}

// DocumentReset is raised when the cache was cleared and the seed restored
type DocumentReset struct {
	BaseEvent
}

// NewDocumentReset creates a DocumentReset event
func NewDocumentReset(workspaceID string, version int, at time.Time) DocumentReset {
	return DocumentReset{BaseEvent: base(workspaceID, "document.reset", version, at)}
}

// ProjectRenamed is raised when the project name changes
type ProjectRenamed struct {
	BaseEvent
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// NewProjectRenamed creates a ProjectRenamed event
func NewProjectRenamed(workspaceID string, version int, oldName, newName string, at time.Time) ProjectRenamed {
	return ProjectRenamed{
		BaseEvent: base(workspaceID, "project.renamed", version, at),
		OldName:   oldName,
		NewName:   newName,
	}
}

// Node events

// NodeAdded is raised when addNode appended a node
type NodeAdded struct {
	BaseEvent
	NodeID string `json:"node_id"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(workspaceID string, version int, nodeID string, at time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: base(workspaceID, "node.added", version, at),
		NodeID:    nodeID,
	}
}

// NodesDeleted is raised when deleteSelected removed nodes
type NodesDeleted struct {
	BaseEvent
	NodeIDs []string `json:"node_ids"`
}

// NewNodesDeleted creates a NodesDeleted event
func NewNodesDeleted(workspaceID string, version int, nodeIDs []string, at time.Time) NodesDeleted {
	return NodesDeleted{
		BaseEvent: base(workspaceID, "nodes.deleted", version, at),
		NodeIDs:   nodeIDs,
	}
}
