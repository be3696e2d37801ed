package aggregates

import (
	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
)

// Change types emitted by the rendering surface.
const (
	ChangePosition   = "position"
	ChangeDimensions = "dimensions"
	ChangeSelect     = "select"
	ChangeRemove     = "remove"
	ChangeAdd        = "add"
	ChangeReset      = "reset"
)

// NodeChange is one node change event from the rendering surface.
// Which members are meaningful depends on Type.
type NodeChange struct {
	Type             string                   `json:"type" validate:"required"`
	ID               string                   `json:"id,omitempty"`
	Position         *valueobjects.Position   `json:"position,omitempty"`
	PositionAbsolute *valueobjects.Position   `json:"positionAbsolute,omitempty"`
	Dragging         *bool                    `json:"dragging,omitempty"`
	Dimensions       *valueobjects.Dimensions `json:"dimensions,omitempty"`
	UpdateStyle      *bool                    `json:"updateStyle,omitempty"`
	Resizing         *bool                    `json:"resizing,omitempty"`
	Selected         *bool                    `json:"selected,omitempty"`
	Item             *entities.Node           `json:"item,omitempty"`
}

// EdgeChange is one edge change event from the rendering surface.
type EdgeChange struct {
	Type     string         `json:"type" validate:"required"`
	ID       string         `json:"id,omitempty"`
	Selected *bool          `json:"selected,omitempty"`
	Item     *entities.Edge `json:"item,omitempty"`
}

// Connection is a user-drawn link between two node handles.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// EdgeID returns the id the rendering library derives for a connection.
func (c Connection) EdgeID() string {
	return "reactflow__edge-" + c.Source + c.SourceHandle + "-" + c.Target + c.TargetHandle
}

// ChangeResult summarizes a batch of applied changes.
type ChangeResult struct {
	Applied int
	Ignored []string
}

// ApplyNodeChanges applies a batch of node changes.
//
// A batch holding any reset change replaces the whole list with the reset
// items. Otherwise added items come first, followed by the existing nodes with
// their changes applied in batch order. Changes naming unknown ids are dropped.
func (d Document) ApplyNodeChanges(changes []NodeChange) (Document, ChangeResult) {
	var result ChangeResult

	var resets []entities.Node
	hasReset := false
	for _, c := range changes {
		if c.Type == ChangeReset {
			hasReset = true
			if c.Item != nil {
				resets = append(resets, *c.Item)
			}
			result.Applied++
		}
	}
	if hasReset {
		return d.WithNodes(resets), result
	}

	byID := make(map[string][]NodeChange, len(changes))
	next := make([]entities.Node, 0, len(d.nodes)+len(changes))
	for _, c := range changes {
		switch c.Type {
		case ChangeAdd:
			if c.Item == nil {
				result.Ignored = append(result.Ignored, c.Type)
				continue
			}
			next = append(next, *c.Item)
			result.Applied++
		case ChangePosition, ChangeDimensions, ChangeSelect, ChangeRemove:
			if !d.HasNode(c.ID) {
				result.Ignored = append(result.Ignored, c.Type+":"+c.ID)
				continue
			}
			byID[c.ID] = append(byID[c.ID], c)
			result.Applied++
		default:
			result.Ignored = append(result.Ignored, c.Type)
		}
	}

	for _, n := range d.nodes {
		pending, ok := byID[n.ID.String()]
		if !ok {
			next = append(next, n)
			continue
		}
		removed := false
		for _, c := range pending {
			switch c.Type {
			case ChangeSelect:
				if c.Selected != nil {
					n = n.WithSelected(*c.Selected)
				}
			case ChangePosition:
				n = applyPosition(n, c)
			case ChangeDimensions:
				n = applyDimensions(n, c)
			case ChangeRemove:
				removed = true
			}
		}
		if !removed {
			next = append(next, n)
		}
	}

	return Document{projectName: d.projectName, nodes: next, edges: cloneEdges(d.edges)}, result
}

func applyPosition(n entities.Node, c NodeChange) entities.Node {
	if c.Position != nil {
		n = n.WithPosition(*c.Position)
	}
	if c.PositionAbsolute != nil {
		n = n.WithPositionAbsolute(*c.PositionAbsolute)
	}
	if c.Dragging != nil {
		n = n.WithDragging(*c.Dragging)
	}
	return n
}

// applyDimensions records the measured size on the node. The style box only
// follows it when the change asks for that with updateStyle, whatever its value.
func applyDimensions(n entities.Node, c NodeChange) entities.Node {
	if c.Dimensions != nil {
		n = n.WithMeasured(*c.Dimensions)
		if c.UpdateStyle != nil {
			n = n.WithStyle(*c.Dimensions)
		}
	}
	if c.Resizing != nil {
		n = n.WithResizing(*c.Resizing)
	}
	return n
}

// ApplyEdgeChanges applies a batch of edge changes with the same rules as
// ApplyNodeChanges.
func (d Document) ApplyEdgeChanges(changes []EdgeChange) (Document, ChangeResult) {
	var result ChangeResult

	var resets []entities.Edge
	hasReset := false
	for _, c := range changes {
		if c.Type == ChangeReset {
			hasReset = true
			if c.Item != nil {
				resets = append(resets, *c.Item)
			}
			result.Applied++
		}
	}
	if hasReset {
		return d.WithEdges(resets), result
	}

	byID := make(map[string][]EdgeChange, len(changes))
	next := make([]entities.Edge, 0, len(d.edges)+len(changes))
	for _, c := range changes {
		switch c.Type {
		case ChangeAdd:
			if c.Item == nil {
				result.Ignored = append(result.Ignored, c.Type)
				continue
			}
			next = append(next, *c.Item)
			result.Applied++
		case ChangeSelect, ChangeRemove:
			if d.indexOfEdge(c.ID) < 0 {
				result.Ignored = append(result.Ignored, c.Type+":"+c.ID)
				continue
			}
			byID[c.ID] = append(byID[c.ID], c)
			result.Applied++
		default:
			result.Ignored = append(result.Ignored, c.Type)
		}
	}

	for _, e := range d.edges {
		pending, ok := byID[e.ID]
		if !ok {
			next = append(next, e)
			continue
		}
		removed := false
		for _, c := range pending {
			switch c.Type {
			case ChangeSelect:
				if c.Selected != nil {
					e = e.WithSelected(*c.Selected)
				}
			case ChangeRemove:
				removed = true
			}
		}
		if !removed {
			next = append(next, e)
		}
	}

	return Document{projectName: d.projectName, nodes: cloneNodes(d.nodes), edges: next}, result
}

// Connect appends the edge for c. ok is false, and the document unchanged,
// when either endpoint is empty or the same handles are already joined.
// Endpoints are not checked against the node list.
func (d Document) Connect(c Connection) (Document, entities.Edge, bool) {
	if c.Source == "" || c.Target == "" {
		return d, entities.Edge{}, false
	}
	edge := entities.NewEdge(c.EdgeID(), c.Source, c.Target)
	edge.SourceHandle = c.SourceHandle
	edge.TargetHandle = c.TargetHandle
	if d.HasConnection(edge) {
		return d, entities.Edge{}, false
	}
	return d.AppendEdge(edge), edge, true
}
