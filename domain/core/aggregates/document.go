package aggregates

import (
	"encoding/json"
	"slices"

	"github.com/coltranesx/Project-Area/domain/core/entities"
)

// Document is the persisted unit of the editor: a project name plus the
// ordered node and edge lists.
//
// Document is immutable. Every operation returns a new Document whose slices
// share nothing with the receiver, so snapshots handed to subscribers never
// change under them.
type Document struct {
	projectName string
	nodes       []entities.Node
	edges       []entities.Edge
}

// NewDocument creates a document from copies of nodes and edges.
func NewDocument(projectName string, nodes []entities.Node, edges []entities.Edge) Document {
	return Document{
		projectName: projectName,
		nodes:       cloneNodes(nodes),
		edges:       cloneEdges(edges),
	}
}

// ProjectName returns the display name
func (d Document) ProjectName() string {
	return d.projectName
}

// Nodes returns a copy of the node list in render order
func (d Document) Nodes() []entities.Node {
	return cloneNodes(d.nodes)
}

// Edges returns a copy of the edge list
func (d Document) Edges() []entities.Edge {
	return cloneEdges(d.edges)
}

// NodeCount returns the number of nodes
func (d Document) NodeCount() int {
	return len(d.nodes)
}

// EdgeCount returns the number of edges
func (d Document) EdgeCount() int {
	return len(d.edges)
}

// Node looks a node up by id.
func (d Document) Node(id string) (entities.Node, bool) {
	if i := d.indexOfNode(id); i >= 0 {
		return d.nodes[i], true
	}
	return entities.Node{}, false
}

// HasNode reports whether a node with id exists.
func (d Document) HasNode(id string) bool {
	return d.indexOfNode(id) >= 0
}

// SelectedNodeIDs returns the ids of nodes flagged selected, in order.
func (d Document) SelectedNodeIDs() []string {
	var ids []string
	for _, n := range d.nodes {
		if n.Selected {
			ids = append(ids, n.ID.String())
		}
	}
	return ids
}

// MaxNodeSuffix returns the largest numeric id suffix, or 0.
func (d Document) MaxNodeSuffix() int {
	maxSuffix := 0
	for _, n := range d.nodes {
		if s, ok := n.ID.Suffix(); ok && s > maxSuffix {
			maxSuffix = s
		}
	}
	return maxSuffix
}

// DanglingEdges returns edges whose source or target is not a node.
// Dangling edges are legal; this is for diagnostics.
func (d Document) DanglingEdges() []entities.Edge {
	var dangling []entities.Edge
	for _, e := range d.edges {
		if !d.HasNode(e.Source) || !d.HasNode(e.Target) {
			dangling = append(dangling, e)
		}
	}
	return dangling
}

// Rename returns a copy with a new project name. Empty names are allowed.
func (d Document) Rename(name string) Document {
	return Document{projectName: name, nodes: d.nodes, edges: d.edges}.detach()
}

// AppendNode returns a copy with node added last.
func (d Document) AppendNode(node entities.Node) Document {
	out := d.detach()
	out.nodes = append(out.nodes, node)
	return out
}

// RemoveNodes returns a copy without the nodes matching remove, and how many
// were dropped. Edges are left alone.
func (d Document) RemoveNodes(remove func(entities.Node) bool) (Document, int) {
	out := d.detach()
	before := len(out.nodes)
	out.nodes = slices.DeleteFunc(out.nodes, remove)
	return out, before - len(out.nodes)
}

// ReplaceNode returns a copy where the node with id is replaced by
// update(node) at the same index. ok is false when id is unknown.
func (d Document) ReplaceNode(id string, update func(entities.Node) entities.Node) (Document, bool) {
	i := d.indexOfNode(id)
	if i < 0 {
		return d, false
	}
	out := d.detach()
	out.nodes[i] = update(out.nodes[i])
	return out, true
}

// WithNodes returns a copy with the node list replaced.
func (d Document) WithNodes(nodes []entities.Node) Document {
	return NewDocument(d.projectName, nodes, d.edges)
}

// AppendEdge returns a copy with edge added last.
func (d Document) AppendEdge(edge entities.Edge) Document {
	out := d.detach()
	out.edges = append(out.edges, edge)
	return out
}

// RemoveEdges returns a copy without the edges matching remove.
func (d Document) RemoveEdges(remove func(entities.Edge) bool) (Document, int) {
	out := d.detach()
	before := len(out.edges)
	out.edges = slices.DeleteFunc(out.edges, remove)
	return out, before - len(out.edges)
}

// ReplaceEdge returns a copy where the edge with id is replaced by update(edge).
func (d Document) ReplaceEdge(id string, update func(entities.Edge) entities.Edge) (Document, bool) {
	i := d.indexOfEdge(id)
	if i < 0 {
		return d, false
	}
	out := d.detach()
	out.edges[i] = update(out.edges[i])
	return out, true
}

// WithEdges returns a copy with the edge list replaced.
func (d Document) WithEdges(edges []entities.Edge) Document {
	return NewDocument(d.projectName, d.nodes, edges)
}

// HasConnection reports whether an edge joining the same handles exists.
func (d Document) HasConnection(edge entities.Edge) bool {
	return slices.ContainsFunc(d.edges, edge.SameConnection)
}

// document is the wire shape shared by local storage and exported files.
type document struct {
	ProjectName string          `json:"projectName"`
	Nodes       []entities.Node `json:"nodes"`
	Edges       []entities.Edge `json:"edges"`
}

// MarshalJSON implements json.Marshaler. Lists are always arrays, never null.
func (d Document) MarshalJSON() ([]byte, error) {
	out := d.detach()
	return json.Marshal(document{
		ProjectName: out.projectName,
		Nodes:       out.nodes,
		Edges:       out.edges,
	})
}

func (d Document) indexOfNode(id string) int {
	return slices.IndexFunc(d.nodes, func(n entities.Node) bool {
		return n.ID.String() == id
	})
}

func (d Document) indexOfEdge(id string) int {
	return slices.IndexFunc(d.edges, func(e entities.Edge) bool {
		return e.ID == id
	})
}

// detach returns a copy with freshly allocated slices.
func (d Document) detach() Document {
	return Document{
		projectName: d.projectName,
		nodes:       cloneNodes(d.nodes),
		edges:       cloneEdges(d.edges),
	}
}

func cloneNodes(nodes []entities.Node) []entities.Node {
	out := make([]entities.Node, len(nodes))
	copy(out, nodes)
	return out
}

func cloneEdges(edges []entities.Edge) []entities.Edge {
	out := make([]entities.Edge, len(edges))
	copy(out, edges)
	return out
}
