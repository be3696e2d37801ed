package aggregates

import (
	"testing"

	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func assertExtra(t *testing.T, n entities.Node, key, want string) {
	t.Helper()
	got, ok := n.Extra(key)
	require.True(t, ok, "node %s has no %s", n.ID, key)
	assert.Equal(t, want, string(got))
}

func TestApplyNodeChanges(t *testing.T) {
	base := NewDocument("p", []entities.Node{node("A", false), node("B", false), node("C", false)}, nil)
	moved := valueobjects.NewPosition(30, 40)
	resized := valueobjects.NewDimensions(300, 90)
	added := node("D", false)

	tests := []struct {
		name        string
		changes     []NodeChange
		wantIDs     []string
		wantIgnored int
		check       func(t *testing.T, doc Document)
	}{
		{
			name:    "position",
			changes: []NodeChange{{Type: ChangePosition, ID: "B", Position: &moved, PositionAbsolute: &moved, Dragging: boolPtr(true)}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				b, _ := doc.Node("B")
				assert.Equal(t, moved, b.Position)
				assertExtra(t, b, "positionAbsolute", `{"x":30,"y":40}`)
				assertExtra(t, b, "dragging", `true`)
			},
		},
		{
			name:    "position without coordinates keeps the node",
			changes: []NodeChange{{Type: ChangePosition, ID: "A", Dragging: boolPtr(false)}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				a, _ := doc.Node("A")
				assert.Equal(t, valueobjects.Position{}, a.Position)
			},
		},
		{
			name:    "dimensions are measured without touching the style",
			changes: []NodeChange{{Type: ChangeDimensions, ID: "C", Dimensions: &resized}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				c, _ := doc.Node("C")
				assert.Equal(t, node("C", false).Style, c.Style)
				assertExtra(t, c, "width", `300`)
				assertExtra(t, c, "height", `90`)
				_, ok := c.Extra("resizing")
				assert.False(t, ok)
			},
		},
		{
			name:    "dimensions with updateStyle write the style",
			changes: []NodeChange{{Type: ChangeDimensions, ID: "C", Dimensions: &resized, UpdateStyle: boolPtr(false), Resizing: boolPtr(true)}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				c, _ := doc.Node("C")
				assert.Equal(t, resized, c.Style)
				assertExtra(t, c, "width", `300`)
				assertExtra(t, c, "resizing", `true`)
			},
		},
		{
			name:    "resizing ends without dimensions",
			changes: []NodeChange{{Type: ChangeDimensions, ID: "A", Resizing: boolPtr(false), UpdateStyle: boolPtr(true)}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				a, _ := doc.Node("A")
				assert.Equal(t, node("A", false).Style, a.Style)
				assertExtra(t, a, "resizing", `false`)
				_, ok := a.Extra("width")
				assert.False(t, ok)
			},
		},
		{
			name:    "select",
			changes: []NodeChange{{Type: ChangeSelect, ID: "A", Selected: boolPtr(true)}},
			wantIDs: []string{"A", "B", "C"},
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, []string{"A"}, doc.SelectedNodeIDs())
			},
		},
		{
			name:    "remove",
			changes: []NodeChange{{Type: ChangeRemove, ID: "B"}},
			wantIDs: []string{"A", "C"},
		},
		{
			name:    "add goes first",
			changes: []NodeChange{{Type: ChangeAdd, Item: &added}},
			wantIDs: []string{"D", "A", "B", "C"},
		},
		{
			name: "reset replaces everything",
			changes: []NodeChange{
				{Type: ChangeRemove, ID: "A"},
				{Type: ChangeReset, Item: &added},
			},
			wantIDs: []string{"D"},
		},
		{
			name: "unknown id and type are ignored",
			changes: []NodeChange{
				{Type: ChangeRemove, ID: "missing"},
				{Type: "teleport", ID: "A"},
				{Type: ChangeAdd},
			},
			wantIDs:     []string{"A", "B", "C"},
			wantIgnored: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, result := base.ApplyNodeChanges(tt.changes)

			assert.Equal(t, tt.wantIDs, ids(doc.Nodes()))
			assert.Len(t, result.Ignored, tt.wantIgnored)
			assert.Equal(t, []string{"A", "B", "C"}, ids(base.Nodes()))
			if tt.check != nil {
				tt.check(t, doc)
			}
		})
	}
}

func TestApplyEdgeChanges(t *testing.T) {
	base := NewDocument("p", nil, []entities.Edge{
		entities.NewEdge("e1", "1", "2"),
		entities.NewEdge("e2", "2", "3"),
	})
	extra := entities.NewEdge("e3", "3", "1")

	edgeIDs := func(doc Document) []string {
		var out []string
		for _, e := range doc.Edges() {
			out = append(out, e.ID)
		}
		return out
	}

	doc, _ := base.ApplyEdgeChanges([]EdgeChange{{Type: ChangeSelect, ID: "e2", Selected: boolPtr(true)}})
	assert.True(t, doc.Edges()[1].Selected)

	doc, _ = base.ApplyEdgeChanges([]EdgeChange{{Type: ChangeRemove, ID: "e1"}})
	assert.Equal(t, []string{"e2"}, edgeIDs(doc))

	doc, _ = base.ApplyEdgeChanges([]EdgeChange{{Type: ChangeAdd, Item: &extra}})
	assert.Equal(t, []string{"e3", "e1", "e2"}, edgeIDs(doc))

	doc, _ = base.ApplyEdgeChanges([]EdgeChange{{Type: ChangeReset, Item: &extra}})
	assert.Equal(t, []string{"e3"}, edgeIDs(doc))

	doc, result := base.ApplyEdgeChanges([]EdgeChange{{Type: ChangeRemove, ID: "nope"}, {Type: ChangePosition, ID: "e1"}})
	assert.Equal(t, []string{"e1", "e2"}, edgeIDs(doc))
	assert.Len(t, result.Ignored, 2)
	assert.Equal(t, 0, result.Applied)
}

func TestConnect(t *testing.T) {
	base := DefaultDocument()

	doc, edge, ok := base.Connect(Connection{Source: "2", Target: "1"})
	require.True(t, ok)
	assert.Equal(t, "reactflow__edge-2-1", edge.ID)
	assert.Equal(t, 2, doc.EdgeCount())
	assert.Equal(t, 1, base.EdgeCount())

	_, _, ok = doc.Connect(Connection{Source: "2", Target: "1"})
	assert.False(t, ok, "same connection twice")

	_, _, ok = base.Connect(Connection{Source: "1", Target: "2"})
	assert.False(t, ok, "seed edge already joins 1 and 2")

	doc, edge, ok = base.Connect(Connection{Source: "1", Target: "2", SourceHandle: "a", TargetHandle: "b"})
	require.True(t, ok)
	assert.Equal(t, "reactflow__edge-1a-2b", edge.ID)
	assert.Equal(t, "a", doc.Edges()[1].SourceHandle)

	_, _, ok = base.Connect(Connection{Source: "", Target: "1"})
	assert.False(t, ok)
}
