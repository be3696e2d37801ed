package aggregates

import (
	"encoding/json"
	"testing"

	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, selected bool) entities.Node {
	n := entities.NewNode(
		valueobjects.MustNodeID(id),
		valueobjects.NewPosition(0, 0),
		valueobjects.NewDimensions(200, 120),
		entities.NodeData{Title: id, Color: valueobjects.DefaultPalette.First()},
	)
	return n.WithSelected(selected)
}

func ids(nodes []entities.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID.String()
	}
	return out
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()

	assert.Equal(t, "Yeni Proje", doc.ProjectName())
	assert.Equal(t, []string{"1", "2"}, ids(doc.Nodes()))
	require.Equal(t, 1, doc.EdgeCount())
	e := doc.Edges()[0]
	assert.Equal(t, "e1-2", e.ID)
	assert.Equal(t, "1", e.Source)
	assert.Equal(t, "2", e.Target)
	assert.Empty(t, doc.DanglingEdges())
	assert.Equal(t, 2, doc.MaxNodeSuffix())

	first, ok := doc.Node("1")
	require.True(t, ok)
	assert.Equal(t, "Başlangıç Düğümü", first.Data.Title)
	assert.Equal(t, valueobjects.Color("#4A5F8A"), first.Data.Color)
	assert.Equal(t, valueobjects.NewPosition(50, 50), first.Position)

	assert.Equal(t, DefaultDocument(), DefaultDocument())
}

func TestDocumentRemoveNodes(t *testing.T) {
	doc := NewDocument("p", []entities.Node{node("A", true), node("B", false), node("C", true)}, nil)

	next, removed := doc.RemoveNodes(func(n entities.Node) bool { return n.Selected })

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"B"}, ids(next.Nodes()))
	assert.Equal(t, []string{"A", "B", "C"}, ids(doc.Nodes()))
	assert.Equal(t, []string{"A", "C"}, doc.SelectedNodeIDs())
}

func TestDocumentReplaceNode(t *testing.T) {
	doc := NewDocument("p", []entities.Node{node("A", false), node("B", false)}, nil)
	held := doc.Nodes()

	next, ok := doc.ReplaceNode("B", func(n entities.Node) entities.Node { return n.WithTitle("edited") })
	require.True(t, ok)

	b, _ := next.Node("B")
	assert.Equal(t, "edited", b.Data.Title)
	assert.Equal(t, []string{"A", "B"}, ids(next.Nodes()))

	old, _ := doc.Node("B")
	assert.Equal(t, "B", old.Data.Title)
	assert.Equal(t, "B", held[1].Data.Title)

	same, ok := doc.ReplaceNode("missing", func(n entities.Node) entities.Node { return n.WithTitle("x") })
	assert.False(t, ok)
	assert.Equal(t, doc, same)
}

func TestDocumentSlicesAreNotShared(t *testing.T) {
	nodes := []entities.Node{node("A", false)}
	doc := NewDocument("p", nodes, nil)
	nodes[0] = node("Z", false)

	assert.Equal(t, []string{"A"}, ids(doc.Nodes()))

	out := doc.Nodes()
	out[0] = node("Y", false)
	assert.Equal(t, []string{"A"}, ids(doc.Nodes()))

	appended := doc.AppendNode(node("B", false))
	assert.Equal(t, 1, doc.NodeCount())
	assert.Equal(t, 2, appended.NodeCount())
}

func TestDocumentRenameAllowsEmpty(t *testing.T) {
	doc := DefaultDocument().Rename("")
	assert.Equal(t, "", doc.ProjectName())
	assert.Equal(t, 2, doc.NodeCount())
}

func TestDocumentMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDocument("empty", nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"projectName":"empty","nodes":[],"edges":[]}`, string(data))

	data, err = json.Marshal(Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"projectName":"","nodes":[],"edges":[]}`, string(data))
}

func TestDocumentEdges(t *testing.T) {
	doc := NewDocument("p", []entities.Node{node("1", false)}, []entities.Edge{
		entities.NewEdge("a", "1", "2"),
		entities.NewEdge("b", "1", "1"),
	})

	assert.Len(t, doc.DanglingEdges(), 1)

	next, removed := doc.RemoveEdges(func(e entities.Edge) bool { return e.Target == "2" })
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, next.EdgeCount())

	sel, ok := doc.ReplaceEdge("b", func(e entities.Edge) entities.Edge { return e.WithSelected(true) })
	require.True(t, ok)
	assert.True(t, sel.Edges()[1].Selected)
	assert.False(t, doc.Edges()[1].Selected)

	_, ok = doc.ReplaceEdge("zzz", func(e entities.Edge) entities.Edge { return e })
	assert.False(t, ok)

	assert.Equal(t, 3, doc.AppendEdge(entities.NewEdge("c", "2", "1")).EdgeCount())
	assert.Equal(t, 0, doc.WithEdges(nil).EdgeCount())
	assert.Equal(t, 0, doc.WithNodes(nil).NodeCount())
}

func TestMaxNodeSuffix(t *testing.T) {
	doc := NewDocument("p", []entities.Node{node("node_9", false), node("4", false), node("alpha", false)}, nil)
	assert.Equal(t, 9, doc.MaxNodeSuffix())
	assert.Equal(t, 0, NewDocument("p", nil, nil).MaxNodeSuffix())
}
