package aggregates

import (
	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
)

// DefaultProjectName is the name of the seed document.
const DefaultProjectName = "Yeni Proje"

// DefaultDocument returns the hardcoded seed used on first launch, after reset,
// and whenever cached data cannot be trusted.
func DefaultDocument() Document {
	size := valueobjects.NewDimensions(200, 120)
	nodes := []entities.Node{
		entities.NewNode(
			valueobjects.MustNodeID("1"),
			valueobjects.NewPosition(50, 50),
			size,
			entities.NodeData{Title: "Başlangıç Düğümü", Label: "Oyunun başlangıç noktası", Color: "#4A5F8A"},
		),
		entities.NewNode(
			valueobjects.MustNodeID("2"),
			valueobjects.NewPosition(350, 150),
			size,
			entities.NodeData{Title: "İkinci Düğüm", Label: "Karakter seçimi", Color: "#427A6C"},
		),
	}
	edges := []entities.Edge{entities.NewEdge("e1-2", "1", "2")}
	return NewDocument(DefaultProjectName, nodes, edges)
}
