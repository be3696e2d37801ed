package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/coltranesx/Project-Area/application/queries"
	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/charmbracelet/lipgloss"
)

const boxWidth = 28

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// renderNode draws a node as a box bordered in its color
func renderNode(n entities.Node) string {
	color := lipgloss.Color(n.Data.Color.String())
	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(n.Data.Title)
	meta := dimStyle.Render(fmt.Sprintf("#%s  (%.0f, %.0f)", n.ID, n.Position.X, n.Position.Y))
	if n.Selected {
		meta += " *"
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(boxWidth).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, n.Data.Label, meta))
}

// renderDocument writes the project name, the nodes in rows and the edges
func renderDocument(w io.Writer, view queries.DocumentView, perRow int) {
	doc := view.Document
	fmt.Fprintln(w, headerStyle.Render(doc.ProjectName()))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("workspace %s, %d nodes, %d edges", view.WorkspaceID, doc.NodeCount(), doc.EdgeCount())))

	nodes := doc.Nodes()
	for start := 0; start < len(nodes); start += perRow {
		end := min(start+perRow, len(nodes))
		boxes := make([]string, 0, end-start)
		for _, n := range nodes[start:end] {
			boxes = append(boxes, renderNode(n))
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}

	if len(doc.Edges()) > 0 {
		lines := make([]string, 0, len(doc.Edges()))
		for _, e := range doc.Edges() {
			lines = append(lines, fmt.Sprintf("  %s → %s  %s", e.Source, e.Target, dimStyle.Render(e.ID)))
		}
		fmt.Fprintln(w, strings.Join(lines, "\n"))
	}
	if view.DanglingEdges > 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d edges point at missing nodes", view.DanglingEdges)))
	}
}
