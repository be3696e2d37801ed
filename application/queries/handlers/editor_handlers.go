package handlers

import (
	"context"
	"fmt"

	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/application/queries"
	"github.com/coltranesx/Project-Area/application/queries/bus"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
)

// Workspaces is the registry view needed by the query handlers.
type Workspaces interface {
	Get(ctx context.Context, workspaceID string) *editor.Controller
	Workspaces() []string
}

// EditorQueries answers read-only editor queries
type EditorQueries struct {
	workspaces Workspaces
}

// NewEditorQueries creates the editor query handlers
func NewEditorQueries(workspaces Workspaces) *EditorQueries {
	return &EditorQueries{workspaces: workspaces}
}

// Register registers every editor query with b
func (h *EditorQueries) Register(b *bus.QueryBus) error {
	if err := b.Register(queries.GetDocumentQuery{}, bus.QueryHandlerFunc(h.getDocument)); err != nil {
		return err
	}
	if err := b.Register(queries.GetNodeQuery{}, bus.QueryHandlerFunc(h.getNode)); err != nil {
		return err
	}
	return b.Register(queries.ListWorkspacesQuery{}, bus.QueryHandlerFunc(h.listWorkspaces))
}

func (h *EditorQueries) getDocument(ctx context.Context, query bus.Query) (any, error) {
	q := query.(queries.GetDocumentQuery)
	ctrl := h.workspaces.Get(ctx, q.WorkspaceID)
	doc, version := ctrl.Snapshot()

	view := queries.DocumentView{
		WorkspaceID:   ctrl.WorkspaceID(),
		Document:      doc,
		Version:       version,
		DanglingEdges: len(doc.DanglingEdges()),
	}
	if task := ctrl.Importing(); task != nil {
		view.Importing = &queries.ImportStatus{TaskID: task.ID, FileName: task.FileName}
	}
	return view, nil
}

func (h *EditorQueries) getNode(ctx context.Context, query bus.Query) (any, error) {
	q := query.(queries.GetNodeQuery)
	doc, version := h.workspaces.Get(ctx, q.WorkspaceID).Snapshot()
	node, ok := doc.Node(q.NodeID)
	if !ok {
		return nil, apperrors.NewNotFoundError("node").
			WithDetails(map[string]any{"nodeId": q.NodeID}).
			WithCause(fmt.Errorf("%w: %s", queries.ErrNodeNotFound, q.NodeID))
	}
	return queries.NodeView{Node: node, Version: version}, nil
}

func (h *EditorQueries) listWorkspaces(_ context.Context, _ bus.Query) (any, error) {
	return h.workspaces.Workspaces(), nil
}
