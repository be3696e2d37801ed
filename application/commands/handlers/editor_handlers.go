package handlers

import (
	"context"
	"fmt"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	"github.com/coltranesx/Project-Area/application/editor"
	"go.uber.org/zap"
)

// Controllers resolves the controller owning a workspace.
type Controllers interface {
	Get(ctx context.Context, workspaceID string) *editor.Controller
}

// EditorHandlers executes editor commands against workspace controllers
type EditorHandlers struct {
	controllers Controllers
	logger      *zap.Logger
}

// NewEditorHandlers creates the editor command handlers
func NewEditorHandlers(controllers Controllers, logger *zap.Logger) *EditorHandlers {
	return &EditorHandlers{
		controllers: controllers,
		logger:      logger,
	}
}

// Register registers every editor command with b
func (h *EditorHandlers) Register(b *bus.CommandBus) error {
	routes := []struct {
		cmd     bus.Command
		handler bus.CommandHandlerFunc
	}{
		{commands.AddNodeCommand{}, h.addNode},
		{commands.DeleteSelectedCommand{}, h.deleteSelected},
		{commands.QuickSaveCommand{}, h.quickSave},
		{commands.SaveAsCommand{}, h.saveAs},
		{commands.OpenCommand{}, h.open},
		{commands.ResetCommand{}, h.reset},
		{commands.RenameProjectCommand{}, h.rename},
		{commands.EditTitleCommand{}, h.editTitle},
		{commands.EditLabelCommand{}, h.editLabel},
		{commands.CycleColorCommand{}, h.cycleColor},
		{commands.ApplyNodeChangesCommand{}, h.nodeChanges},
		{commands.ApplyEdgeChangesCommand{}, h.edgeChanges},
		{commands.ConnectCommand{}, h.connect},
	}
	for _, r := range routes {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *EditorHandlers) addNode(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.AddNodeCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	node, err := ctrl.AddNode(ctx)
	if err != nil {
		return nil, err
	}
	_, version := ctrl.Snapshot()
	return commands.AddNodeResult{Node: node, Version: version}, nil
}

func (h *EditorHandlers) deleteSelected(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.DeleteSelectedCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	removed, err := ctrl.DeleteSelected(ctx)
	if err != nil {
		return nil, err
	}
	_, version := ctrl.Snapshot()
	return commands.DeleteSelectedResult{Removed: removed, Version: version}, nil
}

func (h *EditorHandlers) quickSave(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.QuickSaveCommand)
	if err := h.controllers.Get(ctx, c.WorkspaceID).QuickSave(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func (h *EditorHandlers) saveAs(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.SaveAsCommand)
	result, err := h.controllers.Get(ctx, c.WorkspaceID).SaveAs(ctx, c.Prompter)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *EditorHandlers) open(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.OpenCommand)
	task, err := h.controllers.Get(ctx, c.WorkspaceID).Open(ctx, c.Handle)
	if err != nil {
		return nil, err
	}
	if !c.Wait {
		return task, nil
	}

	doc, err := task.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// The caller left; the import keeps running on its own.
			h.logger.Debug("Stopped waiting for import",
				zap.String("workspaceID", c.WorkspaceID),
				zap.String("taskID", task.ID),
			)
		}
		return nil, err
	}
	return doc, nil
}

func (h *EditorHandlers) reset(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.ResetCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	if err := ctrl.Reset(ctx, c.Prompter); err != nil {
		return nil, err
	}
	return snapshot(ctrl), nil
}

func (h *EditorHandlers) rename(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.RenameProjectCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	if err := ctrl.RenameProject(ctx, c.Name); err != nil {
		return nil, err
	}
	return snapshot(ctrl), nil
}

func (h *EditorHandlers) editTitle(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.EditTitleCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	if err := ctrl.EditTitle(ctx, c.NodeID, c.Text); err != nil {
		return nil, err
	}
	return snapshot(ctrl), nil
}

func (h *EditorHandlers) editLabel(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.EditLabelCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	if err := ctrl.EditLabel(ctx, c.NodeID, c.Text); err != nil {
		return nil, err
	}
	return snapshot(ctrl), nil
}

func (h *EditorHandlers) cycleColor(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.CycleColorCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	if err := ctrl.CycleColor(ctx, c.NodeID); err != nil {
		return nil, err
	}
	return snapshot(ctrl), nil
}

func (h *EditorHandlers) nodeChanges(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.ApplyNodeChangesCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	result, err := ctrl.ApplyNodeChanges(ctx, c.Changes)
	if err != nil {
		return nil, err
	}
	return changesResult(ctrl, result.Applied, result.Ignored), nil
}

func (h *EditorHandlers) edgeChanges(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.ApplyEdgeChangesCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	result, err := ctrl.ApplyEdgeChanges(ctx, c.Changes)
	if err != nil {
		return nil, err
	}
	return changesResult(ctrl, result.Applied, result.Ignored), nil
}

func (h *EditorHandlers) connect(ctx context.Context, cmd bus.Command) (any, error) {
	c := cmd.(commands.ConnectCommand)
	ctrl := h.controllers.Get(ctx, c.WorkspaceID)
	edge, created, err := ctrl.Connect(ctx, c.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect %s to %s: %w", c.Connection.Source, c.Connection.Target, err)
	}
	_, version := ctrl.Snapshot()
	return commands.ConnectResult{Edge: edge, Created: created, Version: version}, nil
}

func snapshot(ctrl *editor.Controller) commands.DocumentResult {
	doc, version := ctrl.Snapshot()
	return commands.DocumentResult{Document: doc, Version: version}
}

func changesResult(ctrl *editor.Controller, applied int, ignored []string) commands.ChangesResult {
	_, version := ctrl.Snapshot()
	return commands.ChangesResult{Applied: applied, Ignored: ignored, Version: version}
}
