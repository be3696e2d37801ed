package editor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/application/services"
	"github.com/coltranesx/Project-Area/domain/config"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
	"github.com/coltranesx/Project-Area/domain/events"
	domainservices "github.com/coltranesx/Project-Area/domain/services"
	"go.uber.org/zap"
)

// Notice codes sent by the controller.
const (
	NoticeProjectSaved    = "PROJECT_SAVED"
	NoticeImportSucceeded = "IMPORT_SUCCEEDED"
)

// ResetPrompt is the question asked before a reset.
const ResetPrompt = "Are you sure? The current work will be discarded and the default project restored."

// LocalStore is the local-storage channel of one workspace.
type LocalStore interface {
	LoadOrDefault(ctx context.Context) aggregates.Document
	Save(ctx context.Context, doc aggregates.Document) error
	Clear(ctx context.Context) error
}

// FileGateway is the file channel of one workspace.
type FileGateway interface {
	Export(ctx context.Context, doc aggregates.Document, suggestedName string, prompter ports.Prompter) (services.ExportResult, error)
	Import(ctx context.Context, handle ports.FileHandle) (aggregates.Document, error)
}

// SettingsSource supplies the current editor settings.
type SettingsSource interface {
	Current() config.EditorSettings
}

// Dependencies are the collaborators of a Controller. Rand and Clock may be
// left nil.
type Dependencies struct {
	Local     LocalStore
	Files     FileGateway
	Settings  SettingsSource
	Notifier  ports.Notifier
	Publisher ports.EventPublisher
	Metrics   ports.Metrics
	Logger    *zap.Logger

	// Rand returns a value in [0, 1) used to place new nodes.
	Rand func() float64
	// Clock stamps domain events.
	Clock func() time.Time
}

// Controller owns the live document of one workspace. Commands are
// serialized by a mutex; readers get immutable snapshots.
type Controller struct {
	workspaceID string
	deps        Dependencies
	ids         *domainservices.IDAllocator
	logger      *zap.Logger

	mu        sync.Mutex
	doc       aggregates.Document
	version   int
	importing *ImportTask
	listeners []listenerEntry
	nextID    int
}

// NewController loads the workspace document from the local channel and
// seeds the id allocator from it.
func NewController(ctx context.Context, workspaceID string, deps Dependencies) *Controller {
	if deps.Rand == nil {
		deps.Rand = rand.Float64
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	c := &Controller{
		workspaceID: workspaceID,
		deps:        deps,
		ids:         domainservices.NewIDAllocator(),
		logger:      deps.Logger.With(zap.String("workspaceID", workspaceID)),
	}
	c.doc = deps.Local.LoadOrDefault(ctx)
	c.ids.Reseed(c.doc)
	return c
}

// WorkspaceID returns the workspace this controller serves
func (c *Controller) WorkspaceID() string {
	return c.workspaceID
}

// Snapshot returns the current document and its version
func (c *Controller) Snapshot() (aggregates.Document, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc, c.version
}

// Importing returns the pending import, or nil
func (c *Controller) Importing() *ImportTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.importing
}

// Subscribe registers fn for every later change and returns a function
// that removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// AddNode appends a node with a fresh id, the default content and a random
// position inside the spawn area.
func (c *Controller) AddNode(ctx context.Context) (node entities.Node, err error) {
	defer c.observe("add_node", time.Now(), &err)

	s := c.deps.Settings.Current()
	err = c.mutate(ctx, ReasonNodeAdded, func(doc aggregates.Document) (aggregates.Document, bool) {
		node = entities.NewNode(
			c.ids.Next(),
			valueobjects.NewPosition(c.deps.Rand()*s.SpawnWidth, c.deps.Rand()*s.SpawnHeight),
			s.NodeSize(),
			entities.NodeData{Title: s.DefaultTitle, Label: s.DefaultLabel, Color: s.DefaultColor},
		)
		return doc.AppendNode(node), true
	}, func(version int) events.DomainEvent {
		return events.NewNodeAdded(c.workspaceID, version, node.ID.String(), c.deps.Clock())
	})
	return node, err
}

// DeleteSelected removes every selected node and returns how many went.
// Edges are left in place.
func (c *Controller) DeleteSelected(ctx context.Context) (removed int, err error) {
	defer c.observe("delete_selected", time.Now(), &err)

	var ids []string
	err = c.mutate(ctx, ReasonNodesDeleted, func(doc aggregates.Document) (aggregates.Document, bool) {
		ids = doc.SelectedNodeIDs()
		var next aggregates.Document
		next, removed = doc.RemoveNodes(func(n entities.Node) bool { return n.Selected })
		return next, removed > 0
	}, func(version int) events.DomainEvent {
		return events.NewNodesDeleted(c.workspaceID, version, ids, c.deps.Clock())
	})
	return removed, err
}

// QuickSave writes the current document to the local-storage channel.
// Failures are returned to the caller but never shown as a notice.
func (c *Controller) QuickSave(ctx context.Context) (err error) {
	defer c.observe("quick_save", time.Now(), &err)

	doc, version := c.Snapshot()
	if err = c.deps.Local.Save(ctx, doc); err != nil {
		c.logger.Error("Quick save failed", zap.Error(err))
		return err
	}
	c.deps.Notifier.Notify(ctx, ports.Notice{
		WorkspaceID: c.workspaceID,
		Level:       ports.NoticeInfo,
		Message:     "Project saved to cache!",
		Code:        NoticeProjectSaved,
	})
	c.publish(ctx, events.NewDocumentSaved(c.workspaceID, version, doc.NodeCount(), doc.EdgeCount(), c.deps.Clock()))
	return nil
}

// SaveAs exports the current document to a user-named file. The project
// name is offered as the default file name.
func (c *Controller) SaveAs(ctx context.Context, prompter ports.Prompter) (result services.ExportResult, err error) {
	defer c.observe("save_as", time.Now(), &err)

	doc, version := c.Snapshot()
	result, err = c.deps.Files.Export(ctx, doc, doc.ProjectName(), prompter)
	if err != nil {
		return services.ExportResult{}, err
	}
	c.publish(ctx, events.NewDocumentExported(c.workspaceID, version, result.FileName, len(result.Data), c.deps.Clock()))
	return result, nil
}

// Open starts importing handle in the background. On success the whole
// document is replaced and the id allocator reseeded; on failure the user
// is notified and nothing changes. A nil handle means the picker was
// dismissed.
func (c *Controller) Open(ctx context.Context, handle ports.FileHandle) (task *ImportTask, err error) {
	if handle == nil {
		err = services.ErrImportCancelled
		c.observe("open", time.Now(), &err)
		return nil, err
	}

	c.mu.Lock()
	if c.importing != nil {
		c.mu.Unlock()
		err = ErrImportInFlight
		c.observe("open", time.Now(), &err)
		return nil, err
	}
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task = newImportTask(handle.Name(), cancel)
	c.importing = task
	c.mu.Unlock()

	c.logger.Info("Import started", zap.String("taskID", task.ID), zap.String("file", handle.Name()))
	go c.runImport(taskCtx, task, handle)
	return task, nil
}

func (c *Controller) runImport(ctx context.Context, task *ImportTask, handle ports.FileHandle) {
	start := time.Now()
	doc, err := c.deps.Files.Import(ctx, handle)

	c.mu.Lock()
	c.importing = nil
	if err == nil && ctx.Err() != nil {
		err = services.ErrImportCancelled
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Info("Import finished without changes", zap.String("taskID", task.ID), zap.Error(err))
		c.deps.Metrics.RecordImport(outcome(err))
		c.observe("open", start, &err)
		task.finish(aggregates.Document{}, err)
		return
	}

	c.doc = doc
	c.ids.Reseed(doc)
	change, listeners := c.commitLocked(ReasonImported)
	c.mu.Unlock()

	c.logger.Info("Import applied",
		zap.String("taskID", task.ID),
		zap.Int("nodes", doc.NodeCount()),
		zap.Int("edges", doc.EdgeCount()),
	)
	c.deps.Metrics.RecordImport(outcome(nil))
	c.observe("open", start, &err)
	c.dispatch(change, listeners)

	ctx = context.WithoutCancel(ctx)
	c.deps.Notifier.Notify(ctx, ports.Notice{
		WorkspaceID: c.workspaceID,
		Level:       ports.NoticeInfo,
		Message:     "Project loaded successfully!",
		Code:        NoticeImportSucceeded,
	})
	c.publish(ctx, events.NewDocumentImported(c.workspaceID, change.Version, task.FileName, doc.NodeCount(), c.deps.Clock()))
	task.finish(doc, nil)
}

// Reset asks for confirmation, clears the local-storage channel and restores
// the seed document.
func (c *Controller) Reset(ctx context.Context, prompter ports.Prompter) (err error) {
	defer c.observe("reset", time.Now(), &err)

	ok, err := prompter.Confirm(ctx, ResetPrompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetCancelled
	}

	c.mu.Lock()
	if c.importing != nil {
		c.mu.Unlock()
		return ErrImportInFlight
	}
	if err = c.deps.Local.Clear(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.doc = aggregates.DefaultDocument()
	c.ids.Reseed(c.doc)
	change, listeners := c.commitLocked(ReasonReset)
	c.mu.Unlock()

	c.dispatch(change, listeners)
	c.publish(ctx, events.NewDocumentReset(c.workspaceID, change.Version, c.deps.Clock()))
	return nil
}

// RenameProject sets the project name. Any string is accepted, including
// the empty one.
func (c *Controller) RenameProject(ctx context.Context, name string) (err error) {
	defer c.observe("rename_project", time.Now(), &err)

	var old string
	err = c.mutate(ctx, ReasonRenamed, func(doc aggregates.Document) (aggregates.Document, bool) {
		old = doc.ProjectName()
		return doc.Rename(name), true
	}, func(version int) events.DomainEvent {
		return events.NewProjectRenamed(c.workspaceID, version, old, name, c.deps.Clock())
	})
	return err
}

// EditTitle replaces one node's title. Unknown ids are ignored.
func (c *Controller) EditTitle(ctx context.Context, id, text string) error {
	return c.editNode(ctx, "edit_title", ReasonNodeEdited, id, func(n entities.Node) entities.Node {
		return n.WithTitle(text)
	})
}

// EditLabel replaces one node's label. Unknown ids are ignored.
func (c *Controller) EditLabel(ctx context.Context, id, text string) error {
	return c.editNode(ctx, "edit_label", ReasonNodeEdited, id, func(n entities.Node) entities.Node {
		return n.WithLabel(text)
	})
}

// CycleColor moves one node to the next palette color. Unknown ids are ignored.
func (c *Controller) CycleColor(ctx context.Context, id string) error {
	palette := c.deps.Settings.Current().Palette
	return c.editNode(ctx, "cycle_color", ReasonNodeColorChanged, id, func(n entities.Node) entities.Node {
		return n.CycleColor(palette)
	})
}

func (c *Controller) editNode(ctx context.Context, command string, reason Reason, id string, update func(entities.Node) entities.Node) (err error) {
	defer c.observe(command, time.Now(), &err)

	err = c.mutate(ctx, reason, func(doc aggregates.Document) (aggregates.Document, bool) {
		return doc.ReplaceNode(id, update)
	}, nil)
	return err
}

// ApplyNodeChanges applies a batch of node changes from the rendering surface.
func (c *Controller) ApplyNodeChanges(ctx context.Context, changes []aggregates.NodeChange) (result aggregates.ChangeResult, err error) {
	defer c.observe("apply_node_changes", time.Now(), &err)

	err = c.mutate(ctx, ReasonNodesChanged, func(doc aggregates.Document) (aggregates.Document, bool) {
		var next aggregates.Document
		next, result = doc.ApplyNodeChanges(changes)
		return next, result.Applied > 0
	}, nil)
	if len(result.Ignored) > 0 {
		c.logger.Debug("Ignored node changes", zap.Strings("changes", result.Ignored))
	}
	return result, err
}

// ApplyEdgeChanges applies a batch of edge changes from the rendering surface.
func (c *Controller) ApplyEdgeChanges(ctx context.Context, changes []aggregates.EdgeChange) (result aggregates.ChangeResult, err error) {
	defer c.observe("apply_edge_changes", time.Now(), &err)

	err = c.mutate(ctx, ReasonEdgesChanged, func(doc aggregates.Document) (aggregates.Document, bool) {
		var next aggregates.Document
		next, result = doc.ApplyEdgeChanges(changes)
		return next, result.Applied > 0
	}, nil)
	if len(result.Ignored) > 0 {
		c.logger.Debug("Ignored edge changes", zap.Strings("changes", result.Ignored))
	}
	return result, err
}

// Connect adds the edge for a user-drawn connection. ok is false when the
// connection already exists or lacks an endpoint.
func (c *Controller) Connect(ctx context.Context, conn aggregates.Connection) (edge entities.Edge, ok bool, err error) {
	defer c.observe("connect", time.Now(), &err)

	err = c.mutate(ctx, ReasonConnected, func(doc aggregates.Document) (aggregates.Document, bool) {
		var next aggregates.Document
		next, edge, ok = doc.Connect(conn)
		return next, ok
	}, nil)
	return edge, ok, err
}

// mutate applies fn under the lock. Listeners run and the event is
// published only when fn reports a change.
func (c *Controller) mutate(ctx context.Context, reason Reason, fn func(aggregates.Document) (aggregates.Document, bool), event func(version int) events.DomainEvent) error {
	c.mu.Lock()
	if c.importing != nil {
		c.mu.Unlock()
		return ErrImportInFlight
	}
	next, changed := fn(c.doc)
	if !changed {
		c.mu.Unlock()
		return nil
	}
	c.doc = next
	change, listeners := c.commitLocked(reason)
	c.mu.Unlock()

	c.dispatch(change, listeners)
	if event != nil {
		c.publish(ctx, event(change.Version))
	}
	return nil
}

// commitLocked bumps the version and captures what dispatch needs.
// c.mu must be held.
func (c *Controller) commitLocked(reason Reason) (Change, []listenerEntry) {
	c.version++
	change := Change{
		WorkspaceID: c.workspaceID,
		Reason:      reason,
		Document:    c.doc,
		Version:     c.version,
	}
	return change, append([]listenerEntry(nil), c.listeners...)
}

func (c *Controller) dispatch(change Change, listeners []listenerEntry) {
	for _, l := range listeners {
		l.fn(change)
	}
}

func (c *Controller) publish(ctx context.Context, event events.DomainEvent) {
	if c.deps.Publisher == nil {
		return
	}
	if err := c.deps.Publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish event", zap.String("eventType", event.GetEventType()), zap.Error(err))
	}
}

func (c *Controller) observe(command string, start time.Time, err *error) {
	c.deps.Metrics.RecordCommand(command, outcome(*err), time.Since(start))
}
