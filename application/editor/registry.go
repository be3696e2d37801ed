package editor

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/application/services"
	"github.com/coltranesx/Project-Area/domain/config"
	"go.uber.org/zap"
)

// DefaultWorkspace is used when a request names no workspace.
const DefaultWorkspace = "default"

// WorkspaceListener receives changes from every workspace.
type WorkspaceListener func(Change)

// Registry maps workspace ids to lazily created controllers. A workspace
// plays the part of one browser's storage origin.
type Registry struct {
	store     ports.KeyValueStore
	files     ports.FileStore
	notifier  ports.Notifier
	publisher ports.EventPublisher
	metrics   ports.Metrics
	logger    *zap.Logger

	settings atomic.Pointer[config.EditorSettings]

	mu          sync.RWMutex
	controllers map[string]*Controller
	listeners   []WorkspaceListener
}

// NewRegistry creates a registry over the shared stores
func NewRegistry(
	store ports.KeyValueStore,
	files ports.FileStore,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	settings config.EditorSettings,
	logger *zap.Logger,
) *Registry {
	r := &Registry{
		store:       store,
		files:       files,
		notifier:    notifier,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
	r.settings.Store(&settings)
	return r
}

// Current returns the editor settings used for new nodes
func (r *Registry) Current() config.EditorSettings {
	return *r.settings.Load()
}

// UpdateSettings replaces the editor settings. Nodes created afterwards use
// the new defaults; existing nodes are untouched.
func (r *Registry) UpdateSettings(s config.EditorSettings) {
	r.settings.Store(&s)
	r.logger.Info("Editor settings updated",
		zap.String("defaultTitle", s.DefaultTitle),
		zap.String("defaultColor", s.DefaultColor.String()),
	)
}

// Get returns the controller of workspaceID, loading it from the local
// channel on first use.
func (r *Registry) Get(ctx context.Context, workspaceID string) *Controller {
	if workspaceID == "" {
		workspaceID = DefaultWorkspace
	}

	r.mu.RLock()
	c, ok := r.controllers[workspaceID]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[workspaceID]; ok {
		return c
	}

	c = NewController(ctx, workspaceID, Dependencies{
		Local:     services.NewLocalChannel(r.store, workspaceID, r.metrics, r.logger),
		Files:     services.NewFileChannel(r.files, r.notifier, workspaceID, r.logger),
		Settings:  r,
		Notifier:  r.notifier,
		Publisher: r.publisher,
		Metrics:   r.metrics,
		Logger:    r.logger,
	})
	for _, l := range r.listeners {
		c.Subscribe(Listener(l))
	}
	r.controllers[workspaceID] = c
	r.logger.Debug("Workspace opened", zap.String("workspaceID", workspaceID))
	return c
}

// SubscribeAll registers l on every current and future controller.
func (r *Registry) SubscribeAll(l WorkspaceListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
	for _, c := range r.controllers {
		c.Subscribe(Listener(l))
	}
}

// Workspaces lists the ids of the loaded workspaces, sorted
func (r *Registry) Workspaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close cancels pending imports and closes the key-value store
func (r *Registry) Close() error {
	r.mu.RLock()
	for _, c := range r.controllers {
		if task := c.Importing(); task != nil {
			task.Cancel()
		}
	}
	r.mu.RUnlock()
	return r.store.Close()
}
