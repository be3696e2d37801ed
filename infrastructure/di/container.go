package di

import (
	"context"
	"errors"
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands/bus"
	cmdhandlers "github.com/coltranesx/Project-Area/application/commands/handlers"
	"github.com/coltranesx/Project-Area/application/editor"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	"github.com/coltranesx/Project-Area/infrastructure/config"
	"github.com/coltranesx/Project-Area/interfaces/websocket"
	"github.com/coltranesx/Project-Area/pkg/observability"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Registry       *editor.Registry
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	EditorHandlers *cmdhandlers.EditorHandlers
	Hub            *websocket.Hub
	Collector      *observability.Collector
	CloudWatch     *observability.CloudWatchSink
	Tracer         *observability.Tracer
	Watcher        *config.SettingsWatcher
	HTTPHandler    http.Handler
}

// FlushMetrics sends buffered CloudWatch metrics, if any
func (c *Container) FlushMetrics(ctx context.Context) {
	if c.CloudWatch == nil {
		return
	}
	if err := c.CloudWatch.Flush(ctx); err != nil {
		c.Logger.Warn("Failed to flush metrics", zap.Error(err))
	}
}

// Close releases every resource in reverse order of creation
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Watcher != nil {
		errs = append(errs, c.Watcher.Close())
	}
	errs = append(errs, c.Hub.Close())
	errs = append(errs, c.Registry.Close())
	c.FlushMetrics(ctx)
	c.Logger.Sync()
	return errors.Join(errs...)
}
