//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/coltranesx/Project-Area/infrastructure/config"
	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideKeyValueStore,
	ProvideFileStore,
	ProvideEventPublisher,
	ProvideCollector,
	ProvideCloudWatchSink,
	ProvideMetrics,
	ProvideTracer,
	ProvideCommandBus,
	ProvideHub,
	ProvideEditorSettings,
	ProvideRegistry,
	ProvideEditorHandlers,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideJWTValidator,
	ProvideHTTPHandler,
	ProvideSettingsWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
