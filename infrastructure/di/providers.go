package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands/bus"
	cmdhandlers "github.com/coltranesx/Project-Area/application/commands/handlers"
	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/application/ports"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	queryhandlers "github.com/coltranesx/Project-Area/application/queries/handlers"
	domainconfig "github.com/coltranesx/Project-Area/domain/config"
	"github.com/coltranesx/Project-Area/infrastructure/config"
	"github.com/coltranesx/Project-Area/infrastructure/messaging/eventbridge"
	"github.com/coltranesx/Project-Area/infrastructure/persistence/kv"
	"github.com/coltranesx/Project-Area/infrastructure/storage"
	"github.com/coltranesx/Project-Area/interfaces/http/rest"
	"github.com/coltranesx/Project-Area/interfaces/websocket"
	"github.com/coltranesx/Project-Area/pkg/auth"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName identifies the service in traces.
const ServiceName = "project-area"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zcfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideKeyValueStore opens the local-storage channel backend. Remote
// backends sit behind a circuit breaker.
func ProvideKeyValueStore(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.KeyValueStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBadger:
		return kv.NewBadger(kv.BadgerOptions{Dir: cfg.BadgerDir, Logger: logger})
	case config.StoreDynamoDB:
		client := awsdynamodb.NewFromConfig(awsCfg)
		return kv.NewBreakerStore(
			kv.NewDynamoDB(client, cfg.DynamoDBTable, logger),
			kv.NewStoreBreaker("dynamodb", logger),
		), nil
	case config.StoreMemory:
		return kv.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// ProvideFileStore opens the export destination
func ProvideFileStore(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.FileStore, error) {
	switch cfg.FileBackend {
	case config.FilesS3:
		client := awss3.NewFromConfig(awsCfg)
		return storage.NewBreakerStore(storage.NewS3(client, cfg.S3Bucket, cfg.S3Prefix, logger), "s3", logger), nil
	case config.FilesLocal:
		return storage.NewLocal(cfg.ExportDir)
	}
	return nil, fmt.Errorf("unknown file backend %q", cfg.FileBackend)
}

// ProvideEventPublisher publishes domain events to EventBridge, or only
// logs them when no bus is configured.
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.MetricsNamespace)
}

// ProvideCloudWatchSink returns the CloudWatch sink used in Lambda, or nil
func ProvideCloudWatchSink(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *observability.CloudWatchSink {
	if !cfg.IsLambda || !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCloudWatchSink(cfg.MetricsNamespace, awscloudwatch.NewFromConfig(awsCfg), logger)
}

// ProvideMetrics combines the enabled metric sinks
func ProvideMetrics(cfg *config.Config, collector *observability.Collector, cloudwatch *observability.CloudWatchSink) ports.Metrics {
	if !cfg.EnableMetrics {
		return observability.NoopMetrics{}
	}
	sinks := observability.Fanout{collector}
	if cloudwatch != nil {
		sinks = append(sinks, cloudwatch)
	}
	return sinks
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer(ServiceName)
}

// ProvideCommandBus creates the command bus. Handlers are registered by
// ProvideEditorHandlers once the registry exists.
func ProvideCommandBus(cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) *bus.CommandBus {
	middlewares := []bus.Middleware{bus.LoggingMiddleware(logger)}
	if cfg.EnableTracing {
		middlewares = append(middlewares, bus.TracingMiddleware(tracer))
	}
	return bus.NewCommandBus(middlewares...)
}

// ProvideHub creates the websocket hub
func ProvideHub(cfg *config.Config, commandBus *bus.CommandBus, collector *observability.Collector, logger *zap.Logger) *websocket.Hub {
	return websocket.NewHub(commandBus, collector.WebsocketClients, cfg.AllowedOrigins, logger)
}

// ProvideEditorSettings loads the editor settings file
func ProvideEditorSettings(cfg *config.Config) (domainconfig.EditorSettings, error) {
	return config.LoadSettings(cfg.SettingsFile)
}

// ProvideRegistry creates the workspace registry and streams its changes to
// websocket clients.
func ProvideRegistry(
	store ports.KeyValueStore,
	files ports.FileStore,
	hub *websocket.Hub,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	settings domainconfig.EditorSettings,
	logger *zap.Logger,
) *editor.Registry {
	registry := editor.NewRegistry(store, files, hub, publisher, metrics, settings, logger)
	registry.SubscribeAll(hub.OnChange)
	return registry
}

// ProvideEditorHandlers registers the editor command handlers on the bus
func ProvideEditorHandlers(commandBus *bus.CommandBus, registry *editor.Registry, logger *zap.Logger) (*cmdhandlers.EditorHandlers, error) {
	handlers := cmdhandlers.NewEditorHandlers(registry, logger)
	if err := handlers.Register(commandBus); err != nil {
		return nil, fmt.Errorf("register command handlers: %w", err)
	}
	return handlers, nil
}

// ProvideQueryBus creates the query bus with the editor queries registered
func ProvideQueryBus(registry *editor.Registry) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	if err := queryhandlers.NewEditorQueries(registry).Register(queryBus); err != nil {
		return nil, fmt.Errorf("register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJWTValidator returns the token validator, or nil when auth is off
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.AuthEnabled() {
		return nil, nil
	}
	return auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideHTTPHandler builds the router. handlers is taken so that commands
// are registered before the first request.
func ProvideHTTPHandler(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	validator *auth.JWTValidator,
	collector *observability.Collector,
	hub *websocket.Hub,
	_ *cmdhandlers.EditorHandlers,
	logger *zap.Logger,
) http.Handler {
	opts := rest.Options{
		Validator: validator,
		Websocket: hub,
	}
	if cfg.EnableMetrics {
		opts.Metrics = collector
	}
	if cfg.EnableCORS {
		opts.AllowedOrigins = cfg.AllowedOrigins
	}
	return rest.NewRouter(commandBus, queryBus, errs, opts, logger).Setup()
}

// ProvideSettingsWatcher hot-reloads the settings file into the registry.
// It returns nil when there is no file to watch or the process is
// short-lived.
func ProvideSettingsWatcher(cfg *config.Config, registry *editor.Registry, logger *zap.Logger) (*config.SettingsWatcher, error) {
	if cfg.SettingsFile == "" || cfg.IsLambda {
		return nil, nil
	}
	return config.NewSettingsWatcher(cfg.SettingsFile, registry.UpdateSettings, logger)
}
