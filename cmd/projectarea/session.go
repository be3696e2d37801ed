package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	cmdhandlers "github.com/coltranesx/Project-Area/application/commands/handlers"
	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/application/ports"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	queryhandlers "github.com/coltranesx/Project-Area/application/queries/handlers"
	"github.com/coltranesx/Project-Area/infrastructure/config"
	"github.com/coltranesx/Project-Area/infrastructure/persistence/kv"
	"github.com/coltranesx/Project-Area/infrastructure/storage"
	"github.com/coltranesx/Project-Area/pkg/observability"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// options are the global flags
type options struct {
	store     string
	workspace string
	exportDir string
	settings  string
	verbose   bool
}

// session is one loaded workspace
type session struct {
	workspace  commands.Workspace
	registry   *editor.Registry
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// openStore parses --store: memory, badger:<dir> or dynamodb:<table>.
func openStore(ctx context.Context, uri string, logger *zap.Logger) (ports.KeyValueStore, error) {
	kind, arg, _ := strings.Cut(uri, ":")
	switch kind {
	case config.StoreMemory:
		return kv.NewMemory(), nil
	case config.StoreBadger:
		if arg == "" {
			return nil, fmt.Errorf("--store badger needs a directory, as in badger:./data")
		}
		return kv.NewBadger(kv.BadgerOptions{Dir: arg, Logger: logger})
	case config.StoreDynamoDB:
		if arg == "" {
			return nil, fmt.Errorf("--store dynamodb needs a table, as in dynamodb:project-area")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return kv.NewBreakerStore(
			kv.NewDynamoDB(awsdynamodb.NewFromConfig(awsCfg), arg, logger),
			kv.NewStoreBreaker("dynamodb", logger),
		), nil
	}
	return nil, fmt.Errorf("unknown store %q", uri)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openSession(ctx context.Context, opts *options, out io.Writer) (*session, error) {
	logger := newLogger(opts.verbose)

	settings, err := config.LoadSettings(opts.settings)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, opts.store, logger)
	if err != nil {
		return nil, err
	}
	files, err := storage.NewLocal(opts.exportDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	registry := editor.NewRegistry(store, files, newPrinter(out), nil, observability.NoopMetrics{}, settings, logger)

	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	if err := cmdhandlers.NewEditorHandlers(registry, logger).Register(commandBus); err != nil {
		registry.Close()
		return nil, err
	}
	queryBus := querybus.NewQueryBus()
	if err := queryhandlers.NewEditorQueries(registry).Register(queryBus); err != nil {
		registry.Close()
		return nil, err
	}

	return &session{
		workspace:  commands.Workspace{WorkspaceID: opts.workspace},
		registry:   registry,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}, nil
}

// mutate sends cmd and quick-saves the result. A CLI invocation is a whole
// session, so nothing would persist otherwise.
func (s *session) mutate(ctx context.Context, cmd bus.Command) (any, error) {
	result, err := s.commandBus.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if _, err := s.commandBus.Send(ctx, commands.QuickSaveCommand{Workspace: s.workspace}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *session) close() error {
	err := s.registry.Close()
	s.logger.Sync()
	return err
}
