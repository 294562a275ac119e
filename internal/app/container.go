package app

import (
	"context"
	"fmt"

	"github.com/kapu/polyglot-connect-go/internal/adapter"
	"github.com/kapu/polyglot-connect-go/internal/config"
	"github.com/kapu/polyglot-connect-go/internal/service/age"
	"github.com/kapu/polyglot-connect-go/internal/service/catalog"
	"github.com/kapu/polyglot-connect-go/internal/service/database"
	"github.com/kapu/polyglot-connect-go/internal/service/flag"
	"github.com/kapu/polyglot-connect-go/internal/service/notify"
	"github.com/kapu/polyglot-connect-go/internal/service/roster"
	"go.uber.org/zap"
)

// Container bundles the assembled services. Close releases the connections it
// opened.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Ages        *age.Registry
	Initializer *catalog.Initializer
	Ready       *notify.Broadcaster
	Flags       *flag.Provider
	Formatter   *adapter.CardFormatter
	Source      roster.Source

	closers []func()
}

// Build assembles the roster source, notifiers and catalog initializer. The
// age calculator is provided after the initializer exists, the same order a
// late-loading dependency would arrive in.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			container.Close()
		}
	}()

	source, err := container.buildSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	container.Source = source

	broadcaster := notify.NewBroadcaster()
	notifiers := notify.Fanout{broadcaster}

	if cfg.Redis.Enabled {
		publisher, err := notify.NewRedisPublisher(notify.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.ReadyChannel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis publisher: %w", err)
		}
		container.closers = append(container.closers, func() {
			_ = publisher.Close()
		})
		notifiers = append(notifiers, publisher)
	}

	container.Ready = broadcaster
	container.Ages = age.NewRegistry()
	container.Initializer = catalog.NewInitializer(catalog.Options{
		Registry:          container.Ages,
		Source:            source,
		Notifier:          notifiers,
		DependencyTimeout: cfg.Lifecycle.DependencyTimeout,
		Logger:            logger,
	})
	container.Ages.Provide(age.NewDateCalculator())

	container.Flags = flag.NewProvider(flag.Config{
		CDNBaseURL:     cfg.Flags.CDNBaseURL,
		FallbackURL:    cfg.Flags.FallbackURL,
		Concurrency:    cfg.Flags.PreloadConcurrency,
		RequestTimeout: cfg.Flags.RequestTimeout,
	}, nil, logger)
	container.Formatter = adapter.NewCardFormatter(container.Flags)

	return container, nil
}

func (c *Container) buildSource(cfg *config.Config, logger *zap.Logger) (roster.Source, error) {
	switch cfg.Roster.Source {
	case config.RosterSourceFile:
		return roster.NewFileSource(cfg.Roster.File), nil
	case config.RosterSourcePostgres:
		postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = postgresSvc.Close()
		})
		return roster.NewPostgresSource(postgresSvc, cfg.Postgres.Table, logger), nil
	default:
		return roster.NewEmbeddedSource(), nil
	}
}

// Catalog builds the catalog on first use and returns it.
func (c *Container) Catalog(ctx context.Context) *catalog.Catalog {
	return c.Initializer.Initialize(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
