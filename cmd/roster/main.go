// Command roster builds the persona catalog and inspects the result.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/app"
	"github.com/kapu/polyglot-connect-go/internal/config"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	source   string
	file     string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "roster",
		Short:         "Build and inspect the persona catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.source, "source", "", "Roster source: embedded, file or postgres (default from ROSTER_SOURCE)")
	root.PersistentFlags().StringVar(&opts.file, "file", "", "Roster file for --source=file (JSON or YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	root.AddCommand(
		newBuildCmd(opts),
		newShowCmd(opts),
		newListCmd(opts),
		newFiltersCmd(opts),
		newFlagsCmd(opts),
	)
	return root
}

// session is one assembled container plus the context it runs under.
type session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
	container *app.Container
}

func (s *session) Close() {
	s.container.Close()
	_ = s.logger.Sync()
	s.cancel()
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		cancel()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to assemble services: %w", err)
	}

	return &session{ctx: ctx, cancel: cancel, logger: logger, container: container}, nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.source != "" {
		cfg.Roster.Source = opts.source
	}
	if opts.file != "" {
		cfg.Roster.File = opts.file
		if opts.source == "" {
			cfg.Roster.Source = config.RosterSourceFile
		}
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
