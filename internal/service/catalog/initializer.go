// Package catalog builds the Connector catalog once per process and publishes
// it together with the filter tables.
package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/age"
	"github.com/kapu/polyglot-connect-go/internal/service/notify"
	"github.com/kapu/polyglot-connect-go/internal/service/persona"
	"github.com/kapu/polyglot-connect-go/internal/service/roster"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	"go.uber.org/zap"
)

type State int32

const (
	StateAwaitingDependency State = iota
	StateProcessing
	StateReady
	StateReadyEmpty
)

func (s State) String() string {
	switch s {
	case StateAwaitingDependency:
		return "AwaitingDependency"
	case StateProcessing:
		return "Processing"
	case StateReady:
		return "Ready"
	case StateReadyEmpty:
		return "ReadyEmpty"
	default:
		return "Unknown"
	}
}

// Terminal reports whether s is Ready or ReadyEmpty.
func (s State) Terminal() bool {
	return s == StateReady || s == StateReadyEmpty
}

type Options struct {
	Registry          *age.Registry
	Source            roster.Source
	Notifier          notify.Notifier
	DependencyTimeout time.Duration
	Logger            *zap.Logger
}

// Initializer runs the one-shot build: wait for the age calculator, load and
// normalize the roster, publish the catalog, then notify exactly once.
type Initializer struct {
	registry          *age.Registry
	source            roster.Source
	notifier          notify.Notifier
	dependencyTimeout time.Duration
	logger            *zap.Logger

	state   atomic.Int32
	catalog atomic.Pointer[Catalog]
	report  persona.Report
	once    sync.Once
	done    chan struct{}

	// published is only touched by the goroutine inside once.
	published bool
}

func NewInitializer(opts Options) *Initializer {
	timeout := opts.DependencyTimeout
	if timeout <= 0 {
		timeout = constants.LifecycleConfig.DependencyTimeout
	}
	source := opts.Source
	if source == nil {
		source = roster.NewEmbeddedSource()
	}
	return &Initializer{
		registry:          opts.Registry,
		source:            source,
		notifier:          opts.Notifier,
		dependencyTimeout: timeout,
		logger:            util.OrNop(opts.Logger),
		done:              make(chan struct{}),
	}
}

func (i *Initializer) State() State {
	return State(i.state.Load())
}

// Done is closed once a catalog has been published.
func (i *Initializer) Done() <-chan struct{} {
	return i.done
}

// Catalog returns the published catalog, or nil before publication.
func (i *Initializer) Catalog() *Catalog {
	return i.catalog.Load()
}

// Report returns the normalization summary. It is only meaningful after Done.
func (i *Initializer) Report() persona.Report {
	<-i.done
	return i.report
}

// Initialize runs the build on the first call and blocks until a catalog is
// published. Every call returns the same catalog. It always reaches a
// terminal state; a cancelled ctx ends the dependency wait with an empty catalog.
func (i *Initializer) Initialize(ctx context.Context) *Catalog {
	i.once.Do(func() { i.run(ctx) })
	return i.catalog.Load()
}

func (i *Initializer) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Catalog build panicked, publishing empty catalog",
				zap.Error(errors.NewRosterError("panic while building catalog", i.source.Name(), fmt.Errorf("%v", r))),
			)
			if !i.published {
				i.publish(ctx, emptyCatalog(), StateReadyEmpty)
			}
		}
	}()

	calc, err := i.awaitDependency(ctx)
	if err != nil {
		i.logger.Error("Age calculator unavailable, publishing empty catalog", zap.Error(err))
		i.publish(ctx, emptyCatalog(), StateReadyEmpty)
		return
	}

	i.state.Store(int32(StateProcessing))
	i.logger.Info("Building persona catalog", zap.String("source", i.source.Name()))

	r, err := i.source.Load(ctx)
	if err != nil {
		i.logger.Error("Roster could not be loaded, publishing empty catalog",
			zap.String("source", i.source.Name()),
			zap.Error(err),
		)
		i.publish(ctx, emptyCatalog(), StateReadyEmpty)
		return
	}
	for _, index := range slices.Sorted(maps.Keys(r.DecodeErrors)) {
		i.logger.Debug("Roster record could not be decoded",
			zap.Int("index", index),
			zap.Error(r.DecodeErrors[index]),
		)
	}
	for _, index := range slices.Sorted(maps.Keys(r.DroppedFields)) {
		i.logger.Warn("Roster record has mistyped fields, using defaults",
			zap.Int("index", index),
			zap.Strings("fields", r.DroppedFields[index]),
		)
	}

	resolver := persona.NewResolver(domain.FilterLanguages(), calc)
	connectors, report := persona.NewEngine(resolver, i.logger).Normalize(r.Records)
	i.report = report

	if !report.RosterValid {
		i.publish(ctx, emptyCatalog(), StateReadyEmpty)
		return
	}
	i.publish(ctx, newCatalog(connectors, persona.BuildFilterIndex()), StateReady)
}

// awaitDependency checks the registry before waiting, so a calculator provided
// before Initialize is never missed.
func (i *Initializer) awaitDependency(ctx context.Context) (age.Calculator, error) {
	if i.registry == nil {
		return nil, errors.NewDependencyError("no age calculator registry configured", "age", nil)
	}
	if calc, ok := i.registry.Calculator(); ok {
		return calc, nil
	}

	i.logger.Info("Waiting for age calculator", zap.Duration("timeout", i.dependencyTimeout))

	timer := time.NewTimer(i.dependencyTimeout)
	defer timer.Stop()

	select {
	case <-i.registry.Ready():
		calc, _ := i.registry.Calculator()
		return calc, nil
	case <-timer.C:
		return nil, errors.NewDependencyError("timed out waiting for age calculator", "age", nil)
	case <-ctx.Done():
		return nil, errors.NewDependencyError("cancelled while waiting for age calculator", "age", ctx.Err())
	}
}

func (i *Initializer) publish(ctx context.Context, c *Catalog, state State) {
	i.published = true
	i.catalog.Store(c)
	i.state.Store(int32(state))
	close(i.done)

	i.logger.Info("Persona catalog published",
		zap.Stringer("state", state),
		zap.Int("connectors", c.Len()),
		zap.Int("languages", len(c.filters.Languages)),
		zap.Int("roles", len(c.filters.Roles)),
	)

	if i.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.LifecycleConfig.NotifyTimeout)
	defer cancel()
	if err := i.notifier.CatalogReady(notifyCtx); err != nil {
		i.logger.Warn("Catalog ready notification failed", zap.Error(err))
	}
}
