// Package server runs the long-lived background components of the daemon.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/handlers"
	"github.com/vmunix/streamcz/internal/library"
	"github.com/vmunix/streamcz/internal/player"
)

// Config for the background components.
type Config struct {
	PruneInterval  time.Duration
	EventRetention time.Duration
	CacheRetention time.Duration
}

// Deps are the shared components the handlers work on. EventLog and Store
// may be nil.
type Deps struct {
	Bus      *events.Bus
	EventLog *events.EventLog
	Store    *library.Store
	Finder   handlers.SourceFinder
	Sessions *player.Sessions
}

// Runner manages the event-driven components.
type Runner struct {
	deps   Deps
	config Config
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(deps Deps, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		deps:   deps,
		config: cfg,
		logger: logger,
	}
}

// Handlers builds the handlers Run starts.
func (r *Runner) Handlers() []handlers.Handler {
	hs := []handlers.Handler{
		handlers.NewMaintenanceHandler(r.deps.Bus, r.deps.EventLog, r.deps.Store, handlers.MaintenanceConfig{
			Interval:       r.config.PruneInterval,
			EventRetention: r.config.EventRetention,
			CacheRetention: r.config.CacheRetention,
		}, r.logger),
	}
	if r.deps.Finder != nil && r.deps.Sessions != nil {
		hs = append(hs, handlers.NewSourceHandler(r.deps.Bus, r.deps.Finder, r.deps.Sessions, r.logger))
	}
	return hs
}

// Run starts all event-driven components.
// It blocks until the context is canceled or a handler fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, h := range r.Handlers() {
		g.Go(func() error {
			r.logger.Info("handler started", "handler", h.Name())
			err := h.Start(ctx)
			r.logger.Info("handler stopped", "handler", h.Name())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
