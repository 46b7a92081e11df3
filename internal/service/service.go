// Package service answers consumer requests by combining the catalog and
// hosting clients with the local result cache and watch history.
package service

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultCheckpointThreshold = 5 * time.Second
	DefaultHistoryLimit        = 10
)

// ErrInvalidInput is returned for requests missing a required field.
var ErrInvalidInput = errors.New("invalid input")

// Catalog is the subset of the catalog client the service uses.
type Catalog interface {
	Search(ctx context.Context, query string) ([]catalog.Title, error)
	Series(ctx context.Context, id string) ([]catalog.Series, error)
	Episodes(ctx context.Context, seriesID string) ([]catalog.Episode, error)
	Forget(id string)
}

// Hosting is the subset of the hosting client the service uses.
type Hosting interface {
	FindSources(ctx context.Context, query string, year int) ([]hosting.Source, error)
	ResolveStream(ctx context.Context, path string) (*hosting.Stream, error)
}

// Config tunes cache and history behavior.
type Config struct {
	// CheckpointThreshold is the smallest position change an unforced
	// advance persists.
	CheckpointThreshold time.Duration
	// TrustEmptyCache answers a stored empty listing from the cache
	// instead of fetching it again.
	TrustEmptyCache bool
	// HistoryLimit caps History results.
	HistoryLimit int
}

// Service implements the consumer operations.
type Service struct {
	catalog Catalog
	hosting Hosting
	store   *library.Store
	bus     *events.Bus
	cfg     Config
	log     *slog.Logger
}

// New creates a Service. bus may be nil, in which case no events are published.
func New(c Catalog, h Hosting, store *library.Store, bus *events.Bus, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CheckpointThreshold <= 0 {
		cfg.CheckpointThreshold = DefaultCheckpointThreshold
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &Service{
		catalog: c,
		hosting: h,
		store:   store,
		bus:     bus,
		cfg:     cfg,
		log:     log,
	}
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.log.Warn("publish failed", "type", e.EventType(), "error", err)
	}
}
