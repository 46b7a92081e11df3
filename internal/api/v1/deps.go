package v1

//go:generate mockgen -source=deps.go -destination=mocks/deps.go -package=mocks

import (
	"context"
	"errors"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
	"github.com/vmunix/streamcz/internal/player"
	"github.com/vmunix/streamcz/internal/service"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Service defines the catalog, source and history operations served by the API.
type Service interface {
	SearchTitles(ctx context.Context, query string, refresh bool) ([]catalog.Title, error)
	GetTitle(ctx context.Context, id int64) (*library.Title, error)
	GetSeries(ctx context.Context, titleID int64, refresh bool) ([]catalog.Series, error)
	GetEpisodes(ctx context.Context, seriesID string, refresh bool) ([]catalog.Episode, error)
	FindSources(ctx context.Context, query string, year int, refresh bool) ([]hosting.Source, error)
	ResolveStream(ctx context.Context, path string) (*hosting.Stream, error)
	History(ctx context.Context) ([]*library.HistoryEntry, error)
	BindHistory(ctx context.Context, req service.BindRequest) (*library.HistoryEntry, error)
	AdvanceHistory(ctx context.Context, titleID int64, position float64, force bool) (*service.AdvanceResult, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Service Service

	// Optional dependencies (nil if not configured)
	Sessions *player.Sessions // player sessions, needs Bus
	Bus      *events.Bus       // publishes player changes
	EventLog *events.EventLog  // event audit log
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Service == nil {
		return errors.New("service is required")
	}
	return nil
}
