package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/player"
	"github.com/vmunix/streamcz/internal/service"
)

// SourceFinder finds ranked sources and reports the source bound in history.
type SourceFinder interface {
	FindSources(ctx context.Context, query string, year int, refresh bool) ([]hosting.Source, error)
	BoundLink(ctx context.Context, titleID int64) (string, error)
}

// SourceHandler recomputes a player session's sources whenever its query
// or episode changes. Searches run per title in their own goroutine; a newer
// change for the same title cancels the search in flight.
type SourceHandler struct {
	*BaseHandler
	finder   SourceFinder
	sessions *player.Sessions

	mu       sync.Mutex
	inflight map[int64]*search
	wg       sync.WaitGroup
}

// search is one in-flight source search of a title.
type search struct {
	revision uint64
	cancel   context.CancelFunc
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(bus *events.Bus, finder SourceFinder, sessions *player.Sessions, logger *slog.Logger) *SourceHandler {
	return &SourceHandler{
		BaseHandler: NewBaseHandler("sources", bus, logger),
		finder:      finder,
		sessions:    sessions,
		inflight:    make(map[int64]*search),
	}
}

// Start begins processing events. It returns once every search it started
// has finished.
func (h *SourceHandler) Start(ctx context.Context) error {
	changes, release := h.subscribe(100, events.EventPlayerQueryChanged, events.EventPlayerEpisodeSelected)
	defer release()

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		h.wg.Wait()
	}()

	for {
		select {
		case e, ok := <-changes:
			if !ok {
				return nil // Channel closed
			}
			switch ev := e.(type) {
			case *events.QueryChanged:
				h.recompute(ctx, ev.TitleID, ev.Revision, ev.Query, ev.Year, ev.Refresh, "query_changed")
			case *events.EpisodeSelected:
				query := service.EpisodeQuery(ev.ShowTitle, ev.Season, ev.Episode)
				h.recompute(ctx, ev.TitleID, ev.Revision, query, 0, ev.Refresh, "episode_selected")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *SourceHandler) recompute(ctx context.Context, titleID int64, revision uint64, query string, year int, refresh bool, reason string) {
	if !h.sessions.Invalidate(titleID, revision) {
		h.Logger().Debug("session change superseded", "title_id", titleID, "revision", revision)
		return
	}
	h.publish(ctx, &events.SourcesInvalidated{
		BaseEvent: events.NewBaseEvent(events.EventSourcesInvalidated, events.EntityTitle, events.TitleEntity(titleID)),
		TitleID:   titleID,
		Revision:  revision,
		Reason:    reason,
	})

	searchCtx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	if prev, ok := h.inflight[titleID]; ok {
		h.Logger().Debug("cancelling superseded source search", "title_id", titleID, "revision", prev.revision)
		prev.cancel()
	}
	cur := &search{revision: revision, cancel: cancel}
	h.inflight[titleID] = cur
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			cancel()
			h.mu.Lock()
			if h.inflight[titleID] == cur {
				delete(h.inflight, titleID)
			}
			h.mu.Unlock()
		}()
		h.find(searchCtx, titleID, revision, query, year, refresh)
	}()
}

// find runs one search and stores its outcome unless the revision was
// superseded or the search cancelled.
func (h *SourceHandler) find(ctx context.Context, titleID int64, revision uint64, query string, year int, refresh bool) {
	sources, err := h.finder.FindSources(ctx, query, year, refresh)
	if ctx.Err() != nil {
		h.Logger().Debug("source search cancelled", "title_id", titleID, "revision", revision)
		return
	}
	if err != nil {
		h.Logger().Warn("source search failed", "title_id", titleID, "query", query, "error", err)
		if h.sessions.Fail(titleID, revision, err.Error()) {
			h.publish(ctx, &events.SourcesFailed{
				BaseEvent: events.NewBaseEvent(events.EventSourcesFailed, events.EntityTitle, events.TitleEntity(titleID)),
				TitleID:   titleID,
				Revision:  revision,
				Query:     query,
				Error:     err.Error(),
			})
		}
		return
	}

	bound, err := h.finder.BoundLink(ctx, titleID)
	if err != nil {
		h.Logger().Warn("failed to read bound source", "title_id", titleID, "error", err)
	}
	var selected *hosting.Source
	if src, ok := service.SelectSource(sources, bound); ok {
		selected = &src
	}

	if !h.sessions.Resolve(titleID, revision, sources, selected) {
		h.Logger().Debug("dropping stale sources", "title_id", titleID, "revision", revision)
		return
	}

	resolved := &events.SourcesResolved{
		BaseEvent: events.NewBaseEvent(events.EventSourcesResolved, events.EntityTitle, events.TitleEntity(titleID)),
		TitleID:   titleID,
		Revision:  revision,
		Query:     query,
		Count:     len(sources),
	}
	if selected != nil {
		resolved.SelectedLink = selected.Link
	}
	h.Logger().Info("sources resolved", "title_id", titleID, "revision", revision, "results", len(sources))
	h.publish(ctx, resolved)
}
